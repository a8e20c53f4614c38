package vdom

import (
	"github.com/vango-dev/reactor/pkg/dom"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComment                // Comment node
	KindFragment               // Grouping without wrapper
	KindTeleport               // Children rendered into another container
	KindComponent              // Nested component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	case KindTeleport:
		return "Teleport"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// ChildShape says how an element's children are stored.
type ChildShape uint8

const (
	ChildrenNone  ChildShape = iota
	ChildrenText             // VNode.Text is the element's text content
	ChildrenArray            // VNode.Children
)

// Props holds attributes and event handlers.
type Props map[string]any

// Slot renders slot content supplied by a parent.
type Slot func() []*VNode

// Slots maps slot names to their render functions.
type Slots map[string]Slot

// VNode is the virtual DOM node. VNodes are built fresh for every render
// pass; once mounted, El is owned by exactly one VNode.
type VNode struct {
	Kind     VKind       // Node type
	Tag      string      // Element tag name (e.g., "div")
	Def      *Definition // For KindComponent
	Props    Props       // Attributes and event handlers
	Children []*VNode    // Child nodes
	Shape    ChildShape  // For KindElement
	Text     string      // For KindText, KindComment, or ChildrenText elements
	Key      string      // Reconciliation key
	Target   string      // Teleport target selector
	Slots    Slots       // For KindComponent

	// Set by the renderer.
	El        dom.Node  // Host node (start marker for fragments and teleports)
	Anchor    dom.Node  // End marker for fragments and teleports
	TargetEl  dom.Node  // Resolved teleport container
	Component *Instance // Mounted instance for KindComponent

	// Content markers inside TargetEl, set when hydrated from markup that
	// has them.
	TargetStart  dom.Node
	TargetAnchor dom.Node
}

// sameVNodeType reports whether n2 can be patched onto n1 in place.
func sameVNodeType(n1, n2 *VNode) bool {
	if n1.Kind != n2.Kind || n1.Key != n2.Key {
		return false
	}
	switch n1.Kind {
	case KindElement:
		return n1.Tag == n2.Tag
	case KindComponent:
		return n1.Def == n2.Def
	}
	return true
}

// clone returns an unmounted copy of v. Mounted children are cloned too.
func clone(v *VNode) *VNode {
	c := *v
	c.El, c.Anchor, c.TargetEl, c.Component = nil, nil, nil, nil
	c.TargetStart, c.TargetAnchor = nil, nil
	if len(v.Children) > 0 {
		c.Children = make([]*VNode, len(v.Children))
		for i, child := range v.Children {
			if child.El != nil || child.Component != nil {
				child = clone(child)
			}
			c.Children[i] = child
		}
	}
	return &c
}

// IsMounted reports whether the renderer has attached v to host nodes.
func (v *VNode) IsMounted() bool {
	return v != nil && (v.El != nil || v.Component != nil)
}

// Name returns the component name of a component node.
func (v *VNode) Name() string {
	if v.Kind == KindComponent && v.Def != nil {
		return v.Def.displayName()
	}
	return v.Tag
}
