package vdom

import (
	"fmt"
)

// H creates an element node. Children may be *VNode, []*VNode, strings
// (text nodes) or any other value printed with fmt; nil children are
// skipped. A lone string child becomes the element's text content. A "key"
// prop is moved to VNode.Key.
func H(tag string, props Props, children ...any) *VNode {
	node := &VNode{Kind: KindElement, Tag: tag}
	node.Props, node.Key = extractKey(props)

	if len(children) == 1 {
		if s, ok := children[0].(string); ok {
			node.Shape = ChildrenText
			node.Text = s
			return node
		}
	}
	node.Children = normalizeChildren(children)
	if len(node.Children) > 0 {
		node.Shape = ChildrenArray
	}
	return node
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Comment creates a comment node.
func Comment(content string) *VNode {
	return &VNode{Kind: KindComment, Text: content}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	return &VNode{Kind: KindFragment, Children: normalizeChildren(children)}
}

// Teleport renders children into the container matched by target instead
// of in place.
func Teleport(target string, children ...any) *VNode {
	return &VNode{Kind: KindTeleport, Target: target, Children: normalizeChildren(children)}
}

// Component creates a component node.
func Component(def *Definition, props Props, slots Slots) *VNode {
	node := &VNode{Kind: KindComponent, Def: def, Slots: slots}
	node.Props, node.Key = extractKey(props)
	return node
}

// Keyed sets the reconciliation key of v and returns it.
func Keyed(key any, v *VNode) *VNode {
	if v != nil {
		v.Key = fmt.Sprint(key)
	}
	return v
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// Range maps items to keyed-or-unkeyed nodes.
func Range[T any](items []T, fn func(i int, item T) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i, item := range items {
		if n := fn(i, item); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func extractKey(props Props) (Props, string) {
	k, ok := props["key"]
	if !ok {
		return props, ""
	}
	out := make(Props, len(props)-1)
	for name, v := range props {
		if name != "key" {
			out[name] = v
		}
	}
	if k == nil {
		return out, ""
	}
	return out, fmt.Sprint(k)
}

func normalizeChildren(children []any) []*VNode {
	var out []*VNode
	for _, child := range children {
		switch v := child.(type) {
		case nil:
		case *VNode:
			if v != nil {
				out = append(out, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					out = append(out, c)
				}
			}
		case string:
			out = append(out, Text(v))
		case []any:
			out = append(out, normalizeChildren(v)...)
		default:
			out = append(out, Text(fmt.Sprint(v)))
		}
	}
	return out
}
