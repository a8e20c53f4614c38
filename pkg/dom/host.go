package dom

// Node is an opaque host node handle. Hosts decide the concrete type; the
// patch engine only stores and passes nodes back.
type Node any

// NodeType classifies a host node.
type NodeType uint8

const (
	NodeUnknown NodeType = iota
	NodeElement
	NodeText
	NodeComment
	NodeDocument
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case NodeElement:
		return "Element"
	case NodeText:
		return "Text"
	case NodeComment:
		return "Comment"
	case NodeDocument:
		return "Document"
	default:
		return "Unknown"
	}
}

// Host operation names, as reported by Recorder and metrics.
const (
	OpCreateElement  = "createElement"
	OpCreateText     = "createText"
	OpCreateComment  = "createComment"
	OpSetElementText = "setElementText"
	OpSetText        = "setText"
	OpInsert         = "insert"
	OpRemove         = "remove"
	OpPatchProp      = "patchProp"
	OpQuerySelector  = "querySelector"
)

// Host is the DOM capability surface the patch engine is parameterized by.
//
// Insert with a nil anchor appends. Inserting a node that already has a
// parent moves it. Navigation methods return nil at the end of a sibling
// list or when the node is nil.
type Host interface {
	CreateElement(tag string) Node
	CreateText(text string) Node
	CreateComment(text string) Node

	// SetElementText replaces all children of el with a single text node.
	SetElementText(el Node, text string)
	// SetText updates the content of a text or comment node.
	SetText(node Node, text string)

	Insert(child, parent, anchor Node)
	Remove(child Node)

	// PatchProp updates one property of el from prev to next. Keys of the
	// form on<Event> bind event handlers; a nil next removes the property.
	PatchProp(el Node, key string, prev, next any)

	QuerySelector(selector string) Node

	FirstChild(n Node) Node
	NextSibling(n Node) Node
	Parent(n Node) Node

	NodeType(n Node) NodeType
	Tag(n Node) string
	Text(n Node) string
}

// AttributeReader is implemented by hosts that can read back attributes.
// Hydration uses it to skip writes whose server value already matches.
type AttributeReader interface {
	GetAttribute(el Node, name string) (string, bool)
}
