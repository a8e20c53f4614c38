package dom

import (
	"fmt"
	"sort"
	"strings"
)

// MemNode is a node of an in-memory Document.
type MemNode struct {
	Type NodeType
	Tag  string
	Data string

	attrs     map[string]string
	listeners map[string]any

	parent   *MemNode
	children []*MemNode
}

// Parent returns the parent node, or nil.
func (n *MemNode) Parent() *MemNode { return n.parent }

// Children returns the child nodes. The slice must not be modified.
func (n *MemNode) Children() []*MemNode { return n.children }

// Attr returns an attribute value.
func (n *MemNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Attrs returns a copy of the attributes.
func (n *MemNode) Attrs() map[string]string {
	out := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// HasListener reports whether a handler is bound for the event type.
func (n *MemNode) HasListener(event string) bool {
	_, ok := n.listeners[event]
	return ok
}

// TextContent returns the concatenated text of n and its descendants.
func (n *MemNode) TextContent() string {
	switch n.Type {
	case NodeText:
		return n.Data
	case NodeComment:
		return ""
	}
	var sb strings.Builder
	for _, c := range n.children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

func (n *MemNode) indexOf(child *MemNode) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *MemNode) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

// String returns a short description for logs.
func (n *MemNode) String() string {
	switch n.Type {
	case NodeElement:
		return "<" + n.Tag + ">"
	case NodeText:
		return fmt.Sprintf("#text(%q)", n.Data)
	case NodeComment:
		return fmt.Sprintf("<!--%s-->", n.Data)
	case NodeDocument:
		return "#document"
	}
	return "#unknown"
}

// Event is passed to func(*Event) handlers by Dispatch.
type Event struct {
	Type   string
	Target *MemNode
	Detail any
}

// Document is an in-memory node tree implementing Host. It serves as the
// server-side tree and as the test double. It is not safe for concurrent use.
type Document struct {
	root *MemNode
	body *MemNode
}

var _ Host = (*Document)(nil)
var _ AttributeReader = (*Document)(nil)

// NewDocument creates a document holding an empty <body>.
func NewDocument() *Document {
	root := &MemNode{Type: NodeDocument}
	body := &MemNode{Type: NodeElement, Tag: "body"}
	body.parent = root
	root.children = []*MemNode{body}
	return &Document{root: root, body: body}
}

// Root returns the document node.
func (d *Document) Root() *MemNode { return d.root }

// Body returns the <body> element.
func (d *Document) Body() *MemNode { return d.body }

// mem converts a Node handle. Foreign or nil handles yield nil.
func mem(n Node) *MemNode {
	m, _ := n.(*MemNode)
	return m
}

// handle converts back, keeping nil an untyped nil.
func handle(m *MemNode) Node {
	if m == nil {
		return nil
	}
	return m
}

// CreateElement implements Host.
func (d *Document) CreateElement(tag string) Node {
	return &MemNode{Type: NodeElement, Tag: strings.ToLower(tag)}
}

// CreateText implements Host.
func (d *Document) CreateText(text string) Node {
	return &MemNode{Type: NodeText, Data: text}
}

// CreateComment implements Host.
func (d *Document) CreateComment(text string) Node {
	return &MemNode{Type: NodeComment, Data: text}
}

// SetElementText implements Host.
func (d *Document) SetElementText(el Node, text string) {
	m := mem(el)
	if m == nil {
		return
	}
	for _, c := range m.children {
		c.parent = nil
	}
	m.children = nil
	if text != "" {
		t := &MemNode{Type: NodeText, Data: text, parent: m}
		m.children = []*MemNode{t}
	}
}

// SetText implements Host.
func (d *Document) SetText(node Node, text string) {
	if m := mem(node); m != nil {
		m.Data = text
	}
}

// Insert implements Host. An anchor that is not a child of parent is
// treated as nil.
func (d *Document) Insert(child, parent, anchor Node) {
	c, p := mem(child), mem(parent)
	if c == nil || p == nil {
		return
	}
	a := mem(anchor)
	if a == c {
		return
	}
	c.detach()
	c.parent = p

	i := -1
	if a != nil {
		i = p.indexOf(a)
	}
	if i < 0 {
		p.children = append(p.children, c)
		return
	}
	p.children = append(p.children, nil)
	copy(p.children[i+1:], p.children[i:])
	p.children[i] = c
}

// Remove implements Host.
func (d *Document) Remove(child Node) {
	if c := mem(child); c != nil {
		c.detach()
	}
}

// PatchProp implements Host. on<Event> keys bind a func() or func(*Event)
// listener. A nil or false value removes the attribute, true sets it empty,
// and a style map is serialized in key order.
func (d *Document) PatchProp(el Node, key string, prev, next any) {
	m := mem(el)
	if m == nil || m.Type != NodeElement {
		return
	}
	if event, ok := EventName(key); ok {
		if next == nil {
			delete(m.listeners, event)
			return
		}
		if m.listeners == nil {
			m.listeners = make(map[string]any)
		}
		m.listeners[event] = next
		return
	}

	v, ok := AttrValue(key, next)
	if !ok {
		delete(m.attrs, key)
		return
	}
	if m.attrs == nil {
		m.attrs = make(map[string]string)
	}
	m.attrs[key] = v
}

// GetAttribute implements AttributeReader.
func (d *Document) GetAttribute(el Node, name string) (string, bool) {
	m := mem(el)
	if m == nil {
		return "", false
	}
	return m.Attr(name)
}

// QuerySelector implements Host. It supports a single compound selector
// made of an optional tag, an optional #id and any number of .class parts.
func (d *Document) QuerySelector(selector string) Node {
	sel, ok := parseSelector(selector)
	if !ok {
		return nil
	}
	return handle(find(d.root, sel))
}

// FirstChild implements Host.
func (d *Document) FirstChild(n Node) Node {
	m := mem(n)
	if m == nil || len(m.children) == 0 {
		return nil
	}
	return m.children[0]
}

// NextSibling implements Host.
func (d *Document) NextSibling(n Node) Node {
	m := mem(n)
	if m == nil || m.parent == nil {
		return nil
	}
	i := m.parent.indexOf(m)
	if i < 0 || i+1 >= len(m.parent.children) {
		return nil
	}
	return m.parent.children[i+1]
}

// Parent implements Host.
func (d *Document) Parent(n Node) Node {
	m := mem(n)
	if m == nil {
		return nil
	}
	return handle(m.parent)
}

// NodeType implements Host.
func (d *Document) NodeType(n Node) NodeType {
	if m := mem(n); m != nil {
		return m.Type
	}
	return NodeUnknown
}

// Tag implements Host.
func (d *Document) Tag(n Node) string {
	if m := mem(n); m != nil {
		return m.Tag
	}
	return ""
}

// Text implements Host. Elements have no own text.
func (d *Document) Text(n Node) string {
	if m := mem(n); m != nil && m.Type != NodeElement {
		return m.Data
	}
	return ""
}

// Dispatch invokes the listener bound to event on n, passing an *Event to
// func(*Event) handlers. Events do not bubble. It reports whether a
// listener ran.
func (d *Document) Dispatch(n Node, event string, detail ...any) bool {
	m := mem(n)
	if m == nil {
		return false
	}
	h, ok := m.listeners[strings.ToLower(event)]
	if !ok {
		return false
	}
	ev := &Event{Type: event, Target: m}
	if len(detail) > 0 {
		ev.Detail = detail[0]
	}
	switch fn := h.(type) {
	case func():
		fn()
	case func(*Event):
		fn(ev)
	case func(any):
		fn(ev.Detail)
	default:
		return false
	}
	return true
}

// EventName reports whether a prop key names an event handler and returns
// the lower-cased event type ("onClick" -> "click").
func EventName(key string) (string, bool) {
	if len(key) <= 2 || !strings.HasPrefix(key, "on") {
		return "", false
	}
	return strings.ToLower(key[2:]), true
}

// AttrValue converts a prop value to its attribute text. ok is false when
// the attribute should be absent.
func AttrValue(key string, v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case bool:
		return "", t
	case string:
		return t, true
	case map[string]string:
		if key == "style" {
			return styleText(t), true
		}
	case map[string]any:
		if key == "style" {
			ss := make(map[string]string, len(t))
			for k, v := range t {
				ss[k] = fmt.Sprint(v)
			}
			return styleText(ss), true
		}
	case []string:
		if key == "class" {
			return strings.Join(t, " "), true
		}
	}
	return fmt.Sprint(v), true
}

func styleText(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+m[k])
	}
	return strings.Join(parts, "; ")
}
