package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses markup as body content and appends the resulting nodes
// to parent (the body when parent is nil). It returns the top-level nodes
// added.
func (d *Document) ParseHTML(parent *MemNode, markup string) ([]*MemNode, error) {
	if parent == nil {
		parent = d.body
	}
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*MemNode, 0, len(nodes))
	for _, n := range nodes {
		m := fromHTML(n)
		if m == nil {
			continue
		}
		d.Insert(m, parent, nil)
		out = append(out, m)
	}
	return out, nil
}

// SetInnerHTML replaces the children of el with parsed markup.
func (d *Document) SetInnerHTML(el *MemNode, markup string) error {
	d.SetElementText(el, "")
	_, err := d.ParseHTML(el, markup)
	return err
}

// ParseDocument creates a document whose body holds the parsed markup.
func ParseDocument(markup string) (*Document, error) {
	d := NewDocument()
	if _, err := d.ParseHTML(nil, markup); err != nil {
		return nil, err
	}
	return d, nil
}

func fromHTML(n *html.Node) *MemNode {
	var m *MemNode
	switch n.Type {
	case html.ElementNode:
		m = &MemNode{Type: NodeElement, Tag: n.Data}
		if len(n.Attr) > 0 {
			m.attrs = make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				m.attrs[a.Key] = a.Val
			}
		}
	case html.TextNode:
		return &MemNode{Type: NodeText, Data: n.Data}
	case html.CommentNode:
		return &MemNode{Type: NodeComment, Data: n.Data}
	default:
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if cm := fromHTML(c); cm != nil {
			cm.parent = m
			m.children = append(m.children, cm)
		}
	}
	return m
}
