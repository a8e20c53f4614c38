package dom

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// OuterHTML serializes n and its subtree.
func OuterHTML(n Node) string {
	m := mem(n)
	if m == nil {
		return ""
	}
	var sb strings.Builder
	if m.Type == NodeDocument {
		writeChildren(&sb, m)
		return sb.String()
	}
	// html.Render only fails on writer errors, which strings.Builder never
	// returns.
	_ = html.Render(&sb, toHTML(m))
	return sb.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n Node) string {
	m := mem(n)
	if m == nil {
		return ""
	}
	var sb strings.Builder
	writeChildren(&sb, m)
	return sb.String()
}

func writeChildren(sb *strings.Builder, m *MemNode) {
	for _, c := range m.children {
		_ = html.Render(sb, toHTML(c))
	}
}

func toHTML(m *MemNode) *html.Node {
	switch m.Type {
	case NodeText:
		return &html.Node{Type: html.TextNode, Data: m.Data}
	case NodeComment:
		return &html.Node{Type: html.CommentNode, Data: m.Data}
	}
	n := &html.Node{Type: html.ElementNode, Data: m.Tag}
	keys := make([]string, 0, len(m.attrs))
	for k := range m.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: m.attrs[k]})
	}
	for _, c := range m.children {
		n.AppendChild(toHTML(c))
	}
	return n
}
