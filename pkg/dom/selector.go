package dom

import "strings"

type selector struct {
	tag     string
	id      string
	classes []string
}

func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " >+~[:,") {
		return selector{}, false
	}
	var sel selector
	part, kind := "", byte(0)
	flush := func() bool {
		switch kind {
		case 0:
			sel.tag = strings.ToLower(part)
		case '#':
			if part == "" {
				return false
			}
			sel.id = part
		case '.':
			if part == "" {
				return false
			}
			sel.classes = append(sel.classes, part)
		}
		return true
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '#' || c == '.' {
			if !flush() {
				return selector{}, false
			}
			part, kind = "", c
			continue
		}
		part += string(c)
	}
	if !flush() {
		return selector{}, false
	}
	return sel, true
}

func (s selector) match(n *MemNode) bool {
	if n.Type != NodeElement {
		return false
	}
	if s.tag != "" && s.tag != "*" && s.tag != n.Tag {
		return false
	}
	if s.id != "" && n.attrs["id"] != s.id {
		return false
	}
	if len(s.classes) > 0 {
		have := strings.Fields(n.attrs["class"])
		for _, want := range s.classes {
			found := false
			for _, c := range have {
				if c == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// find returns the first match in document order.
func find(n *MemNode, sel selector) *MemNode {
	for _, c := range n.children {
		if sel.match(c) {
			return c
		}
		if m := find(c, sel); m != nil {
			return m
		}
	}
	return nil
}
