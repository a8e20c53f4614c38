package vdom

import "github.com/vango-dev/reactor/pkg/dom"

func hasTextChildren(v *VNode) bool {
	return v.Kind == KindElement && v.Shape == ChildrenText
}

// patchChildren reconciles the children of n1 and n2 inside container.
// anchor bounds the children from the right (the end marker of a
// fragment, nil for elements).
func (r *Renderer) patchChildren(n1, n2 *VNode, container, anchor dom.Node, parent *Instance) {
	c1, c2 := n1.Children, n2.Children
	oldText := hasTextChildren(n1)

	if hasTextChildren(n2) {
		if !oldText {
			r.unmountChildren(c1, parent, true)
		}
		if !oldText || n1.Text != n2.Text {
			r.host.SetElementText(container, n2.Text)
		}
		return
	}

	if len(c2) == 0 {
		if oldText {
			r.host.SetElementText(container, "")
			return
		}
		r.unmountChildren(c1, parent, true)
		return
	}

	if oldText {
		r.host.SetElementText(container, "")
		r.mountChildren(c2, container, anchor, parent)
		return
	}
	if len(c1) == 0 {
		r.mountChildren(c2, container, anchor, parent)
		return
	}

	if anyKeyed(c2) {
		r.patchKeyedChildren(c1, c2, container, anchor, parent)
		return
	}
	r.patchUnkeyedChildren(c1, c2, container, anchor, parent)
}

func anyKeyed(children []*VNode) bool {
	for _, c := range children {
		if c.Key != "" {
			return true
		}
	}
	return false
}

// prepare returns c2[i], cloned first if it is already mounted elsewhere.
func prepare(c2 []*VNode, i int, old *VNode) *VNode {
	n := c2[i]
	if n != old && n.IsMounted() {
		n = clone(n)
		c2[i] = n
	}
	return n
}

// patchUnkeyedChildren patches the common prefix positionally, then mounts
// the extra new children or unmounts the extra old ones.
func (r *Renderer) patchUnkeyedChildren(c1, c2 []*VNode, container, anchor dom.Node, parent *Instance) {
	common := min(len(c1), len(c2))
	for i := 0; i < common; i++ {
		r.patch(c1[i], prepare(c2, i, c1[i]), container, nil, parent)
	}
	if len(c1) > len(c2) {
		r.unmountChildren(c1[common:], parent, true)
		return
	}
	r.mountChildren(c2[common:], container, anchor, parent)
}

// patchKeyedChildren reconciles children by key with the minimum number of
// moves:
//
//  1. patch the common prefix and suffix in place;
//  2. if only new nodes remain, mount them; if only old ones, unmount them;
//  3. otherwise map the remaining new keys to indexes, patch or unmount
//     every remaining old node, and record each new slot's old index;
//  4. walk the window backwards, mounting slots with no old node and moving
//     the ones outside the longest increasing run of old indexes.
func (r *Renderer) patchKeyedChildren(c1, c2 []*VNode, container, parentAnchor dom.Node, parent *Instance) {
	i := 0
	l2 := len(c2)
	e1, e2 := len(c1)-1, l2-1

	for i <= e1 && i <= e2 {
		n1, n2 := c1[i], prepare(c2, i, c1[i])
		if !sameVNodeType(n1, n2) {
			break
		}
		r.patch(n1, n2, container, nil, parent)
		i++
	}

	for i <= e1 && i <= e2 {
		n1, n2 := c1[e1], prepare(c2, e2, c1[e1])
		if !sameVNodeType(n1, n2) {
			break
		}
		r.patch(n1, n2, container, nil, parent)
		e1--
		e2--
	}

	switch {
	case i > e1:
		if i <= e2 {
			anchor := parentAnchor
			if e2+1 < l2 {
				anchor = c2[e2+1].El
			}
			for ; i <= e2; i++ {
				r.patch(nil, prepare(c2, i, nil), container, anchor, parent)
			}
		}
		return
	case i > e2:
		for ; i <= e1; i++ {
			r.unmount(c1[i], parent, true)
		}
		return
	}

	s1, s2 := i, i
	keyToNewIndex := make(map[string]int, e2-s2+1)
	for i = s2; i <= e2; i++ {
		if n := prepare(c2, i, nil); n.Key != "" {
			keyToNewIndex[n.Key] = i
		}
	}

	toBePatched := e2 - s2 + 1
	patched := 0
	moved := false
	maxNewIndexSoFar := 0
	// old index + 1 for each new slot; 0 means no old node
	newIndexToOldIndex := make([]int, toBePatched)

	for i = s1; i <= e1; i++ {
		prev := c1[i]
		if patched >= toBePatched {
			r.unmount(prev, parent, true)
			continue
		}
		newIndex := -1
		if prev.Key != "" {
			if ni, ok := keyToNewIndex[prev.Key]; ok {
				newIndex = ni
			}
		} else {
			for j := s2; j <= e2; j++ {
				if newIndexToOldIndex[j-s2] == 0 && sameVNodeType(prev, c2[j]) {
					newIndex = j
					break
				}
			}
		}
		if newIndex < 0 {
			r.unmount(prev, parent, true)
			continue
		}
		newIndexToOldIndex[newIndex-s2] = i + 1
		if newIndex >= maxNewIndexSoFar {
			maxNewIndexSoFar = newIndex
		} else {
			moved = true
		}
		r.patch(prev, c2[newIndex], container, nil, parent)
		patched++
	}

	var increasing []int
	if moved {
		increasing = LongestIncreasingSubsequence(newIndexToOldIndex)
	}
	j := len(increasing) - 1
	for i = toBePatched - 1; i >= 0; i-- {
		ni := s2 + i
		n := c2[ni]
		anchor := parentAnchor
		if ni+1 < l2 {
			anchor = c2[ni+1].El
		}
		switch {
		case newIndexToOldIndex[i] == 0:
			r.patch(nil, n, container, anchor, parent)
		case moved:
			if j < 0 || i != increasing[j] {
				r.move(n, container, anchor)
			} else {
				j--
			}
		}
	}
}
