package vdom

import (
	"context"
	"fmt"
	"strings"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/dom"
)

// Comment markers written by the string renderer. Fragments are wrapped
// in FragmentStart/FragmentEnd. A teleport leaves TeleportStart/TeleportEnd
// in place and wraps its content inside the target in
// TeleportContentStart/TeleportContentEnd, so several teleports can share
// a target that also holds static markup.
const (
	FragmentStart = "["
	FragmentEnd   = "]"

	TeleportStart        = "teleport start"
	TeleportEnd          = "teleport end"
	TeleportContentStart = "teleport content start"
	TeleportContentEnd   = "teleport content end"
)

// Hydrate attaches vnode to the server-rendered children of container
// instead of creating nodes. Components are created and their subtrees
// hydrated recursively.
func (r *Renderer) Hydrate(vnode *VNode, container dom.Node) {
	_, span := r.tracer.Start(context.Background(), "vdom.hydrate")
	defer span.End()

	clear(r.targetCursors)
	rest := r.hydrateNode(r.host.FirstChild(container), vnode, nil, container)
	if rest = r.skipIgnorable(rest, nil); rest != nil {
		r.extraNodes(rest, nil, container, nil)
	}
	r.roots[container] = vnode
}

// hydrateNode claims node (and its following siblings as needed) for v and
// returns the first host node after v.
func (r *Renderer) hydrateNode(node dom.Node, v *VNode, parent *Instance, container dom.Node) dom.Node {
	if v.Kind == KindComponent {
		inst := CreateComponent(v, parent, false, true, r.app)
		inst.hydrateNode = node
		r.setupRenderEffect(inst, container, nil)
		next := inst.hydrateNext
		inst.hydrateNext = nil
		return next
	}

	node = r.skipIgnorable(node, v)

	switch v.Kind {
	case KindText:
		if !r.isType(node, dom.NodeText) {
			if v.Text == "" {
				v.El = r.host.CreateText("")
				r.host.Insert(v.El, container, node)
				return node
			}
			return r.mismatch(node, v, parent, container)
		}
		v.El = node
		if have := r.host.Text(node); have != v.Text {
			r.report(errors.New("R202").WithDetailf("server %q, client %q", have, v.Text), parent)
			r.host.SetText(node, v.Text)
		}
		return r.host.NextSibling(node)

	case KindComment:
		if !r.isType(node, dom.NodeComment) {
			return r.mismatch(node, v, parent, container)
		}
		v.El = node
		return r.host.NextSibling(node)

	case KindElement:
		if !r.isType(node, dom.NodeElement) || !strings.EqualFold(r.host.Tag(node), v.Tag) {
			return r.mismatch(node, v, parent, container)
		}
		v.El = node
		r.hydrateProps(node, v.Props)
		switch v.Shape {
		case ChildrenText:
			if have := r.ownText(node); have != v.Text {
				r.report(errors.New("R202").WithDetailf("<%s> server %q, client %q", v.Tag, have, v.Text), parent)
				r.host.SetElementText(node, v.Text)
			}
		default:
			rest := r.hydrateChildren(r.host.FirstChild(node), v.Children, parent, node)
			if rest = r.skipIgnorable(rest, nil); rest != nil {
				r.extraNodes(rest, nil, node, parent)
			}
		}
		return r.host.NextSibling(node)

	case KindFragment:
		if r.isMarker(node, FragmentStart) {
			v.El = node
			node = r.host.NextSibling(node)
		} else {
			v.El = r.insertAnchor(container, node)
		}
		node = r.skipIgnorable(r.hydrateChildren(node, v.Children, parent, container), nil)
		if r.isMarker(node, FragmentEnd) {
			v.Anchor = node
			return r.host.NextSibling(node)
		}
		v.Anchor = r.insertAnchor(container, node)
		return node

	case KindTeleport:
		if r.isMarker(node, TeleportStart) {
			v.El = node
			node = r.host.NextSibling(node)
		} else {
			v.El = r.host.CreateComment(TeleportStart)
			r.host.Insert(v.El, container, node)
		}
		var next dom.Node
		if end := r.skipIgnorable(node, nil); r.isMarker(end, TeleportEnd) {
			v.Anchor = end
			next = r.host.NextSibling(end)
		} else {
			v.Anchor = r.host.CreateComment(TeleportEnd)
			r.host.Insert(v.Anchor, container, node)
			next = node
		}
		if v.TargetEl = r.resolveTarget(v, parent); v.TargetEl != nil {
			r.hydrateTeleportContent(v, parent)
		}
		return next
	}

	r.diag(errors.New("R302").WithDetailf("kind %d", v.Kind), parent)
	return node
}

func (r *Renderer) hydrateChildren(node dom.Node, children []*VNode, parent *Instance, container dom.Node) dom.Node {
	for i, c := range children {
		if c.IsMounted() {
			c = clone(c)
			children[i] = c
		}
		node = r.hydrateNode(node, c, parent, container)
	}
	return node
}

// hydrateTeleportContent claims v's children inside its target, starting
// where the previous teleport into the same target stopped. With content
// markers only the nodes between v's own markers are claimed; other
// children of the target are left alone.
func (r *Renderer) hydrateTeleportContent(v *VNode, parent *Instance) {
	target := v.TargetEl
	cursor, seen := r.targetCursors[target]
	if !seen {
		cursor = r.host.FirstChild(target)
	}

	start := cursor
	for start != nil && !r.isMarker(start, TeleportContentStart) {
		start = r.host.NextSibling(start)
	}
	if start == nil {
		r.targetCursors[target] = r.hydrateChildren(cursor, v.Children, parent, target)
		return
	}

	v.TargetStart = start
	rest := r.skipIgnorable(r.hydrateChildren(r.host.NextSibling(start), v.Children, parent, target), nil)
	end := rest
	for end != nil && !r.isMarker(end, TeleportContentEnd) {
		end = r.host.NextSibling(end)
	}
	if end == nil {
		r.report(errors.New("R203").WithDetailf("expected comment %q, found %s", TeleportContentEnd, r.describeNode(rest)), parent)
		end = r.host.CreateComment(TeleportContentEnd)
		r.host.Insert(end, target, rest)
	} else if rest != end {
		r.extraNodes(rest, end, target, parent)
	}
	v.TargetAnchor = end
	r.targetCursors[target] = r.host.NextSibling(end)
}

// hydrateProps binds event handlers and writes only the attributes whose
// server value differs from the client value.
func (r *Renderer) hydrateProps(el dom.Node, props Props) {
	reader, _ := r.host.(dom.AttributeReader)
	for _, k := range sortedKeys(props) {
		val := props[k]
		if _, isEvent := dom.EventName(k); isEvent {
			if val != nil {
				r.host.PatchProp(el, k, nil, val)
			}
			continue
		}
		if reader != nil {
			want, present := dom.AttrValue(k, val)
			have, ok := reader.GetAttribute(el, k)
			if present == ok && (!present || want == have) {
				continue
			}
		}
		r.host.PatchProp(el, k, nil, val)
	}
}

// skipIgnorable advances past whitespace-only text and comments that v
// cannot claim. End markers are never skipped so a fragment or teleport
// does not read past its own boundary.
func (r *Renderer) skipIgnorable(node dom.Node, v *VNode) dom.Node {
	for node != nil {
		switch r.host.NodeType(node) {
		case dom.NodeText:
			if strings.TrimSpace(r.host.Text(node)) != "" {
				return node
			}
			if v != nil && v.Kind == KindText && strings.TrimSpace(v.Text) == "" {
				return node
			}
		case dom.NodeComment:
			text := r.host.Text(node)
			if text == FragmentEnd || text == TeleportEnd || text == TeleportContentEnd {
				return node
			}
			if v != nil {
				switch {
				case v.Kind == KindComment,
					v.Kind == KindFragment && text == FragmentStart,
					v.Kind == KindTeleport && text == TeleportStart:
					return node
				}
			}
		default:
			return node
		}
		node = r.host.NextSibling(node)
	}
	return nil
}

// mismatch handles a node that cannot be claimed by v. Under
// HydrationAbort the server markup is left untouched and v stays
// detached; under HydrationRemount the node is replaced by a fresh mount
// of v. An end marker counts as a missing node and is never consumed.
func (r *Renderer) mismatch(node dom.Node, v *VNode, parent *Instance, container dom.Node) dom.Node {
	boundary := r.isMarker(node, FragmentEnd) || r.isMarker(node, TeleportEnd) ||
		r.isMarker(node, TeleportContentEnd)
	code := "R201"
	switch {
	case node == nil || boundary:
		code = "R203"
	case v.Kind == KindElement && r.isType(node, dom.NodeElement):
		code = "R204"
	}
	r.report(errors.New(code).WithDetailf("expected %s, found %s", describeVNode(v), r.describeNode(node)), parent)

	next := node
	if node != nil && !boundary {
		next = r.host.NextSibling(node)
	}
	if r.fallback == HydrationRemount {
		if next != node {
			r.host.Remove(node)
		}
		r.patch(nil, v, container, next, parent)
	}
	return next
}

// extraNodes reports server nodes left over after all client children
// were claimed. Under HydrationRemount the nodes from node up to end (or
// the last child when end is nil) are removed.
func (r *Renderer) extraNodes(node, end, container dom.Node, parent *Instance) {
	r.report(errors.New("R205").WithDetailf("first extra node %s in %s", r.describeNode(node), r.describeNode(container)), parent)
	if r.fallback != HydrationRemount {
		return
	}
	for node != nil && node != end {
		next := r.host.NextSibling(node)
		r.host.Remove(node)
		node = next
	}
}

func (r *Renderer) report(e *errors.ReactorError, parent *Instance) {
	r.observer.HydrationMismatch(e.Code)
	r.diag(e, parent)
}

func (r *Renderer) isType(node dom.Node, t dom.NodeType) bool {
	return node != nil && r.host.NodeType(node) == t
}

func (r *Renderer) isMarker(node dom.Node, text string) bool {
	return r.isType(node, dom.NodeComment) && r.host.Text(node) == text
}

func (r *Renderer) insertAnchor(container, before dom.Node) dom.Node {
	a := r.host.CreateText("")
	r.host.Insert(a, container, before)
	return a
}

// ownText concatenates the direct text children of el.
func (r *Renderer) ownText(el dom.Node) string {
	var sb strings.Builder
	for c := r.host.FirstChild(el); c != nil; c = r.host.NextSibling(c) {
		if r.host.NodeType(c) == dom.NodeText {
			sb.WriteString(r.host.Text(c))
		}
	}
	return sb.String()
}

func (r *Renderer) describeNode(node dom.Node) string {
	if node == nil {
		return "nothing"
	}
	switch t := r.host.NodeType(node); t {
	case dom.NodeElement:
		return "<" + r.host.Tag(node) + ">"
	case dom.NodeText, dom.NodeComment:
		return fmt.Sprintf("%s %q", strings.ToLower(t.String()), r.host.Text(node))
	default:
		return t.String()
	}
}

func describeVNode(v *VNode) string {
	switch v.Kind {
	case KindElement:
		return "<" + v.Tag + ">"
	case KindText, KindComment:
		return fmt.Sprintf("%s %q", strings.ToLower(v.Kind.String()), v.Text)
	}
	return strings.ToLower(v.Kind.String())
}
