package vdom

import (
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/reactive"
)

// Renderer reconciles VNode trees against a host. A Renderer is not safe
// for concurrent use; all renders and state writes that trigger them must
// happen on one goroutine.
type Renderer struct {
	host     dom.Host
	app      *AppContext
	logger   *slog.Logger
	tracer   trace.Tracer
	observer Observer
	fallback HydrationFallback

	// roots holds the tree last rendered into each container. Host nodes
	// used as containers must be comparable.
	roots map[dom.Node]*VNode

	// targetCursors holds, per teleport target, the first server node not
	// yet claimed by the current hydration pass.
	targetCursors map[dom.Node]dom.Node
}

// NewRenderer creates a renderer for host with a fresh AppContext.
func NewRenderer(host dom.Host, opts ...Option) *Renderer {
	o := buildOptions(opts)
	return newRenderer(host, newAppContext(o), o)
}

func newRenderer(host dom.Host, app *AppContext, o options) *Renderer {
	return &Renderer{
		host:     host,
		app:      app,
		logger:   o.logger,
		tracer:   o.tracer,
		observer: o.observer,
		fallback: o.fallback,
		roots:    make(map[dom.Node]*VNode),

		targetCursors: make(map[dom.Node]dom.Node),
	}
}

// Host returns the host the renderer writes to.
func (r *Renderer) Host() dom.Host { return r.host }

// AppContext returns the application context components are created with.
func (r *Renderer) AppContext() *AppContext { return r.app }

// Root returns the tree last rendered into container.
func (r *Renderer) Root(container dom.Node) *VNode { return r.roots[container] }

// Render patches vnode into container against the previously rendered
// tree. A nil vnode unmounts the previous tree.
func (r *Renderer) Render(vnode *VNode, container dom.Node) {
	prev := r.roots[container]
	if vnode == nil {
		if prev != nil {
			r.unmount(prev, nil, true)
			delete(r.roots, container)
		}
		return
	}
	if vnode != prev && vnode.IsMounted() {
		vnode = clone(vnode)
	}
	r.patch(prev, vnode, container, nil, nil)
	r.roots[container] = vnode
}

// Patch exposes the patch entry point: it reconciles n2 against n1 inside
// container, inserting new nodes before anchor. n1 may be nil.
func (r *Renderer) Patch(n1, n2 *VNode, container, anchor dom.Node) {
	r.patch(n1, n2, container, anchor, nil)
}

func (r *Renderer) patch(n1, n2 *VNode, container, anchor dom.Node, parent *Instance) {
	if n1 == n2 {
		return
	}
	if n1 != nil && !sameVNodeType(n1, n2) {
		anchor = r.nextSibling(n1)
		r.unmount(n1, parent, true)
		n1 = nil
	}

	switch n2.Kind {
	case KindText:
		r.processText(n1, n2, container, anchor)
	case KindComment:
		r.processComment(n1, n2, container, anchor)
	case KindFragment:
		r.processFragment(n1, n2, container, anchor, parent)
	case KindTeleport:
		r.processTeleport(n1, n2, container, anchor, parent)
	case KindElement:
		r.processElement(n1, n2, container, anchor, parent)
	case KindComponent:
		r.processComponent(n1, n2, container, anchor, parent)
	default:
		r.diag(errors.New("R302").WithDetailf("kind %d", n2.Kind), parent)
	}
}

func (r *Renderer) processText(n1, n2 *VNode, container, anchor dom.Node) {
	if n1 == nil {
		n2.El = r.host.CreateText(n2.Text)
		r.host.Insert(n2.El, container, anchor)
		return
	}
	n2.El = n1.El
	if n2.Text != n1.Text {
		r.host.SetText(n2.El, n2.Text)
	}
}

func (r *Renderer) processComment(n1, n2 *VNode, container, anchor dom.Node) {
	if n1 == nil {
		n2.El = r.host.CreateComment(n2.Text)
		r.host.Insert(n2.El, container, anchor)
		return
	}
	n2.El = n1.El
}

func (r *Renderer) processFragment(n1, n2 *VNode, container, anchor dom.Node, parent *Instance) {
	if n1 == nil {
		n2.El = r.host.CreateText("")
		n2.Anchor = r.host.CreateText("")
		r.host.Insert(n2.El, container, anchor)
		r.host.Insert(n2.Anchor, container, anchor)
		r.mountChildren(n2.Children, container, n2.Anchor, parent)
		return
	}
	n2.El, n2.Anchor = n1.El, n1.Anchor
	r.patchChildren(n1, n2, container, n2.Anchor, parent)
}

func (r *Renderer) processTeleport(n1, n2 *VNode, container, anchor dom.Node, parent *Instance) {
	if n1 == nil {
		n2.El = r.host.CreateComment(TeleportStart)
		n2.Anchor = r.host.CreateComment(TeleportEnd)
		r.host.Insert(n2.El, container, anchor)
		r.host.Insert(n2.Anchor, container, anchor)
		if n2.TargetEl = r.resolveTarget(n2, parent); n2.TargetEl != nil {
			r.mountChildren(n2.Children, n2.TargetEl, nil, parent)
		}
		return
	}

	n2.El, n2.Anchor = n1.El, n1.Anchor
	switch {
	case n1.TargetEl == nil:
		if n2.TargetEl = r.resolveTarget(n2, parent); n2.TargetEl != nil {
			r.mountChildren(n2.Children, n2.TargetEl, nil, parent)
		}
	case n1.Target != n2.Target:
		r.removeTargetMarkers(n1)
		target := r.resolveTarget(n2, parent)
		if target == nil {
			r.unmountChildren(n1.Children, parent, true)
			return
		}
		r.patchChildren(n1, n2, n1.TargetEl, nil, parent)
		for _, c := range n2.Children {
			r.move(c, target, nil)
		}
		n2.TargetEl = target
	default:
		n2.TargetEl = n1.TargetEl
		n2.TargetStart, n2.TargetAnchor = n1.TargetStart, n1.TargetAnchor
		r.patchChildren(n1, n2, n2.TargetEl, n2.TargetAnchor, parent)
	}
}

// removeTargetMarkers removes the content markers a hydrated teleport
// claimed inside its target.
func (r *Renderer) removeTargetMarkers(v *VNode) {
	r.remove(v.TargetStart)
	r.remove(v.TargetAnchor)
	v.TargetStart, v.TargetAnchor = nil, nil
}

// resolveTarget finds the teleport container. A missing target is logged
// and the teleport's children are not rendered.
func (r *Renderer) resolveTarget(v *VNode, parent *Instance) dom.Node {
	target := r.host.QuerySelector(v.Target)
	if target == nil {
		r.diag(errors.New("R301").WithDetailf("selector %q", v.Target), parent)
	}
	return target
}

func (r *Renderer) processElement(n1, n2 *VNode, container, anchor dom.Node, parent *Instance) {
	if n1 == nil {
		r.mountElement(n2, container, anchor, parent)
		return
	}
	n2.El = n1.El
	r.patchProps(n2.El, n1.Props, n2.Props)
	r.patchChildren(n1, n2, n2.El, nil, parent)
}

func (r *Renderer) mountElement(v *VNode, container, anchor dom.Node, parent *Instance) {
	el := r.host.CreateElement(v.Tag)
	v.El = el
	switch v.Shape {
	case ChildrenText:
		r.host.SetElementText(el, v.Text)
	case ChildrenArray:
		r.mountChildren(v.Children, el, nil, parent)
	}
	for _, k := range sortedKeys(v.Props) {
		if val := v.Props[k]; val != nil {
			r.host.PatchProp(el, k, nil, val)
		}
	}
	r.host.Insert(el, container, anchor)
}

// patchProps writes changed props and clears removed ones. Function values
// cannot be compared and are always rewritten.
func (r *Renderer) patchProps(el dom.Node, prev, next Props) {
	for _, k := range sortedKeys(next) {
		old, had := prev[k]
		val := next[k]
		if had && !propChanged(old, val) {
			continue
		}
		if !had && val == nil {
			continue
		}
		r.host.PatchProp(el, k, old, val)
	}
	for _, k := range sortedKeys(prev) {
		if _, ok := next[k]; !ok {
			r.host.PatchProp(el, k, prev[k], nil)
		}
	}
}

func (r *Renderer) mountChildren(children []*VNode, container, anchor dom.Node, parent *Instance) {
	for i, c := range children {
		if c.IsMounted() {
			c = clone(c)
			children[i] = c
		}
		r.patch(nil, c, container, anchor, parent)
	}
}

func (r *Renderer) unmountChildren(children []*VNode, parent *Instance, doRemove bool) {
	for _, c := range children {
		r.unmount(c, parent, doRemove)
	}
}

// unmount tears v down. Only the topmost host node of a removed subtree is
// detached; descendants go with it.
func (r *Renderer) unmount(v *VNode, parent *Instance, doRemove bool) {
	switch v.Kind {
	case KindComponent:
		if v.Component != nil {
			r.unmountComponent(v.Component, doRemove)
		}
	case KindFragment:
		r.unmountChildren(v.Children, parent, doRemove)
		if doRemove {
			r.remove(v.El)
			r.remove(v.Anchor)
		}
	case KindTeleport:
		if v.TargetEl != nil {
			r.unmountChildren(v.Children, parent, true)
			r.removeTargetMarkers(v)
		}
		if doRemove {
			r.remove(v.El)
			r.remove(v.Anchor)
		}
	case KindElement:
		if v.Shape == ChildrenArray {
			r.unmountChildren(v.Children, parent, false)
		}
		if doRemove {
			r.remove(v.El)
		}
	default:
		if doRemove {
			r.remove(v.El)
		}
	}
}

func (r *Renderer) remove(n dom.Node) {
	if n != nil {
		r.host.Remove(n)
	}
}

// move reinserts the host nodes of v before anchor.
func (r *Renderer) move(v *VNode, container, anchor dom.Node) {
	switch v.Kind {
	case KindComponent:
		if v.Component != nil && v.Component.subTree != nil {
			r.move(v.Component.subTree, container, anchor)
		}
	case KindFragment:
		r.host.Insert(v.El, container, anchor)
		for _, c := range v.Children {
			r.move(c, container, anchor)
		}
		r.host.Insert(v.Anchor, container, anchor)
	case KindTeleport:
		r.host.Insert(v.El, container, anchor)
		r.host.Insert(v.Anchor, container, anchor)
	default:
		r.host.Insert(v.El, container, anchor)
	}
}

// nextSibling returns the host node following everything v occupies.
func (r *Renderer) nextSibling(v *VNode) dom.Node {
	switch v.Kind {
	case KindComponent:
		if v.Component != nil && v.Component.subTree != nil {
			return r.nextSibling(v.Component.subTree)
		}
		return r.host.NextSibling(v.El)
	case KindFragment, KindTeleport:
		return r.host.NextSibling(v.Anchor)
	}
	return r.host.NextSibling(v.El)
}

func (r *Renderer) diag(e *errors.ReactorError, inst *Instance) {
	if inst != nil {
		e.WithComponent(inst.Name()).Log(inst.logger)
		return
	}
	e.Log(r.logger)
}

func propChanged(prev, next any) bool {
	return reactive.HasChanged(prev, next)
}

func sortedKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
