package vdom

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/reactive"
)

func (r *Renderer) processComponent(n1, n2 *VNode, container, anchor dom.Node, parent *Instance) {
	if n1 == nil || n1.Component == nil {
		inst := CreateComponent(n2, parent, false, false, r.app)
		r.setupRenderEffect(inst, container, anchor)
		return
	}
	r.updateComponent(n1, n2)
}

// updateComponent hands a new parent vnode to a live instance. The
// instance rerenders only when its props or slots changed.
func (r *Renderer) updateComponent(n1, n2 *VNode) {
	inst := n1.Component
	n2.Component = inst
	if !shouldUpdateComponent(n1, n2) {
		n2.El = n1.El
		inst.vnode = n2
		return
	}
	inst.next = n2
	if q := r.app.queue; q != nil {
		q.Invalidate(inst.effect)
	}
	inst.effect.Run()
}

// setupRenderEffect wraps the instance's render and patch in an effect and
// runs it once. With a job queue, later reruns wait for the next flush.
func (r *Renderer) setupRenderEffect(inst *Instance, container, anchor dom.Node) {
	inst.container, inst.anchor = container, anchor

	var opts []reactive.EffectOption
	if q := r.app.queue; q != nil {
		opts = append(opts, reactive.WithScheduler(q.Queue))
	}
	inst.effect = reactive.NewEffect(func() { r.renderComponent(inst) }, opts...)
	inst.anchor = nil

	if inst.lifecycle == stateMounted {
		inst.callHooks(HookMounted)
	}
}

func (r *Renderer) renderComponent(inst *Instance) {
	switch inst.lifecycle {
	case stateCreated:
		r.mountSubtree(inst)
	case stateMounted:
		r.updateSubtree(inst)
	}
}

func (r *Renderer) mountSubtree(inst *Instance) {
	phase := "mount"
	if inst.hydrating {
		phase = "hydrate"
	}
	span := r.startSpan(phase, inst)
	defer span.End()

	inst.callHooks(HookBeforeMount)
	tree := inst.renderRoot()
	inst.subTree = tree

	if inst.hydrating {
		inst.hydrateNext = r.hydrateNode(inst.hydrateNode, tree, inst, inst.container)
		inst.hydrateNode = nil
		inst.hydrating = false
	} else {
		r.patch(nil, tree, inst.container, inst.anchor, inst)
	}

	inst.vnode.El = tree.El
	inst.lifecycle = stateMounted
	r.observer.ComponentRendered(inst.Name(), phase)
}

func (r *Renderer) updateSubtree(inst *Instance) {
	span := r.startSpan("update", inst)
	defer span.End()

	if next := inst.next; next != nil {
		inst.next = nil
		inst.updateProps(next)
	}
	inst.callHooks(HookBeforeUpdate)

	prev := inst.subTree
	tree := inst.renderRoot()
	inst.subTree = tree

	container := r.host.Parent(prev.El)
	if container == nil {
		container = inst.container
	}
	r.patch(prev, tree, container, nil, inst)

	if inst.vnode.El != tree.El {
		inst.vnode.El = tree.El
		updateHostEl(inst, tree.El)
	}
	inst.callHooks(HookUpdated)
	r.observer.ComponentRendered(inst.Name(), "update")
}

// updateHostEl propagates a changed root node to ancestors whose root is
// the component itself.
func updateHostEl(inst *Instance, el dom.Node) {
	for p := inst.parent; p != nil && p.subTree == inst.vnode; p = p.parent {
		p.vnode.El = el
		inst = p
	}
}

// unmountComponent stops the render effect, fires onUnmounted, then tears
// down the rendered subtree.
func (r *Renderer) unmountComponent(inst *Instance, doRemove bool) {
	if inst.lifecycle == stateUnmounted {
		return
	}
	if inst.effect != nil {
		inst.effect.Stop()
		if q := r.app.queue; q != nil {
			q.Invalidate(inst.effect)
		}
	}
	inst.callHooks(HookUnmounted)
	if inst.subTree != nil {
		r.unmount(inst.subTree, inst, doRemove)
	}
	inst.lifecycle = stateUnmounted
}

func (r *Renderer) startSpan(name string, inst *Instance) trace.Span {
	_, span := r.tracer.Start(context.Background(), "vdom."+name,
		trace.WithAttributes(
			attribute.String("vdom.component", inst.Name()),
			attribute.Int("vdom.uid", inst.uid),
		),
	)
	return span
}
