package vdom

import (
	"fmt"
	"log/slog"
	"maps"
	"reflect"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/reactive"
)

// lifecycle is the instance state machine: Created -> Mounted -> Unmounted.
// Updates keep the instance Mounted.
type lifecycle uint8

const (
	stateCreated lifecycle = iota
	stateMounted
	stateUnmounted
)

func (l lifecycle) String() string {
	switch l {
	case stateCreated:
		return "created"
	case stateMounted:
		return "mounted"
	case stateUnmounted:
		return "unmounted"
	}
	return "unknown"
}

// forceKey is read by every render so Update can trigger a rerender.
const forceKey = "$force"

// Instance is the live state of one mounted component slot. It persists
// across parent rerenders while the slot keeps the same definition and key.
type Instance struct {
	reactive.DepMap

	uid    int
	def    *Definition
	vnode  *VNode
	next   *VNode
	parent *Instance
	app    *AppContext
	logger *slog.Logger

	props *reactive.Object
	attrs Props
	slots Slots

	// state is reactive on the client; plain holds the same fields when
	// rendering to a string.
	state *reactive.Object
	plain map[string]any

	provides map[any]any
	hooks    map[Hook][]func()
	ctx      *Context

	subTree *VNode
	effect  *reactive.Effect

	// mount position, consumed by the first render
	container   dom.Node
	anchor      dom.Node
	hydrateNode dom.Node
	hydrateNext dom.Node
	hydrating   bool

	lifecycle lifecycle
	inSetup   bool
	isSSR     bool
	renders   int
}

// CreateComponent builds the instance for a component vnode: it resolves
// props and fallthrough attrs, runs setup with the instance active, and
// merges state. Later sources win: prop values and defaults, then the
// State factory, then setup's return value, then the server snapshot for
// the instance's UID when rendering on the server or hydrating.
//
// The merged state is reactive unless isSSR is set.
func CreateComponent(vnode *VNode, parent *Instance, isSSR, isHydrating bool, app *AppContext) *Instance {
	def := vnode.Def
	if def == nil {
		def = &Definition{}
	}
	inst := &Instance{
		uid:       app.nextUID(),
		def:       def,
		vnode:     vnode,
		parent:    parent,
		app:       app,
		slots:     vnode.Slots,
		isSSR:     isSSR,
		hydrating: isHydrating,
	}
	inst.logger = app.logger.With("component", def.displayName(), "uid", inst.uid)
	inst.ctx = &Context{inst: inst}
	vnode.Component = inst

	reactive.Untracked(func() {
		props, attrs := resolveProps(def, vnode.Props)
		inst.props = reactive.NewObject(props)
		inst.attrs = attrs

		var setupState map[string]any
		if def.Setup != nil {
			setupState = inst.runSetup()
		}

		merged := make(map[string]any, len(props)+len(setupState))
		maps.Copy(merged, props)
		if def.State != nil {
			maps.Copy(merged, def.State())
		}
		maps.Copy(merged, setupState)
		if isSSR || isHydrating {
			applySnapshot(merged, app.serverState[inst.uid])
		}

		if isSSR {
			inst.plain = merged
		} else {
			inst.state = reactive.NewObject(merged)
		}
	})
	return inst
}

func applySnapshot(merged, snap map[string]any) {
	for k, v := range snap {
		prev := merged[k]
		if rl, ok := prev.(reactive.RefLike); ok {
			rl.SetAny(coerceLike(rl.Unwrap(), v))
			continue
		}
		merged[k] = coerceLike(prev, v)
	}
}

// runSetup calls the setup function with i installed as the active
// instance. The previous instance is restored on every exit path.
func (i *Instance) runSetup() (out map[string]any) {
	sc := &SetupContext{inst: i}
	defer func() {
		i.inSetup = false
		if r := recover(); r != nil {
			i.diag(errors.New("R107").WithDetailf("%v", r))
			out = nil
		}
	}()
	i.inSetup = true
	reactive.WithOwner(i, func() {
		out = i.def.Setup(i.props, sc)
	})
	return out
}

// currentInstance returns the instance whose setup is running on this
// goroutine.
func currentInstance() *Instance {
	inst, _ := reactive.CurrentOwner().(*Instance)
	if inst == nil || !inst.inSetup {
		return nil
	}
	return inst
}

// renderRoot calls the render function and applies fallthrough attrs. A
// missing or panicking render yields a comment placeholder.
func (i *Instance) renderRoot() (tree *VNode) {
	i.renders++
	reactive.Track(i, forceKey)

	if i.def.Render == nil {
		i.diag(errors.New("R101"))
		return Comment(i.def.displayName())
	}
	defer func() {
		if r := recover(); r != nil {
			i.diag(errors.New("R109").WithDetailf("%v", r))
			tree = Comment(i.def.displayName())
		}
	}()
	tree = i.def.Render(i.ctx)
	if tree == nil {
		return Comment("")
	}
	return mergeFallthrough(tree, i.attrs)
}

// RenderSubtree renders the component once without mounting it. Used for
// string rendering.
func (i *Instance) RenderSubtree() *VNode {
	tree := i.renderRoot()
	i.subTree = tree
	return tree
}

// updateProps applies a new parent vnode to a live instance. Changed
// declared props are written to both the props object and the matching
// state fields; setup does not run again.
func (i *Instance) updateProps(next *VNode) {
	props, attrs := resolveProps(i.def, next.Props)
	for k, v := range props {
		if !reactive.HasChanged(i.props.Peek(k), v) {
			continue
		}
		i.props.Set(k, v)
		i.setState(k, v)
	}
	i.attrs = attrs
	i.slots = next.Slots
	next.Component = i
	i.vnode = next
}

func (i *Instance) getState(name string) (any, bool) {
	if i.isSSR {
		v, ok := i.plain[name]
		return v, ok
	}
	if !i.state.Has(name) {
		return nil, false
	}
	return i.state.Get(name), true
}

func (i *Instance) setState(name string, v any) {
	var cur any
	if i.isSSR {
		cur = i.plain[name]
	} else {
		cur = i.state.Peek(name)
	}
	if rl, ok := cur.(reactive.RefLike); ok {
		if rl.SetAny(v) {
			return
		}
	}
	if i.isSSR {
		i.plain[name] = v
		return
	}
	i.state.Set(name, v)
}

func (i *Instance) diag(e *errors.ReactorError) {
	e.WithComponent(i.def.displayName()).Log(i.logger)
}

// UID returns the instance identifier, unique within its application.
func (i *Instance) UID() int { return i.uid }

// Name returns the component name.
func (i *Instance) Name() string { return i.def.displayName() }

// Definition returns the component definition.
func (i *Instance) Definition() *Definition { return i.def }

// State returns the reactive state object. It is nil for instances created
// for string rendering.
func (i *Instance) State() *reactive.Object { return i.state }

// Props returns the resolved props.
func (i *Instance) Props() *reactive.Object { return i.props }

// Attrs returns the fallthrough attrs.
func (i *Instance) Attrs() Props { return i.attrs }

// Context returns the render context.
func (i *Instance) Context() *Context { return i.ctx }

// Subtree returns the most recently rendered tree.
func (i *Instance) Subtree() *VNode { return i.subTree }

// Parent returns the parent instance, or nil for the root.
func (i *Instance) Parent() *Instance { return i.parent }

// IsMounted reports whether the first render has completed and the
// instance is not unmounted.
func (i *Instance) IsMounted() bool { return i.lifecycle == stateMounted }

// IsUnmounted reports whether the instance has been unmounted.
func (i *Instance) IsUnmounted() bool { return i.lifecycle == stateUnmounted }

// RenderCount returns how many times render has been called.
func (i *Instance) RenderCount() int { return i.renders }

// Update forces a rerender, through the job queue when one is configured.
func (i *Instance) Update() {
	if i.lifecycle != stateMounted {
		return
	}
	reactive.Trigger(i, forceKey)
}

// Snapshot returns a plain copy of the state: ref-like cells unwrapped,
// reactive wrappers replaced by their raw values, funcs and channels
// dropped.
func (i *Instance) Snapshot() map[string]any {
	src := i.plain
	if src == nil && i.state != nil {
		src = i.state.Raw()
	}
	out := make(map[string]any, len(src))
	reactive.Untracked(func() {
		for k, v := range src {
			if rl, ok := v.(reactive.RefLike); ok {
				v = rl.Unwrap()
			}
			v = reactive.ToRaw(v)
			if v != nil {
				switch reflect.TypeOf(v).Kind() {
				case reflect.Func, reflect.Chan:
					continue
				}
			}
			out[k] = v
		}
	})
	return out
}

// String returns a short description for logs.
func (i *Instance) String() string {
	return fmt.Sprintf("%s#%d(%s)", i.def.displayName(), i.uid, i.lifecycle)
}
