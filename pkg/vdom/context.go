package vdom

import (
	"strings"
	"unicode"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reactive"
)

// Meta names resolved by Context before any state field.
const (
	MetaParams = "$params"
	MetaSlots  = "$slots"
	MetaAttrs  = "$attrs"
	MetaProps  = "$props"
	MetaEl     = "$el"
)

// Context is passed to render functions and methods. Get resolves a name
// against an ordered list of sources: meta names, state fields (ref-like
// cells are unwrapped), actions, methods, registered components, then app
// globals. The first source holding the name wins.
type Context struct {
	inst *Instance
}

type source func(c *Context, name string) (any, bool)

var resolvers = []source{
	(*Context).lookupMeta,
	(*Context).lookupState,
	(*Context).lookupAction,
	(*Context).lookupMethod,
	(*Context).lookupComponent,
	(*Context).lookupGlobal,
}

// Get returns the value bound to name, or nil.
func (c *Context) Get(name string) any {
	v, _ := c.Lookup(name)
	return v
}

// Lookup is Get that also reports whether the name resolved.
func (c *Context) Lookup(name string) (any, bool) {
	for _, r := range resolvers {
		if v, ok := r(c, name); ok {
			return v, true
		}
	}
	return nil, false
}

func (c *Context) lookupMeta(name string) (any, bool) {
	i := c.inst
	switch name {
	case MetaParams, MetaProps:
		return i.props, true
	case MetaSlots:
		return i.slots, true
	case MetaAttrs:
		return i.attrs, true
	case MetaEl:
		return i.vnode.El, true
	}
	return nil, false
}

func (c *Context) lookupState(name string) (any, bool) {
	v, ok := c.inst.getState(name)
	if !ok {
		return nil, false
	}
	if rl, isRef := v.(reactive.RefLike); isRef {
		return rl.Unwrap(), true
	}
	return v, true
}

func (c *Context) lookupAction(name string) (any, bool) {
	fn, ok := c.inst.def.Actions[name]
	if !ok {
		return nil, false
	}
	return c.bind(fn), true
}

func (c *Context) lookupMethod(name string) (any, bool) {
	fn, ok := c.inst.def.Methods[name]
	if !ok {
		return nil, false
	}
	return c.bind(fn), true
}

func (c *Context) lookupComponent(name string) (any, bool) {
	d, ok := c.inst.def.Components[name]
	return d, ok
}

func (c *Context) lookupGlobal(name string) (any, bool) {
	v, ok := c.inst.app.globals[name]
	return v, ok
}

// bind returns fn with the context as its receiver.
func (c *Context) bind(fn any) func(args ...any) any {
	return func(args ...any) any {
		return c.invoke(fn, args)
	}
}

func (c *Context) invoke(fn any, args []any) any {
	switch f := fn.(type) {
	case func(*Context):
		f(c)
	case func(*Context) any:
		return f(c)
	case func(*Context, ...any):
		f(c, args...)
	case func(*Context, ...any) any:
		return f(c, args...)
	case func():
		f()
	default:
		c.inst.diag(errors.New("R108").WithDetailf("unsupported method type %T", fn))
	}
	return nil
}

// Set writes a state field. Ref-like fields are written through.
func (c *Context) Set(name string, v any) {
	c.inst.setState(name, v)
}

// GetInt returns the named value as an int, or 0.
func (c *Context) GetInt(name string) int {
	n, _ := c.Get(name).(int)
	return n
}

// GetString returns the named value as a string, or "".
func (c *Context) GetString(name string) string {
	s, _ := c.Get(name).(string)
	return s
}

// Call invokes an action or method by name with the context as receiver.
func (c *Context) Call(name string, args ...any) any {
	if fn, ok := c.inst.def.Actions[name]; ok {
		return c.invoke(fn, args)
	}
	if fn, ok := c.inst.def.Methods[name]; ok {
		return c.invoke(fn, args)
	}
	c.inst.diag(errors.New("R108").WithDetail(name))
	return nil
}

// Handler returns a func() that calls the named action or method, for use
// as an on<Event> prop.
func (c *Context) Handler(name string, args ...any) func() {
	return func() { c.Call(name, args...) }
}

// Emit calls the parent's on<Event> handler passed as a prop, if any.
func (c *Context) Emit(event string, args ...any) {
	c.inst.emit(event, args)
}

// Slot renders the named slot, or returns nil when the parent passed none.
func (c *Context) Slot(name string) []*VNode {
	if s := c.inst.slots[name]; s != nil {
		return s()
	}
	return nil
}

// Instance returns the component instance.
func (c *Context) Instance() *Instance {
	return c.inst
}

// handlerName maps "item-click" or "itemClick" to "onItemClick".
func handlerName(event string) string {
	var sb strings.Builder
	sb.WriteString("on")
	upper := true
	for _, r := range event {
		if r == '-' || r == ':' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (i *Instance) emit(event string, args []any) {
	h, ok := i.vnode.Props[handlerName(event)]
	if !ok {
		return
	}
	switch fn := h.(type) {
	case func():
		fn()
	case func(any):
		var arg any
		if len(args) > 0 {
			arg = args[0]
		}
		fn(arg)
	case func(...any):
		fn(args...)
	case func(...any) any:
		fn(args...)
	}
}

// SetupContext is passed to a component's setup function.
type SetupContext struct {
	inst *Instance
}

// Attrs returns the fallthrough attrs.
func (sc *SetupContext) Attrs() Props { return sc.inst.attrs }

// Slots returns the slots passed by the parent.
func (sc *SetupContext) Slots() Slots { return sc.inst.slots }

// Instance returns the instance being set up.
func (sc *SetupContext) Instance() *Instance { return sc.inst }

// Emit calls the parent's on<Event> handler.
func (sc *SetupContext) Emit(event string, args ...any) { sc.inst.emit(event, args) }

// Provide makes value injectable by descendants under key.
func (sc *SetupContext) Provide(key, value any) {
	if !sc.inst.inSetup {
		sc.inst.diag(errors.New("R102"))
		return
	}
	sc.inst.provide(key, value)
}

// Inject resolves key from the nearest provider, or returns def.
func (sc *SetupContext) Inject(key, def any) any {
	if !sc.inst.inSetup {
		sc.inst.diag(errors.New("R103"))
		return def
	}
	return sc.inst.inject(key, def)
}

func (sc *SetupContext) OnBeforeMount(fn func())  { sc.inst.addHook(HookBeforeMount, fn) }
func (sc *SetupContext) OnMounted(fn func())      { sc.inst.addHook(HookMounted, fn) }
func (sc *SetupContext) OnBeforeUpdate(fn func()) { sc.inst.addHook(HookBeforeUpdate, fn) }
func (sc *SetupContext) OnUpdated(fn func())      { sc.inst.addHook(HookUpdated, fn) }
func (sc *SetupContext) OnUnmounted(fn func())    { sc.inst.addHook(HookUnmounted, fn) }
