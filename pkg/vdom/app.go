package vdom

import (
	"github.com/vango-dev/reactor/pkg/dom"
)

// App mounts a root component definition into a host container.
//
//	app := vdom.NewApp(Counter, nil)
//	root := app.Mount(doc, container)
//	defer app.Unmount()
type App struct {
	def   *Definition
	props Props
	opts  options
	ctx   *AppContext

	renderer  *Renderer
	vnode     *VNode
	container dom.Node
}

// NewApp creates an application for the root definition and props.
func NewApp(root *Definition, props Props, opts ...Option) *App {
	o := buildOptions(opts)
	return &App{
		def:   root,
		props: props,
		opts:  o,
		ctx:   newAppContext(o),
	}
}

// Provide registers an app-level injection.
func (a *App) Provide(key, value any) *App {
	a.ctx.Provide(key, value)
	return a
}

// Global registers a value resolvable by name from every component context.
func (a *App) Global(name string, v any) *App {
	a.ctx.SetGlobal(name, v)
	return a
}

// Context returns the application context.
func (a *App) Context() *AppContext { return a.ctx }

// Renderer returns the renderer after Mount or Hydrate, or nil.
func (a *App) Renderer() *Renderer { return a.renderer }

// Mount renders the root component into container and returns its
// instance. Mounting an already mounted app returns the existing instance.
func (a *App) Mount(host dom.Host, container dom.Node) *Instance {
	if a.vnode != nil {
		return a.vnode.Component
	}
	a.start(host, container)
	a.renderer.Render(a.vnode, container)
	return a.vnode.Component
}

// Hydrate attaches the root component to server-rendered markup inside
// container and returns its instance.
func (a *App) Hydrate(host dom.Host, container dom.Node) *Instance {
	if a.vnode != nil {
		return a.vnode.Component
	}
	a.start(host, container)
	a.renderer.Hydrate(a.vnode, container)
	return a.vnode.Component
}

func (a *App) start(host dom.Host, container dom.Node) {
	a.renderer = newRenderer(host, a.ctx, a.opts)
	a.container = container
	a.vnode = Component(a.def, a.props, nil)
}

// Flush runs the component updates waiting in the job queue and returns
// how many ran. Without a queue it returns 0.
func (a *App) Flush() int {
	q := a.ctx.queue
	if q == nil {
		return 0
	}
	n := q.Flush()
	a.ctx.observer.QueueFlushed(n)
	return n
}

// Unmount tears down the root component and removes its nodes.
func (a *App) Unmount() {
	if a.vnode == nil {
		return
	}
	a.renderer.Render(nil, a.container)
	a.vnode = nil
}
