package vdom

import (
	"log/slog"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// AppContext is shared by every instance of one application: globals,
// app-level provides, the job queue and the UID counter.
type AppContext struct {
	globals     map[string]any
	provides    map[any]any
	serverState map[int]map[string]any
	queue       *reactive.JobQueue
	logger      *slog.Logger
	observer    Observer
	uid         int
}

// NewAppContext creates an application context from options.
func NewAppContext(opts ...Option) *AppContext {
	return newAppContext(buildOptions(opts))
}

func newAppContext(o options) *AppContext {
	return &AppContext{
		globals:     make(map[string]any),
		provides:    make(map[any]any),
		serverState: o.serverState,
		queue:       o.queue,
		logger:      o.logger,
		observer:    o.observer,
	}
}

// SetGlobal registers a value every component context can resolve by name.
func (a *AppContext) SetGlobal(name string, v any) {
	a.globals[name] = v
}

// Provide registers an app-level injection, visible to every component.
func (a *AppContext) Provide(key, value any) {
	a.provides[key] = value
}

// Queue returns the job queue, or nil when updates run synchronously.
func (a *AppContext) Queue() *reactive.JobQueue {
	return a.queue
}

// Logger returns the diagnostics logger.
func (a *AppContext) Logger() *slog.Logger {
	return a.logger
}

func (a *AppContext) nextUID() int {
	a.uid++
	return a.uid
}
