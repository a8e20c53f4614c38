package vdom

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// TracerName is the instrumentation name used for spans.
const TracerName = "github.com/vango-dev/reactor/pkg/vdom"

// HydrationFallback selects what happens when server markup does not match
// the client tree.
type HydrationFallback uint8

const (
	// HydrationAbort logs the mismatch and leaves the server DOM of the
	// affected subtree as it is.
	HydrationAbort HydrationFallback = iota
	// HydrationRemount removes the mismatched node and mounts the client
	// subtree in its place.
	HydrationRemount
)

// String returns the string representation of the HydrationFallback.
func (f HydrationFallback) String() string {
	if f == HydrationRemount {
		return "remount"
	}
	return "abort"
}

// Observer receives render and hydration events, typically for metrics.
type Observer interface {
	// ComponentRendered is called after a component render pass; phase is
	// "mount", "hydrate" or "update".
	ComponentRendered(component, phase string)
	// HydrationMismatch is called once per mismatch with its diagnostic code.
	HydrationMismatch(code string)
	// QueueFlushed is called after an App flushes its job queue.
	QueueFlushed(jobs int)
}

type nopObserver struct{}

func (nopObserver) ComponentRendered(string, string) {}
func (nopObserver) HydrationMismatch(string)         {}
func (nopObserver) QueueFlushed(int)                 {}

type options struct {
	logger      *slog.Logger
	tracer      trace.Tracer
	observer    Observer
	fallback    HydrationFallback
	queue       *reactive.JobQueue
	serverState map[int]map[string]any
}

func defaultOptions() options {
	return options{
		logger:   slog.Default(),
		tracer:   otel.Tracer(TracerName),
		observer: nopObserver{},
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Renderer, App or AppContext.
type Option func(*options)

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer sets the tracer used for mount, update and hydrate spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithObserver registers an observer for render events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithHydrationFallback sets the hydration mismatch policy.
func WithHydrationFallback(f HydrationFallback) Option {
	return func(o *options) {
		o.fallback = f
	}
}

// WithJobQueue defers component rerenders to q. Without a queue, a state
// write rerenders affected components synchronously.
func WithJobQueue(q *reactive.JobQueue) Option {
	return func(o *options) {
		o.queue = q
	}
}

// WithServerState supplies component state snapshots captured during
// server rendering, keyed by component UID. Snapshots take precedence over
// client-side initial state while hydrating.
func WithServerState(state map[int]map[string]any) Option {
	return func(o *options) {
		o.serverState = state
	}
}
