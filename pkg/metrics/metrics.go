// Package metrics exports renderer activity as Prometheus metrics.
//
// A Collector implements vdom.Observer, so it can be passed to an App with
// vdom.WithObserver. InstrumentHost wraps a dom.Host to count the host
// operations the patch engine performs.
//
// Example:
//
//	c := metrics.New(metrics.WithNamespace("myapp"))
//	app := vdom.NewApp(root, nil, vdom.WithObserver(c))
//	app.Mount(metrics.InstrumentHost(host, c), container)
//
//	http.Handle("/metrics", promhttp.Handler())
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for server render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the render duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reactor",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the renderer metrics.
type Collector struct {
	hostOps        *prometheus.CounterVec
	renders        *prometheus.CounterVec
	mismatches     *prometheus.CounterVec
	queueFlushJobs prometheus.Histogram
	ssrDuration    prometheus.Histogram
	ssrErrors      prometheus.Counter
}

var _ vdom.Observer = (*Collector)(nil)

// New creates a Collector and registers its metrics.
//
// Metrics collected:
//   - reactor_host_ops_total: Counter of host operations by op
//   - reactor_component_renders_total: Counter of render passes by component and phase
//   - reactor_hydration_mismatches_total: Counter of hydration mismatches by code
//   - reactor_queue_flush_jobs: Histogram of jobs run per queue flush
//   - reactor_ssr_duration_seconds: Histogram of server render duration
//   - reactor_ssr_errors_total: Counter of failed server renders
//
// New panics if the metrics are already registered with the registry.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		hostOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_ops_total",
			Help:        "Total number of host operations performed by the patch engine",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "component_renders_total",
			Help:        "Total number of component render passes",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "phase"}),

		mismatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hydration_mismatches_total",
			Help:        "Total number of hydration mismatches by diagnostic code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		queueFlushJobs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "queue_flush_jobs",
			Help:        "Number of jobs run per job queue flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),

		ssrDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ssr_duration_seconds",
			Help:        "Server render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		ssrErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ssr_errors_total",
			Help:        "Total number of failed server renders",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ComponentRendered implements vdom.Observer.
func (c *Collector) ComponentRendered(component, phase string) {
	c.renders.WithLabelValues(component, phase).Inc()
}

// HydrationMismatch implements vdom.Observer.
func (c *Collector) HydrationMismatch(code string) {
	c.mismatches.WithLabelValues(code).Inc()
}

// QueueFlushed implements vdom.Observer.
func (c *Collector) QueueFlushed(jobs int) {
	c.queueFlushJobs.Observe(float64(jobs))
}

// RecordSSR records one server render that started at start.
func (c *Collector) RecordSSR(start time.Time, err error) {
	c.ssrDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.ssrErrors.Inc()
	}
}

func (c *Collector) hostOp(op string) {
	c.hostOps.WithLabelValues(op).Inc()
}

// hostCounter forwards to a Host and counts the mutating calls.
type hostCounter struct {
	dom.Host
	c *Collector
}

// InstrumentHost returns h with its create, insert, remove and patch
// operations counted by c. Attribute reads are forwarded when h supports
// them.
func InstrumentHost(h dom.Host, c *Collector) dom.Host {
	return &hostCounter{Host: h, c: c}
}

func (h *hostCounter) CreateElement(tag string) dom.Node {
	h.c.hostOp(dom.OpCreateElement)
	return h.Host.CreateElement(tag)
}

func (h *hostCounter) CreateText(text string) dom.Node {
	h.c.hostOp(dom.OpCreateText)
	return h.Host.CreateText(text)
}

func (h *hostCounter) CreateComment(text string) dom.Node {
	h.c.hostOp(dom.OpCreateComment)
	return h.Host.CreateComment(text)
}

func (h *hostCounter) SetElementText(el dom.Node, text string) {
	h.c.hostOp(dom.OpSetElementText)
	h.Host.SetElementText(el, text)
}

func (h *hostCounter) SetText(node dom.Node, text string) {
	h.c.hostOp(dom.OpSetText)
	h.Host.SetText(node, text)
}

func (h *hostCounter) Insert(child, parent, anchor dom.Node) {
	h.c.hostOp(dom.OpInsert)
	h.Host.Insert(child, parent, anchor)
}

func (h *hostCounter) Remove(child dom.Node) {
	h.c.hostOp(dom.OpRemove)
	h.Host.Remove(child)
}

func (h *hostCounter) PatchProp(el dom.Node, key string, prev, next any) {
	h.c.hostOp(dom.OpPatchProp)
	h.Host.PatchProp(el, key, prev, next)
}

func (h *hostCounter) GetAttribute(el dom.Node, name string) (string, bool) {
	if ar, ok := h.Host.(dom.AttributeReader); ok {
		return ar.GetAttribute(el, name)
	}
	return "", false
}
