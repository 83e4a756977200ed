// Package metrics implements the handler and store MetricsCollector interfaces with Prometheus.
//
// Instruments are created on first use of a metric name:
//   - RecordDuration -> HistogramVec, in seconds
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
//
// The label names of a metric are fixed by its first recording. Later recordings with a
// different label set are dropped.
package metrics

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// Collector records metrics into its own Prometheus registry.
type Collector struct {
	registry   *prometheus.Registry
	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
}

// NewCollector creates a Collector with an empty registry.
func NewCollector() *Collector {
	return &Collector{
		registry:   prometheus.NewRegistry(),
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

// Registry exposes the underlying registry, e.g. for gathering in tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordDuration observes duration in seconds.
func (c *Collector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	histogram := c.histogram(metric, labels)
	if histogram == nil {
		return
	}

	observer, err := histogram.GetMetricWith(labels)
	if err != nil {
		return
	}

	observer.Observe(duration.Seconds())
}

// IncrementCounter adds one to the counter.
func (c *Collector) IncrementCounter(metric string, labels map[string]string) {
	counter := c.counter(metric, labels)
	if counter == nil {
		return
	}

	child, err := counter.GetMetricWith(labels)
	if err != nil {
		return
	}

	child.Inc()
}

// RecordValue sets the gauge to value.
func (c *Collector) RecordValue(metric string, value float64, labels map[string]string) {
	gauge := c.gauge(metric, labels)
	if gauge == nil {
		return
	}

	child, err := gauge.GetMetricWith(labels)
	if err != nil {
		return
	}

	child.Set(value)
}

// RecordDurationContext is RecordDuration, Prometheus has no use for the context.
func (c *Collector) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	c.RecordDuration(metric, duration, labels)
}

// IncrementCounterContext is IncrementCounter.
func (c *Collector) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	c.IncrementCounter(metric, labels)
}

// RecordValueContext is RecordValue.
func (c *Collector) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	c.RecordValue(metric, value, labels)
}

func (c *Collector) histogram(name string, labels map[string]string) *prometheus.HistogramVec {
	c.mu.Lock()
	defer c.mu.Unlock()

	if histogram, exists := c.histograms[name]; exists {
		return histogram
	}

	histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    "Duration of library circulation operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, labelNames(labels))

	if err := c.registry.Register(histogram); err != nil {
		return nil
	}

	c.histograms[name] = histogram

	return histogram
}

func (c *Collector) counter(name string, labels map[string]string) *prometheus.CounterVec {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, exists := c.counters[name]; exists {
		return counter
	}

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: "Count of library circulation operations.",
	}, labelNames(labels))

	if err := c.registry.Register(counter); err != nil {
		return nil
	}

	c.counters[name] = counter

	return counter
}

func (c *Collector) gauge(name string, labels map[string]string) *prometheus.GaugeVec {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gauge, exists := c.gauges[name]; exists {
		return gauge
	}

	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: "Last observed value of a library circulation operation.",
	}, labelNames(labels))

	if err := c.registry.Register(gauge); err != nil {
		return nil
	}

	c.gauges[name] = gauge

	return gauge
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Ensure Collector implements shell.MetricsCollector.
var _ shell.MetricsCollector = (*Collector)(nil)

// Ensure Collector implements shell.ContextualMetricsCollector.
var _ shell.ContextualMetricsCollector = (*Collector)(nil)
