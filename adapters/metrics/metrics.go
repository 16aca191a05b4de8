// Package metrics provides Prometheus metrics collection for wizide.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/artpar/wizide/core/session"
)

const namespace = "wizide"

// Collector holds all Prometheus metrics for wizide. It also observes the
// session manager.
type Collector struct {
	// HTTP metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Session metrics
	EditorsOpen     prometheus.Gauge
	EditorEvents    *prometheus.CounterVec
	BindingDuration *prometheus.HistogramVec
	BindingErrors   *prometheus.CounterVec

	// Event stream metrics
	StreamClients prometheus.Gauge
	StreamDropped prometheus.Counter

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
	ConfigLastReload   prometheus.Gauge
}

// New creates a collector registered with the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector registered with reg.
// Tests pass a fresh registry to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of API requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of API requests currently being processed",
			},
		),

		EditorsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "editors_open",
				Help:      "Number of editors in the registry",
			},
		),
		EditorEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "editor_events_total",
				Help:      "Editor lifecycle transitions by kind",
			},
			[]string{"kind"},
		),
		BindingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "binding_duration_seconds",
				Help:      "Time spent in tab and editor bindings",
				Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"event"},
		),
		BindingErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "binding_errors_total",
				Help:      "Bindings that returned an error",
			},
			[]string{"event"},
		),

		StreamClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "event_stream_clients",
				Help:      "Connected event stream clients",
			},
		),
		StreamDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "event_stream_dropped_total",
				Help:      "Events dropped for slow stream clients",
			},
		),

		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}

// EditorOpened implements session.Observer.
func (c *Collector) EditorOpened(*session.Editor) {
	c.EditorsOpen.Inc()
	c.EditorEvents.WithLabelValues("opened").Inc()
}

// EditorClosed implements session.Observer.
func (c *Collector) EditorClosed(*session.Editor) {
	c.EditorsOpen.Dec()
	c.EditorEvents.WithLabelValues("closed").Inc()
}

// EditorActivated implements session.Observer.
func (c *Collector) EditorActivated(*session.Editor) {
	c.EditorEvents.WithLabelValues("activated").Inc()
}

// EditorChanged implements session.Observer.
func (c *Collector) EditorChanged(*session.Editor) {
	c.EditorEvents.WithLabelValues("changed").Inc()
}

// BindingInvoked implements session.Observer.
func (c *Collector) BindingInvoked(event session.Event, d time.Duration, err error) {
	c.BindingDuration.WithLabelValues(string(event)).Observe(d.Seconds())
	if err != nil {
		c.BindingErrors.WithLabelValues(string(event)).Inc()
	}
}

// ConfigReloaded records the outcome of a configuration reload.
func (c *Collector) ConfigReloaded(at time.Time, err error) {
	if err != nil {
		c.ConfigReloadErrors.Inc()
		return
	}
	c.ConfigReloads.Inc()
	c.ConfigLastReload.Set(float64(at.Unix()))
}

var _ session.Observer = (*Collector)(nil)
