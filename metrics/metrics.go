package metrics

import (
	"context"
	"strings"
	"time"

	"sportsbook/events"
	"sportsbook/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "sportsbook"

// Metrics holds the collectors for one process. Each instance owns its registry
// so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	operations   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	idsAllocated prometheus.Counter
	poolDuration *prometheus.HistogramVec
	poolErrors   *prometheus.CounterVec
	domainEvents *prometheus.CounterVec
}

// New creates and registers every collector, plus the Go and process collectors
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Service operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		idsAllocated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ids_allocated_total",
			Help:      "Ids handed out by the shared allocator.",
		}),
		poolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "operation_duration_seconds",
			Help:      "Storage pool call latency by call and region.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"call", "region"}),
		poolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "errors_total",
			Help:      "Storage pool calls that returned an error.",
		}, []string{"call", "region"}),
		domainEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_events_total",
			Help:      "Domain events delivered on the in-process bus.",
		}, []string{"type"}),
	}

	m.Registry.MustRegister(
		m.operations,
		m.duration,
		m.idsAllocated,
		m.poolDuration,
		m.poolErrors,
		m.domainEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Outcome labels an operation result by its domain error kind
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch models.KindOf(err) {
	case models.ErrorKindNotFound:
		return "not_found"
	case models.ErrorKindInvalidInput:
		return "invalid_input"
	case models.ErrorKindUnauthorized:
		return "unauthorized"
	default:
		return "error"
	}
}

// ObserveOperation records one finished service call
func (m *Metrics) ObserveOperation(operation string, start time.Time, err error) {
	m.operations.WithLabelValues(operation, Outcome(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// CountEvents subscribes to every domain event type on bus
func (m *Metrics) CountEvents(bus *events.Bus) {
	bus.SubscribeAll(func(_ context.Context, e events.Event) {
		m.domainEvents.WithLabelValues(strings.ToLower(string(e.Type()))).Inc()
	})
}
