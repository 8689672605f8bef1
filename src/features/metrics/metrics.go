package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service owns the Prometheus registry and the counters the dispatch path
// increments.
type Service struct {
	registry *prometheus.Registry

	Deliveries     prometheus.Counter
	Firings        *prometheus.CounterVec
	Suppressed     prometheus.Counter
	ActionFailures prometheus.Counter
	RecordsStored  prometheus.Counter
	NativeErrors   prometheus.Counter
}

// NewService creates the metrics service and registers all collectors.
func NewService() *Service {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	service := &Service{
		registry: registry,
		Deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirwatch_deliveries_total",
			Help: "Native notifications delivered to armed watches.",
		}),
		Firings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dirwatch_firings_total",
			Help: "Qualifying firings, by trigger kind.",
		}, []string{"trigger"}),
		Suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirwatch_suppressed_total",
			Help: "Deliveries suppressed by the match filter.",
		}),
		ActionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirwatch_action_failures_total",
			Help: "Action invocations that returned an error.",
		}),
		RecordsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirwatch_records_stored_total",
			Help: "Event records written to the registry.",
		}),
		NativeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirwatch_native_errors_total",
			Help: "Errors reported by the native notification layer.",
		}),
	}

	registry.MustRegister(
		service.Deliveries,
		service.Firings,
		service.Suppressed,
		service.ActionFailures,
		service.RecordsStored,
		service.NativeErrors,
	)
	return service
}

// Handler exposes the registry in Prometheus exposition format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
