package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the relay's Prometheus metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	ConnectedClients prometheus.Gauge
	MessagesRelayed  prometheus.Counter
	MessagesIgnored  prometheus.Counter
	MessagesDropped  prometheus.Counter
}

// NewMetrics creates and registers the relay metrics under namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_clients",
			Help:      "Number of open WebSocket connections.",
		}),
		MessagesRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_messages_total",
			Help:      "State messages received and rebroadcast.",
		}),
		MessagesIgnored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ignored_messages_total",
			Help:      "Messages that were not valid state messages.",
		}),
		MessagesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_messages_total",
			Help:      "Deliveries dropped because a client could not keep up.",
		}),
	}
	m.registry.MustRegister(
		m.ConnectedClients,
		m.MessagesRelayed,
		m.MessagesIgnored,
		m.MessagesDropped,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
