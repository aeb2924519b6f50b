// Package telemetry owns the process-wide prometheus collectors and the
// OpenTelemetry tracer provider.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	OrdersSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Orders written by checkout.",
	})

	CheckoutFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Failed checkouts by stage.",
	}, []string{"stage"})

	FeedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_events_total",
		Help: "Order feed events published, by type.",
	}, []string{"type"})

	FeedDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_events_dropped_total",
		Help: "Feed events not delivered to a slow subscriber.",
	})

	AdminClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "admin_ws_clients",
		Help: "Connected admin websocket clients.",
	})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(OrdersSubmitted)
	prometheus.MustRegister(CheckoutFailures)
	prometheus.MustRegister(FeedEvents)
	prometheus.MustRegister(FeedDropped)
	prometheus.MustRegister(AdminClients)
}
