// Package metrics exposes Prometheus counters for the API.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "krushak",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "krushak",
			Name:      "booking_transitions_total",
			Help:      "Booking state transitions by resulting status.",
		},
		[]string{"status"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "krushak",
			Name:      "notifications_total",
			Help:      "Notification emails by template and outcome.",
		},
		[]string{"template", "outcome"},
	)

	geoSearches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "krushak",
			Name:      "geo_searches_total",
			Help:      "Equipment searches by whether a location was resolved.",
		},
		[]string{"resolved"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingTransitions, notifications, geoSearches)
	})
}

// IncHTTP increments the request counter.
func IncHTTP(method, route, status string) {
	httpRequests.WithLabelValues(method, route, status).Inc()
}

// IncBooking increments the booking transition counter.
func IncBooking(status string) {
	bookingTransitions.WithLabelValues(status).Inc()
}

// IncNotification increments the notification counter.
func IncNotification(template, outcome string) {
	notifications.WithLabelValues(template, outcome).Inc()
}

// IncGeoSearch increments the search counter.
func IncGeoSearch(resolved bool) {
	label := "no"
	if resolved {
		label = "yes"
	}
	geoSearches.WithLabelValues(label).Inc()
}
