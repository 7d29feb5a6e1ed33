package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "code"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "code"},
	)

	// Reservations
	reservationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Total number of reservations created, by airline.",
		},
		[]string{"airline"},
	)
	reservationsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_rejected_total",
			Help: "Total number of rejected reservation commands, by reason.",
		},
		[]string{"reason"},
	)
	reservationsUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_updated_total",
			Help: "Total number of reservation updates applied.",
		},
	)
	seatsAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flight_seats_available",
			Help: "Seats left per flight.",
		},
		[]string{"flight"},
	)

	// Kafka
	kafkaMessagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kafka_messages_sent_total",
			Help: "Total number of Kafka messages successfully sent.",
		},
	)
	kafkaErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_errors_total",
			Help: "Total number of Kafka-related errors.",
		},
		[]string{"component", "operation"},
	)

	// Cache
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by key kind and result.",
		},
		[]string{"kind", "result"},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,

			reservationsCreated,
			reservationsRejected,
			reservationsUpdated,
			seatsAvailable,

			kafkaMessagesSent,
			kafkaErrors,

			cacheLookups,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// --- HTTP ---
func ObserveHTTPRequest(method, route string, code int, d time.Duration) {
	c := strconv.Itoa(code)
	httpRequests.WithLabelValues(method, route, c).Inc()
	httpDuration.WithLabelValues(method, route, c).Observe(d.Seconds())
}

// --- Reservations ---
func IncReservationCreated(airline string) { reservationsCreated.WithLabelValues(airline).Inc() }
func IncReservationRejected(reason string) { reservationsRejected.WithLabelValues(reason).Inc() }
func IncReservationUpdated()               { reservationsUpdated.Inc() }
func SetSeatsAvailable(flight string, n int) {
	if n < 0 {
		n = 0
	}
	seatsAvailable.WithLabelValues(flight).Set(float64(n))
}

// --- Kafka ---
func IncKafkaSent() { kafkaMessagesSent.Inc() }
func IncKafkaError(component, operation string) {
	kafkaErrors.WithLabelValues(component, operation).Inc()
}

// --- Cache ---
func IncCacheHit(kind string)  { cacheLookups.WithLabelValues(kind, "hit").Inc() }
func IncCacheMiss(kind string) { cacheLookups.WithLabelValues(kind, "miss").Inc() }
