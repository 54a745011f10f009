package metrics

import (
	"net/http"
	"strconv"
	"time"

	"booking-core/internal/usecase/shared"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "booking"

// Prometheus owns a private registry so tests can build as many as they like.
type Prometheus struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
	bookingsCreated  *prometheus.CounterVec
	bookingsRejected *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	optionsExpired   prometheus.Counter
	sweepDuration    prometheus.Histogram
	sweepFailures    prometheus.Counter
}

var _ shared.Metrics = (*Prometheus)(nil)

func NewPrometheus() *Prometheus {
	m := &Prometheus{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
			[]string{"route", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace, Name: "http_request_duration_seconds",
				Help:    "HTTP request duration seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		bookingsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "reservations_created_total", Help: "Reservations created."},
			[]string{"channel", "status"},
		),
		bookingsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "reservations_rejected_total", Help: "Booking requests rejected."},
			[]string{"reason"}, // reason: unavailable|validation|not_found|conflict|error
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "reservation_transitions_total", Help: "Reservation state transitions."},
			[]string{"to"},
		),
		optionsExpired: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "options_expired_total", Help: "Options expired by the sweeper."},
		),
		sweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace, Name: "sweep_duration_seconds",
				Help:    "Option sweep duration seconds.",
				Buckets: prometheus.DefBuckets,
			},
		),
		sweepFailures: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "sweep_item_failures_total", Help: "Options the sweeper failed to expire."},
		),
	}
	m.registry.MustRegister(
		m.httpRequests, m.httpLatency,
		m.bookingsCreated, m.bookingsRejected, m.transitions,
		m.optionsExpired, m.sweepDuration, m.sweepFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Prometheus) Registry() *prometheus.Registry { return m.registry }

func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Prometheus) ObserveHTTP(route, method string, status int, dur time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func (m *Prometheus) BookingCreated(channel, status string) {
	m.bookingsCreated.WithLabelValues(channel, status).Inc()
}

func (m *Prometheus) BookingRejected(reason string) {
	m.bookingsRejected.WithLabelValues(reason).Inc()
}

func (m *Prometheus) ReservationTransition(to string) {
	m.transitions.WithLabelValues(to).Inc()
}

func (m *Prometheus) OptionsExpired(n int) {
	m.optionsExpired.Add(float64(n))
}

func (m *Prometheus) SweepCompleted(elapsed time.Duration, failed int) {
	m.sweepDuration.Observe(elapsed.Seconds())
	m.sweepFailures.Add(float64(failed))
}
