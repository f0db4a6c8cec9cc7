package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	serviceName string

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	DBQueryDuration      *prometheus.HistogramVec
	DBConnections        *prometheus.GaugeVec
	BookingVerifications *prometheus.CounterVec
	BookingsReaped       *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном registry (для promhttp.Handler)
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном registry
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"service", "operation"},
		),
		DBConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_connections",
				Help: "Database connection pool state",
			},
			[]string{"service", "state"},
		),
		BookingVerifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_verifications_total",
				Help: "Payment verification outcomes for service bookings",
			},
			[]string{"service", "outcome"},
		),
		BookingsReaped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_reaped_total",
				Help: "Stale pending bookings cancelled by the reaper",
			},
			[]string{"service"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBConnections,
		m.BookingVerifications,
		m.BookingsReaped,
	)

	return m
}

// ObserveHTTPRequest учитывает завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(d.Seconds())
}

// ObserveDBQuery учитывает выполненный SQL запрос
func (m *Metrics) ObserveDBQuery(operation string, d time.Duration) {
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(d.Seconds())
}

// SetDBStats обновляет метрики connection pool
func (m *Metrics) SetDBStats(stats sql.DBStats) {
	m.DBConnections.WithLabelValues(m.serviceName, "open").Set(float64(stats.OpenConnections))
	m.DBConnections.WithLabelValues(m.serviceName, "in_use").Set(float64(stats.InUse))
	m.DBConnections.WithLabelValues(m.serviceName, "idle").Set(float64(stats.Idle))
}

// ObserveVerification учитывает исход проверки платежа
func (m *Metrics) ObserveVerification(outcome string) {
	m.BookingVerifications.WithLabelValues(m.serviceName, outcome).Inc()
}

// ObserveReaped учитывает количество отмененных просроченных бронирований
func (m *Metrics) ObserveReaped(count int) {
	m.BookingsReaped.WithLabelValues(m.serviceName).Add(float64(count))
}
