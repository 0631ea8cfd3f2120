package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration  *prometheus.HistogramVec
	DBQueryErrors    *prometheus.CounterVec
	DBOpenConns      *prometheus.GaugeVec
	DBInUseConns     *prometheus.GaugeVec
	DBIdleConns      *prometheus.GaugeVec
	DBWaitCount      *prometheus.GaugeVec
	DBTxRetriesTotal *prometheus.CounterVec

	// Бизнес-метрики
	ReservationsTotal  *prometheus.CounterVec
	TransitionsTotal   *prometheus.CounterVec
	BulkClearedTotal   *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
}

// New регистрирует метрики в глобальном регистре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном регистре (в тестах - свой регистр на каждый тест)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBOpenConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{}),

		DBInUseConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),

		DBIdleConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{}),

		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),

		DBTxRetriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_tx_retries_total",
			Help:        "Transactions retried after serialization failures",
			ConstLabels: constLabels,
		}, []string{"isolation"}),

		ReservationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_total",
			Help:        "Reservation attempts by result",
			ConstLabels: constLabels,
		}, []string{"result"}),

		TransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_transitions_total",
			Help:        "Appointment status transitions by target status and result",
			ConstLabels: constLabels,
		}, []string{"target", "result"}),

		BulkClearedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "queue_bulk_cleared_total",
			Help:        "Appointments transitioned by bulk queue clear",
			ConstLabels: constLabels,
		}, []string{"target"}),

		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_total",
			Help:        "Notification intents by sink and result",
			ConstLabels: constLabels,
		}, []string{"sink", "result"}),
	}
}

// IncReservation учитывает попытку бронирования. Безопасен для nil.
func (m *Metrics) IncReservation(result string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(result).Inc()
}

// IncTransition учитывает переход статуса. Безопасен для nil.
func (m *Metrics) IncTransition(target, result string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(target, result).Inc()
}

// AddBulkCleared учитывает массовую очистку очереди. Безопасен для nil.
func (m *Metrics) AddBulkCleared(target string, count int) {
	if m == nil {
		return
	}
	m.BulkClearedTotal.WithLabelValues(target).Add(float64(count))
}

// IncNotification учитывает доставку уведомления в sink. Безопасен для nil.
func (m *Metrics) IncNotification(sink, result string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(sink, result).Inc()
}

// IncTxRetry учитывает повтор транзакции. Безопасен для nil.
func (m *Metrics) IncTxRetry(isolation string) {
	if m == nil {
		return
	}
	m.DBTxRetriesTotal.WithLabelValues(isolation).Inc()
}
