package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors of the service
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database
	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	// Availability engine
	AvailabilityRequestsTotal *prometheus.CounterVec
	AvailableSlots            *prometheus.HistogramVec

	// Webhooks
	WebhookDeliveriesTotal *prometheus.CounterVec
	WebhookAttempts        *prometheus.HistogramVec

	// Rate limiting
	RateLimitRejectedTotal *prometheus.CounterVec
}

// New creates collectors and registers them in the default Prometheus registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry creates collectors and registers them in reg
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections to the database",
			ConstLabels: constLabels,
		}, []string{}),

		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),

		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),

		AvailabilityRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_requests_total",
			Help:        "Availability computations by outcome",
			ConstLabels: constLabels,
		}, []string{"result"}),

		AvailableSlots: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "availability_slots_returned",
			Help:        "Number of slots returned per availability query",
			ConstLabels: constLabels,
			Buckets:     []float64{0, 1, 2, 4, 8, 12, 16, 24, 32, 48},
		}, []string{}),

		WebhookDeliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "webhook_deliveries_total",
			Help:        "Webhook deliveries by event and result",
			ConstLabels: constLabels,
		}, []string{"event", "result"}),

		WebhookAttempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "webhook_delivery_attempts",
			Help:        "Attempts spent per webhook delivery",
			ConstLabels: constLabels,
			Buckets:     []float64{1, 2, 3, 4, 5},
		}, []string{"event"}),

		RateLimitRejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rate_limit_rejected_total",
			Help:        "Requests rejected by the rate limiter",
			ConstLabels: constLabels,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.AvailabilityRequestsTotal,
		m.AvailableSlots,
		m.WebhookDeliveriesTotal,
		m.WebhookAttempts,
		m.RateLimitRejectedTotal,
	)

	return m
}

// ObserveAvailability records the outcome of one availability computation
func (m *Metrics) ObserveAvailability(result string, slots int) {
	if m == nil {
		return
	}
	m.AvailabilityRequestsTotal.WithLabelValues(result).Inc()
	if result == "ok" {
		m.AvailableSlots.WithLabelValues().Observe(float64(slots))
	}
}

// ObserveWebhookDelivery records the outcome of one webhook delivery
func (m *Metrics) ObserveWebhookDelivery(event string, success bool, attempts int) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.WebhookDeliveriesTotal.WithLabelValues(event, result).Inc()
	m.WebhookAttempts.WithLabelValues(event).Observe(float64(attempts))
}

// ObserveRateLimitRejection records a request rejected by the rate limiter
func (m *Metrics) ObserveRateLimitRejection(route string) {
	if m == nil {
		return
	}
	m.RateLimitRejectedTotal.WithLabelValues(route).Inc()
}
