package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics набор Prometheus метрик сервиса.
// Все методы безопасны для nil-получателя (метрики выключены).
type Metrics struct {
	service string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbConnections   *prometheus.GaugeVec

	appointmentsCreated  *prometheus.CounterVec
	bookingConflicts     *prometheus.CounterVec
	lifecycleTransitions *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает метрики и регистрирует их в указанном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	m := &Metrics{
		service: serviceName,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smc",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "smc",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "smc",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smc",
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Failed database queries",
		}, []string{"service", "operation"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "smc",
			Subsystem: "db",
			Name:      "connections",
			Help:      "Connection pool state",
		}, []string{"service", "state"}),
		appointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smc",
			Subsystem: "scheduling",
			Name:      "appointments_created_total",
			Help:      "Appointments created, by staff selection mode",
		}, []string{"service", "mode"}),
		bookingConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smc",
			Subsystem: "scheduling",
			Name:      "booking_conflicts_total",
			Help:      "Rejected bookings due to conflicts, by source",
		}, []string{"service", "source"}),
		lifecycleTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smc",
			Subsystem: "scheduling",
			Name:      "lifecycle_transitions_total",
			Help:      "Appointment status transitions",
		}, []string{"service", "from", "to"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbConnections,
		m.appointmentsCreated,
		m.bookingConflicts,
		m.lifecycleTransitions,
	)
	return m
}

// ObserveHTTPRequest учитывает завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.service, method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(m.service, method, route).Observe(seconds)
}

// ObserveDBQuery учитывает выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(m.service, operation).Observe(seconds)
	if err != nil {
		m.dbQueryErrors.WithLabelValues(m.service, operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues(m.service, "open").Set(float64(open))
	m.dbConnections.WithLabelValues(m.service, "in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues(m.service, "idle").Set(float64(idle))
}

// ObserveAppointmentCreated учитывает созданную запись (mode: "staff" или "any")
func (m *Metrics) ObserveAppointmentCreated(mode string) {
	if m == nil {
		return
	}
	m.appointmentsCreated.WithLabelValues(m.service, mode).Inc()
}

// ObserveBookingConflict учитывает отказ в записи из-за конфликта
func (m *Metrics) ObserveBookingConflict(source string) {
	if m == nil {
		return
	}
	m.bookingConflicts.WithLabelValues(m.service, source).Inc()
}

// ObserveTransition учитывает переход статуса записи
func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.lifecycleTransitions.WithLabelValues(m.service, from, to).Inc()
}
