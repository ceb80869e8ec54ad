// metrics — счётчики и гистограммы сервиса в Prometheus.
// Все методы безопасны для nil-получателя: сервис без метрик просто
// не пишет их, проверки на nil на стороне вызывающего не нужны.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения label result.
const (
	ResultSuccess            = "success"
	ResultInvalidCredentials = "invalid_credentials"
	ResultLocked             = "locked"
	ResultDuplicate          = "duplicate"
	ResultRevoked            = "revoked"
	ResultExpired            = "expired"
	ResultInvalid            = "invalid"
	ResultError              = "error"
)

type Metrics struct {
	logins        *prometheus.CounterVec
	lockouts      prometheus.Counter
	refreshes     *prometheus.CounterVec
	registrations *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New регистрирует метрики в reg. В main передаётся
// prometheus.DefaultRegisterer, в тестах — отдельный prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		lockouts: f.NewCounter(prometheus.CounterOpts{
			Name: "identity_lockouts_total",
			Help: "Accounts moved to locked state.",
		}),
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_refresh_total",
			Help: "Refresh attempts by result.",
		}, []string{"result"}),
		registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_registrations_total",
			Help: "Registration attempts by result.",
		}, []string{"result"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "identity_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}

	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) Lockout() {
	if m == nil {
		return
	}

	m.lockouts.Inc()
}

func (m *Metrics) Refresh(result string) {
	if m == nil {
		return
	}

	m.refreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) Registration(result string) {
	if m == nil {
		return
	}

	m.registrations.WithLabelValues(result).Inc()
}

// ObserveHTTP пишет длительность запроса. route — шаблон маршрута
// (например, /auth/login), а не сырой путь, чтобы не раздувать кардинальность.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}

	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
