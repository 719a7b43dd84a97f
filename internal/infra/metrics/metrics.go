// Package metrics exposes Prometheus instrumentation for the auth core.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation labels.
const (
	OperationCreateAccount = "create_account"
	OperationRegister      = "register"
	OperationLogin         = "login"
	OperationIdentify      = "identify"
)

// Outcome labels.
const (
	OutcomeSuccess            = "success"
	OutcomeDuplicateEmail     = "duplicate_email"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeInvalidToken       = "invalid_token"
	OutcomeExpiredToken       = "expired_token"
	OutcomeUnknownSubject     = "unknown_subject"
	OutcomeError              = "error"
)

// AuthMetrics groups the collectors recorded by the auth usecase.
type AuthMetrics struct {
	Operations    *prometheus.CounterVec
	PasswordCheck prometheus.Histogram
}

// NewRegistry returns a registry carrying the standard Go and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return registry
}

// NewAuthMetrics creates the auth collectors and registers them with reg.
// Panics if registration fails (following prometheus convention).
func NewAuthMetrics(reg *prometheus.Registry) *AuthMetrics {
	m := &AuthMetrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authsvc_auth_operations_total",
				Help: "Total number of auth operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		PasswordCheck: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "authsvc_password_check_seconds",
				Help:    "Time spent comparing a password against a stored or dummy hash",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
	}

	reg.MustRegister(m.Operations)
	reg.MustRegister(m.PasswordCheck)

	return m
}

// RecordOperation increments the operation counter. A nil receiver is a no-op.
func (m *AuthMetrics) RecordOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
}

// ObservePasswordCheck records how long one password comparison took.
func (m *AuthMetrics) ObservePasswordCheck(d time.Duration) {
	if m == nil {
		return
	}
	m.PasswordCheck.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
