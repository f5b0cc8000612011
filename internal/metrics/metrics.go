// Package metrics exposes Prometheus collectors for the HTTP surface and the
// coupon operations behind it. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "best_coupon"

// Admission outcomes.
const (
	AdmissionCreated  = "created"
	AdmissionConflict = "conflict"
	AdmissionInvalid  = "invalid"
	AdmissionError    = "error"
)

// Metrics holds the application collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	evaluations   *prometheus.CounterVec
	catalogSize   prometheus.Gauge
	admissions    *prometheus.CounterVec
	logins        *prometheus.CounterVec
	seededCoupons *prometheus.CounterVec
}

// New creates the collectors and registers them with registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Best-coupon evaluations by outcome.",
		}, []string{"outcome"}),
		catalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_size",
			Help:      "Number of coupons in the most recently evaluated catalog snapshot.",
		}),
		admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admissions_total",
			Help:      "Coupon admission attempts by result.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		seededCoupons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seeded_coupons_total",
			Help:      "Coupon definitions processed by startup seeding, by result.",
		}, []string{"result"}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.evaluations,
		m.catalogSize,
		m.admissions,
		m.logins,
		m.seededCoupons,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveEvaluation records one best-coupon evaluation over a catalog of the given size.
func (m *Metrics) ObserveEvaluation(matched bool, catalogSize int) {
	if m == nil {
		return
	}
	outcome := "none"
	if matched {
		outcome = "matched"
	}
	m.evaluations.WithLabelValues(outcome).Inc()
	m.catalogSize.Set(float64(catalogSize))
}

// ObserveAdmission records one coupon admission attempt.
func (m *Metrics) ObserveAdmission(result string) {
	if m == nil {
		return
	}
	m.admissions.WithLabelValues(result).Inc()
}

// ObserveLogin records one login attempt.
func (m *Metrics) ObserveLogin(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

// ObserveSeed records the outcome of one seeding run.
func (m *Metrics) ObserveSeed(created, skipped int) {
	if m == nil {
		return
	}
	m.seededCoupons.WithLabelValues(AdmissionCreated).Add(float64(created))
	m.seededCoupons.WithLabelValues("skipped").Add(float64(skipped))
}
