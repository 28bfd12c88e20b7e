// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics owns the Prometheus instruments exposed on /metrics.

Instruments are created per [Metrics] instance and registered against an
explicit [prometheus.Registerer], so tests can use a private registry.
Every Record* method is safe to call on a nil *Metrics.
*/
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// # Login Outcomes

// Outcome labels for bcr_auth_login_total.
const (
	OutcomeSuccess      = "success"
	OutcomeNotFound     = "not_found"
	OutcomeUnauthorized = "unauthorized"
	OutcomeInvalidInput = "invalid_input"
	OutcomeFault        = "fault"
)

// Result labels for bcr_car_cache_lookups_total.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics groups the application instruments.
type Metrics struct {
	LoginTotal      *prometheus.CounterVec
	HashWaitSeconds prometheus.Histogram
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CarCacheLookups *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry returns a registry pre-loaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// New creates the instruments and registers them with registry.
// Panics if registration fails (following prometheus convention).
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		LoginTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bcr_auth_login_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		HashWaitSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bcr_auth_hash_wait_seconds",
				Help:    "Time spent waiting for a bcrypt lane slot",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 2.5},
			},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bcr_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bcr_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CarCacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bcr_car_cache_lookups_total",
				Help: "Car cache lookups by result",
			},
			[]string{"result"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.LoginTotal,
		m.HashWaitSeconds,
		m.RequestsTotal,
		m.RequestDuration,
		m.CarCacheLookups,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// HashWaitObserver returns the lane wait histogram, or nil when metrics are disabled.
func (m *Metrics) HashWaitObserver() prometheus.Observer {
	if m == nil {
		return nil
	}
	return m.HashWaitSeconds
}

// RecordLogin increments the login counter for outcome (use Outcome* constants).
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginTotal.WithLabelValues(outcome).Inc()
}

// RecordRequest records one finished HTTP request.
func (m *Metrics) RecordRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCarCache increments the cache lookup counter ("hit", "miss" or "error").
func (m *Metrics) RecordCarCache(result string) {
	if m == nil {
		return
	}
	m.CarCacheLookups.WithLabelValues(result).Inc()
}
