// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

// Package metrics exposes Prometheus instrumentation for the Veriface API.
//
// # Architecture
//
// A single [Metrics] value owns its own registry, so tests can create
// isolated instances without global collector collisions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values for the auth_attempts_total counter.
const (
	MethodPassword = "password"
	MethodPIN      = "pin"
	MethodFace     = "face"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeLocked  = "locked"
)

// Metrics bundles every Prometheus collector used by the service.
type Metrics struct {
	registry *prometheus.Registry

	// AuthAttempts counts authentication attempts by method and outcome.
	AuthAttempts *prometheus.CounterVec

	// LivenessDecisions counts face verification liveness outcomes.
	LivenessDecisions *prometheus.CounterVec

	// InferenceDuration tracks the latency of embedding service calls per frame.
	InferenceDuration prometheus.Histogram

	// TemplateOperations counts template store operations (enroll, verify).
	TemplateOperations *prometheus.CounterVec
}

// New creates a [Metrics] instance backed by a fresh registry with the
// standard Go runtime and process collectors pre-registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics := &Metrics{
		registry: registry,
		AuthAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veriface",
			Name:      "auth_attempts_total",
			Help:      "Authentication attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		LivenessDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veriface",
			Name:      "liveness_decisions_total",
			Help:      "Liveness decisions by outcome.",
		}, []string{"outcome"}),
		InferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "veriface",
			Name:      "inference_duration_seconds",
			Help:      "Latency of per-frame embedding service calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		TemplateOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veriface",
			Name:      "template_operations_total",
			Help:      "Biometric template store operations.",
		}, []string{"operation"}),
	}

	registry.MustRegister(
		metrics.AuthAttempts,
		metrics.LivenessDecisions,
		metrics.InferenceDuration,
		metrics.TemplateOperations,
	)

	return metrics
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
