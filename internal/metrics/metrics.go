// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics exposes Prometheus collectors for conversions and
// renders. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pagecraft/internal/converter"
	"pagecraft/internal/renderer"
)

const namespace = "pagecraft"

// Metrics holds the application collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	conversions    *prometheus.CounterVec
	truncated      prometheus.Counter
	verbatim       prometheus.Counter
	skipped        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "HTML conversions by overall layout confidence.",
		}, []string{"confidence"}),
		truncated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_truncated_total",
			Help:      "Conversions stopped early by a size limit.",
		}),
		verbatim: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversion_verbatim_modules_total",
			Help:      "HTML modules created for markup no rule recognized.",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_skipped_modules_total",
			Help:      "Modules left out of a render because their type is not registered.",
		}, []string{"type"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a tree.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"mode"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_cache_lookups_total",
			Help:      "Render cache lookups by level and result.",
		}, []string{"level", "result"}),
	}
	m.registry.MustRegister(
		m.conversions, m.truncated, m.verbatim, m.skipped, m.renderDuration, m.cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveConversion records the outcome of one conversion.
func (m *Metrics) ObserveConversion(r converter.Report) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(string(r.Confidence())).Inc()
	if r.Truncated {
		m.truncated.Inc()
	}
	m.verbatim.Add(float64(r.Verbatim))
}

// ObserveRender records the duration of one render and any modules it
// skipped.
func (m *Metrics) ObserveRender(mode renderer.Mode, d time.Duration, skipped []renderer.SkippedModule) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(string(mode)).Observe(d.Seconds())
	for _, s := range skipped {
		m.skipped.WithLabelValues(s.Type).Inc()
	}
}

// ObserveCache records a render cache lookup. level is "l1" or "l2".
func (m *Metrics) ObserveCache(level string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(level, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
