// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Invalidation sources
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Vote metrics
	VotesTotal prometheus.Counter
	VoteErrors *prometheus.CounterVec

	// Cache metrics
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	Invalidations      *prometheus.CounterVec
	InvalidationErrors prometheus.Counter

	// Request metrics
	RequestDuration *prometheus.HistogramVec
}

// New creates metrics on a private registry so tests can build as many as they need
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		VotesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pollwidget_votes_total",
				Help: "Total number of votes recorded",
			},
		),

		VoteErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pollwidget_vote_errors_total",
				Help: "Total number of failed vote attempts",
			},
			[]string{"reason"},
		),

		CacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pollwidget_page_cache_hits_total",
				Help: "Total number of poll pages served from cache",
			},
		),

		CacheMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pollwidget_page_cache_misses_total",
				Help: "Total number of poll pages rendered on demand",
			},
		),

		Invalidations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pollwidget_cache_invalidations_total",
				Help: "Total number of page cache invalidations",
			},
			[]string{"source"},
		),

		InvalidationErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pollwidget_cache_invalidation_errors_total",
				Help: "Total number of invalidation signals that failed to send",
			},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pollwidget_request_duration_seconds",
				Help:    "Duration of HTTP request handling",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "code"},
		),
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer returns the underlying registry
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// The helpers below accept a nil receiver so callers can run without metrics.

// RecordVote counts one vote. Poll ids come from the request path and are
// not checked against the option, so they are not used as a label.
func (m *Metrics) RecordVote() {
	if m == nil {
		return
	}
	m.VotesTotal.Inc()
}

func (m *Metrics) RecordVoteError(reason string) {
	if m == nil {
		return
	}
	m.VoteErrors.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) RecordInvalidation(source string) {
	if m == nil {
		return
	}
	m.Invalidations.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordInvalidationError() {
	if m == nil {
		return
	}
	m.InvalidationErrors.Inc()
}

func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(d.Seconds())
}
