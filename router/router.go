// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/pollwidget/cache"
	"github.com/danielhkuo/pollwidget/handlers"
	"github.com/danielhkuo/pollwidget/metrics"
	"github.com/danielhkuo/pollwidget/middleware"
	"github.com/danielhkuo/pollwidget/polls"
	"github.com/danielhkuo/pollwidget/views"
)

func NewRouter(svc *polls.Service, pages *cache.PageCache, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(svc, pages)
	resultsHandler := handlers.NewResultsHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithMetrics(m, pattern, middleware.WithLogging(h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Poll page and widget API
	handle("GET /poll/{id}", pageHandler.GetPoll)
	handle("GET /poll/{id}/results", resultsHandler.GetResults)
	handle("POST /poll/{id}/votes", votingHandler.SubmitVote)

	// Widget assets
	mux.Handle("GET /static/", views.StaticHandler())

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollwidget v1"))
	})

	return mux
}
