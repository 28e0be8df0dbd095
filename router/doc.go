// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router configures HTTP routes for the poll widget.

# Usage

	svc := polls.NewService(provider, invalidator, m)
	mux := router.NewRouter(svc, pageCache, m)
	server := http.Server{Handler: middleware.CORS(mux), Addr: ":3318"}

# Route Table

	GET  /                    → Version string
	GET  /health              → Health check
	GET  /metrics             → Prometheus metrics
	GET  /poll/{id}           → Poll page (HTML)
	GET  /poll/{id}/results   → Poll counts (JSON)
	POST /poll/{id}/votes     → Cast one vote
	GET  /static/             → voting.js, voting.css

Poll routes are wrapped with request logging and duration metrics.
*/
package router
