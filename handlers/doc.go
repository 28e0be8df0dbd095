// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the poll widget.

# Handler Types

Each handler is a struct built around a *polls.Service:

  - PageHandler: server-rendered poll page, cached per path
  - ResultsHandler: current counts as JSON
  - VotingHandler: vote submission

	svc := polls.NewService(provider, invalidator, m)
	pageHandler := handlers.NewPageHandler(svc, pageCache)

# Routes

	GET  /poll/{id}          → PageHandler.GetPoll (HTML, 404 page when unknown)
	GET  /poll/{id}/results  → ResultsHandler.GetResults (JSON)
	POST /poll/{id}/votes    → VotingHandler.SubmitVote

SubmitVote accepts {"option_id": "..."} as JSON and answers 204, or an
option_id form field and answers 303 back to the page. Each call records
one vote; the one-vote-per-visitor rule lives in the browser.

# Caching

GetPoll keeps the rendered page in the PageCache and marks responses with
X-Cache: HIT or MISS. A successful vote invalidates /poll/{id} through
the service's invalidator.
*/
package handlers
