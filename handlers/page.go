// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/danielhkuo/pollwidget/cache"
	"github.com/danielhkuo/pollwidget/polls"
	"github.com/danielhkuo/pollwidget/views"
)

const htmlContentType = "text/html; charset=utf-8"

type PageHandler struct {
	polls *polls.Service
	pages *cache.PageCache
}

func NewPageHandler(svc *polls.Service, pages *cache.PageCache) *PageHandler {
	return &PageHandler{polls: svc, pages: pages}
}

// GetPoll handles GET /poll/{id}
// Serves the rendered page from cache until a vote invalidates it
func (h *PageHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	path := cache.PollPath(pollID)

	if page, ok := h.pages.Get(path); ok {
		writePage(w, page, "HIT")
		return
	}

	gen := h.pages.Generation()
	poll, err := h.polls.GetPoll(r.Context(), pollID)
	if errors.Is(err, polls.ErrPollNotFound) {
		templ.Handler(views.NotFoundPage(pollID), templ.WithStatus(http.StatusNotFound)).ServeHTTP(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to load poll", "error", err, "poll_id", pollID)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := views.PollPage(poll).Render(r.Context(), &buf); err != nil {
		slog.Error("failed to render poll", "error", err, "poll_id", pollID)
		http.Error(w, "Failed to render poll", http.StatusInternalServerError)
		return
	}

	page := cache.Page{Body: buf.Bytes(), ContentType: htmlContentType}
	if !h.pages.Put(path, gen, page) {
		slog.Debug("page changed while rendering, not cached", "poll_id", pollID)
	}
	writePage(w, page, "MISS")
}

func writePage(w http.ResponseWriter, page cache.Page, cacheStatus string) {
	w.Header().Set("Content-Type", page.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page.Body); err != nil {
		slog.Debug("failed to write page", "error", err)
	}
}
