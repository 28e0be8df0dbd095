// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/danielhkuo/pollwidget/cache"
	"github.com/danielhkuo/pollwidget/middleware"
	"github.com/danielhkuo/pollwidget/models"
	"github.com/danielhkuo/pollwidget/polls"
)

type VotingHandler struct {
	polls *polls.Service
}

func NewVotingHandler(svc *polls.Service) *VotingHandler {
	return &VotingHandler{polls: svc}
}

// SubmitVote handles POST /poll/{id}/votes
// JSON callers get 204; plain form posts are redirected back to the poll page
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	form := isFormPost(r)
	var req models.CastVoteRequest
	if form {
		req.OptionID = r.PostFormValue("option_id")
	} else if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.OptionID = strings.TrimSpace(req.OptionID)
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	err := h.polls.CastVote(r.Context(), req.OptionID, pollID)
	if errors.Is(err, polls.ErrOptionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Option not found")
		return
	}
	if err != nil {
		slog.Error("failed to cast vote", "error", err, "poll_id", pollID, "option_id", req.OptionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("vote cast", "poll_id", pollID, "option_id", req.OptionID)

	if form {
		http.Redirect(w, r, cache.PollPath(pollID), http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}
