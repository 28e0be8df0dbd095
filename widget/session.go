// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package widget

import (
	"context"
	"fmt"
	"sync"

	"github.com/danielhkuo/pollwidget/models"
)

// State of one client with respect to one poll
type State int

const (
	NotVoted State = iota
	Voted
)

func (s State) String() string {
	if s == Voted {
		return "voted"
	}
	return "not-voted"
}

// SubmitFunc sends a vote to the server
type SubmitFunc func(ctx context.Context, optionID, pollID string) error

// Session drives the voting widget for one poll on one client.
//
// The displayed counts are the last authoritative poll plus an optimistic
// overlay. The overlay is thrown away, not merged, on Refresh.
type Session struct {
	mu      sync.Mutex
	poll    models.PollWithOptions
	overlay map[string]int64
	state   State
	markers MarkerStore
	submit  SubmitFunc
}

// NewSession starts in Voted when the marker for the poll is already present
func NewSession(poll models.PollWithOptions, markers MarkerStore, submit SubmitFunc) (*Session, error) {
	s := &Session{
		poll:    poll,
		overlay: make(map[string]int64),
		markers: markers,
		submit:  submit,
	}
	_, voted, err := markers.Get(MarkerKey(poll.Poll.ID))
	if err != nil {
		return nil, fmt.Errorf("read vote marker: %w", err)
	}
	if voted {
		s.state = Voted
	}
	return s, nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Vote records a vote for optionID unless this client already voted.
// It reports whether the server was called. The marker and optimistic
// increment are applied before submitting and stay in place if the
// submit fails.
func (s *Session) Vote(ctx context.Context, optionID string) (bool, error) {
	s.mu.Lock()
	if s.state == Voted {
		s.mu.Unlock()
		return false, nil
	}
	pollID := s.poll.Poll.ID
	if err := s.markers.Set(MarkerKey(pollID), "true"); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("write vote marker: %w", err)
	}
	s.state = Voted
	s.overlay[optionID]++
	s.mu.Unlock()

	if err := s.submit(ctx, optionID, pollID); err != nil {
		return true, fmt.Errorf("submit vote: %w", err)
	}
	return true, nil
}

// Refresh replaces the authoritative poll and drops the optimistic overlay
func (s *Session) Refresh(poll models.PollWithOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poll = poll
	s.overlay = make(map[string]int64)
}

// Current is the poll as displayed: authoritative counts plus the overlay
func (s *Session) Current() models.PollWithOptions {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := models.PollWithOptions{
		Poll:    s.poll.Poll,
		Options: make([]models.PollOption, len(s.poll.Options)),
	}
	for i, o := range s.poll.Options {
		o.Votes += s.overlay[o.ID]
		out.Options[i] = o
	}
	return out
}

// Rows is Current rendered for display
func (s *Session) Rows() []Row {
	return Rows(s.Current())
}
