// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package client talks to a pollwidget server over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/pollwidget/models"
)

var ErrNotFound = errors.New("not found")

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Results fetches the current counts of a poll
func (c *Client) Results(ctx context.Context, pollID string) (models.PollWithOptions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pollURL(pollID, "results"), nil)
	if err != nil {
		return models.PollWithOptions{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("get results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.PollWithOptions{}, responseError(resp)
	}

	var poll models.PollWithOptions
	if err := json.NewDecoder(resp.Body).Decode(&poll); err != nil {
		return models.PollWithOptions{}, fmt.Errorf("decode results: %w", err)
	}
	return poll, nil
}

// Vote submits one vote. Matches widget.SubmitFunc.
func (c *Client) Vote(ctx context.Context, optionID, pollID string) error {
	body, err := json.Marshal(models.CastVoteRequest{OptionID: optionID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pollURL(pollID, "votes"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post vote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return nil
}

func (c *Client) pollURL(pollID, suffix string) string {
	return c.baseURL + "/poll/" + url.PathEscape(pollID) + "/" + suffix
}

func responseError(resp *http.Response) error {
	var e models.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&e)
	msg := e.Message
	if msg == "" {
		msg = resp.Status
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
}
