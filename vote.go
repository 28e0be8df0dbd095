// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/pollwidget/client"
	"github.com/danielhkuo/pollwidget/widget"
)

func voteCmd() *cobra.Command {
	var (
		server   string
		pollID   string
		optionID string
		markers  string
	)

	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Vote once on a poll from this machine",
		Long: `Vote casts one vote through the same one-vote-per-client rule the
browser widget uses. A marker file remembers which polls were voted on;
a second vote on the same poll is skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := client.New(server)

			poll, err := c.Results(ctx, pollID)
			if err != nil {
				return err
			}
			session, err := widget.NewSession(poll, widget.NewFileMarkers(markers), c.Vote)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			called, err := session.Vote(ctx, optionID)
			if err != nil {
				return err
			}
			if !called {
				fmt.Fprintf(out, "already voted on %q from this machine\n", poll.Poll.Title)
			}

			// Replace the optimistic counts with what the server recorded
			if fresh, err := c.Results(ctx, pollID); err != nil {
				slog.Warn("could not refresh results", "error", err)
			} else {
				session.Refresh(fresh)
			}

			fmt.Fprintln(out, poll.Poll.Title)
			for _, row := range session.Rows() {
				fmt.Fprintf(out, "  %-20s %s\n", row.Text, row.CountLabel())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:3318", "Server base URL")
	cmd.Flags().StringVar(&pollID, "poll", "", "Poll id")
	cmd.Flags().StringVar(&optionID, "option", "", "Option id")
	cmd.Flags().StringVar(&markers, "markers", defaultMarkerPath(), "File that remembers which polls were voted on")
	_ = cmd.MarkFlagRequired("poll")
	_ = cmd.MarkFlagRequired("option")

	return cmd
}

func defaultMarkerPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".pollwidget-votes.json"
	}
	return filepath.Join(dir, "pollwidget", "votes.json")
}
