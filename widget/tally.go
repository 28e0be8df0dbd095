// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package widget

import (
	"fmt"
	"math"

	"github.com/danielhkuo/pollwidget/models"
)

// ChartWidth is the width in pixels of the widest chart bar
const ChartWidth = 400

// Percentage is votes/total*100 rounded to one decimal, and 0 when total is 0
func Percentage(votes, total int64) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(votes) / float64(total) * 100
	return math.Round(pct*10) / 10
}

// Row is one option as shown to the voter
type Row struct {
	OptionID string
	Text     string
	Votes    int64
	Percent  float64
	// BarWidth is the chart bar length, proportional to the largest count
	BarWidth int
}

// CountLabel renders "3 votes (80.0%)"
func (r Row) CountLabel() string {
	noun := "votes"
	if r.Votes == 1 {
		noun = "vote"
	}
	return fmt.Sprintf("%d %s (%.1f%%)", r.Votes, noun, r.Percent)
}

// ButtonLabel is the vote control caption for the given state
func (r Row) ButtonLabel(state State) string {
	if state == Voted {
		return "Voted"
	}
	return fmt.Sprintf("Vote for %q", r.Text)
}

// Rows turns a poll into display rows in option order
func Rows(poll models.PollWithOptions) []Row {
	total := poll.TotalVotes()
	var highest int64
	for _, o := range poll.Options {
		if o.Votes > highest {
			highest = o.Votes
		}
	}

	rows := make([]Row, 0, len(poll.Options))
	for _, o := range poll.Options {
		width := 0
		if highest > 0 {
			width = int(math.Round(float64(o.Votes) / float64(highest) * ChartWidth))
		}
		rows = append(rows, Row{
			OptionID: o.ID,
			Text:     o.Text,
			Votes:    o.Votes,
			Percent:  Percentage(o.Votes, total),
			BarWidth: width,
		})
	}
	return rows
}
