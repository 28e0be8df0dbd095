// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"net/url"
	"strconv"

	"github.com/danielhkuo/pollwidget/widget"
)

// Chart geometry in SVG units. Bars start after the label column.
const (
	labelWidth = 80
	barHeight  = 20
	rowHeight  = barHeight + 12
	chartWidth = labelWidth + widget.ChartWidth
)

func voteURL(pollID string) string {
	return "/poll/" + url.PathEscape(pollID) + "/votes"
}

func resultsURL(pollID string) string {
	return "/poll/" + url.PathEscape(pollID) + "/results"
}

func px(n int) string {
	return strconv.Itoa(n)
}

func votesAttr(row widget.Row) string {
	return strconv.FormatInt(row.Votes, 10)
}

func percentAttr(row widget.Row) string {
	return strconv.FormatFloat(row.Percent, 'f', 1, 64)
}

func barY(i int) int {
	return i*rowHeight + 6
}

func chartHeight(rows []widget.Row) int {
	if len(rows) == 0 {
		return rowHeight
	}
	return rowHeight * len(rows)
}

func chartViewBox(rows []widget.Row) string {
	return "0 0 " + px(chartWidth) + " " + px(chartHeight(rows))
}
