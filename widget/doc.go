// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package widget models the voting widget as a client sees it.

A Session moves from NotVoted to Voted the first time Vote is called and
never back. The transition writes the marker "voted-{pollID}" to a
MarkerStore, so a new Session for the same poll starts in Voted. The
marker is advisory; the server keeps no record of it.

Vote shows the increment at once through an overlay on top of the last
poll loaded from the server. Refresh replaces that poll and discards the
overlay.

Rows computes what is drawn: per-option percentages rounded to one
decimal (0 when nobody voted) and chart bar widths scaled to the largest
count. The server uses Rows for the initial render; the browser script in
package views applies the same rules.
*/
package widget
