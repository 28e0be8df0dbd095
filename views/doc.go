// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package views holds the templ components for the poll pages and the
// embedded browser assets. Edit poll.templ and run `templ generate`;
// poll_templ.go is generated.
package views
