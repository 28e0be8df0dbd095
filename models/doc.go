// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types.

# Request Types

  - CastVoteRequest: option_id

# Domain Types

  - Poll: id and title
  - PollOption: one answer of a poll with its running vote count
  - PollWithOptions: a poll and its options ordered by option id

PollWithOptions is also the JSON body of GET /poll/{id}/results.

# Response Types

  - ErrorResponse: error, message
*/
package models
