// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cache keeps rendered poll pages and invalidates them after votes.

PageCache is an LRU keyed by request path (see PollPath). It implements
Invalidator, the signal the vote operation sends after a counter changes.

When several server instances run behind a load balancer, a Broadcaster
publishes every invalidation on a NATS subject and applies the ones it
receives from other instances. Combine both with Fanout:

	inv := cache.Fanout{pageCache, broadcaster}

Callers take a Generation snapshot before reading the data a page is
built from and pass it to Put; the page is dropped if an invalidation
arrived in between.

Invalidation is best effort. A lost message leaves a page stale until it
falls out of the LRU or the next vote on that poll.
*/
package cache
