// Package client provides a resilient HTTP client for one remote
// dependency.
//
// Every call flows through a fixed composition of resilience layers:
// rate limiting with a bounded FIFO queue, concurrency capping, a
// circuit breaker, a retry loop with exponential backoff, and a
// per-attempt timeout. Failures come back classified so callers can
// distinguish a timed-out attempt from an exhausted quota or an open
// breaker without string matching.
package client
