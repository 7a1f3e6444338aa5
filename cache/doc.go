// Package cache provides deterministic response caching for outbound calls.
//
// It provides a Cache interface with a memory implementation, SHA-256
// based key derivation over the request shape, and TTL policies that
// keep mutating requests out of the cache by default.
package cache
