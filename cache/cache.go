package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength bounds cache keys. RequestKeyer output is far shorter;
// the limit guards hand-built keys.
const MaxKeyLength = 512

var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache stores serialized outbound responses keyed by request shape.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; a miss is (nil, false).
// - TTL: Set with a non-positive TTL stores nothing.
type Cache interface {
	// Get retrieves a cached value. Returns (nil, false) on miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a cached value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects keys that are empty, whitespace-only, over
// MaxKeyLength, or contain line breaks.
func ValidateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return ErrInvalidKey
	case len(key) > MaxKeyLength:
		return ErrKeyTooLong
	case strings.ContainsAny(key, "\n\r"):
		return ErrInvalidKey
	}
	return nil
}
