package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/content-architect/outbound/client"
)

// Keyer generates deterministic cache keys from outbound requests.
//
// Contract:
// - Determinism: the same request shape must produce the same key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key for a request against the named dependency.
	Key(dependency string, req client.Request) (string, error)
}

// RequestKeyer generates SHA-256 based cache keys.
type RequestKeyer struct{}

// NewRequestKeyer creates a new request keyer.
func NewRequestKeyer() *RequestKeyer {
	return &RequestKeyer{}
}

// Key generates a deterministic cache key.
// Format: cache:<dependency>:<hash>
// where hash is the first 16 hex characters of SHA-256 over the method,
// path, encoded query, and body. url.Values.Encode sorts by key, so query
// parameter order does not affect the key.
func (k *RequestKeyer) Key(dependency string, req client.Request) (string, error) {
	if dependency == "" {
		return "", fmt.Errorf("cache: dependency name is required")
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(req.Path))
	h.Write([]byte{0})
	h.Write([]byte(req.Query.Encode()))
	h.Write([]byte{0})
	h.Write(req.Body)

	hash := hex.EncodeToString(h.Sum(nil)[:8])
	return fmt.Sprintf("cache:%s:%s", dependency, hash), nil
}

// Ensure RequestKeyer implements Keyer
var _ Keyer = (*RequestKeyer)(nil)
