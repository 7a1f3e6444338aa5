package cache

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/content-architect/outbound/client"
)

// Caller issues outbound requests. *client.Client satisfies it, as does
// another Middleware, so caching can stack with other call decorators.
type Caller interface {
	Do(ctx context.Context, req client.Request) (*client.Response, error)
}

var _ Caller = (*client.Client)(nil)

// SkipRule determines whether to skip caching for a given request.
// Returns true if caching should be skipped.
type SkipRule func(req client.Request) bool

// DefaultSkipRule skips caching for requests that may mutate state:
// anything other than GET and HEAD.
func DefaultSkipRule(req client.Request) bool {
	switch req.Method {
	case "", http.MethodGet, http.MethodHead:
		return false
	default:
		return true
	}
}

// cachedResponse is the stored wire form of a response.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header,omitempty"`
	Body   []byte      `json:"body,omitempty"`
}

// Middleware wraps a Caller with response caching.
type Middleware struct {
	next       Caller
	dependency string
	cache      Cache
	keyer      Keyer
	policy     Policy
	skipRule   SkipRule
}

// NewMiddleware creates a caching middleware in front of next.
// If keyer is nil, a RequestKeyer is used. If skipRule is nil,
// DefaultSkipRule is used.
func NewMiddleware(next Caller, dependency string, c Cache, keyer Keyer, policy Policy, skipRule SkipRule) *Middleware {
	if keyer == nil {
		keyer = NewRequestKeyer()
	}
	if skipRule == nil {
		skipRule = DefaultSkipRule
	}
	return &Middleware{
		next:       next,
		dependency: dependency,
		cache:      c,
		keyer:      keyer,
		policy:     policy,
		skipRule:   skipRule,
	}
}

// Do runs the request with caching.
// On cache hit, returns the stored response without an outbound call.
// On cache miss, calls next and caches successful responses.
// Errors are NOT cached.
func (m *Middleware) Do(ctx context.Context, req client.Request) (*client.Response, error) {
	if !m.policy.AllowMutating && m.skipRule(req) {
		return m.next.Do(ctx, req)
	}

	if !m.policy.ShouldCache() {
		return m.next.Do(ctx, req)
	}

	key, err := m.keyer.Key(m.dependency, req)
	if err != nil {
		// Key generation failed - call through without caching
		return m.next.Do(ctx, req)
	}

	if data, ok := m.cache.Get(ctx, key); ok {
		var stored cachedResponse
		if err := json.Unmarshal(data, &stored); err == nil {
			return &client.Response{
				Status: stored.Status,
				Header: stored.Header,
				Body:   stored.Body,
			}, nil
		}
		// Corrupt entry: drop it and fall through to the call.
		_ = m.cache.Delete(ctx, key)
	}

	resp, err := m.next.Do(ctx, req)
	if err != nil {
		return resp, err
	}

	if resp.Status >= 200 && resp.Status < 300 {
		data, err := json.Marshal(cachedResponse{
			Status: resp.Status,
			Header: resp.Header,
			Body:   resp.Body,
		})
		if err == nil {
			if ttl := m.policy.EffectiveTTL(0); ttl > 0 {
				_ = m.cache.Set(ctx, key, data, ttl)
			}
		}
	}

	return resp, nil
}

var _ Caller = (*Middleware)(nil)
