package cache

import "time"

// Policy decides whether and how long responses are cached.
type Policy struct {
	// DefaultTTL applies when a call requests caching without its own
	// TTL. Zero disables caching.
	DefaultTTL time.Duration

	// MaxTTL clamps per-call TTL overrides. Zero means no ceiling.
	MaxTTL time.Duration

	// AllowMutating permits caching responses to non-idempotent
	// requests (POST, PUT, PATCH, DELETE).
	AllowMutating bool
}

// DefaultPolicy caches idempotent responses for 5 minutes, with per-call
// overrides clamped to an hour.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: 5 * time.Minute,
		MaxTTL:     time.Hour,
	}
}

// NoCachePolicy disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache reports whether this policy caches anything at all.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL resolves a per-call override against the policy: a
// non-positive override falls back to DefaultTTL, and the result is
// clamped to MaxTTL when one is set.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}
