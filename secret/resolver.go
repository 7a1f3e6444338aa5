package secret

import (
	"context"
	"fmt"
	"strings"
)

// Resolver dispatches credential references to providers by scheme.
//
// Register all providers before handing the resolver to concurrent users.
type Resolver struct {
	providers map[string]Provider
}

// NewResolver creates a resolver over the given providers.
func NewResolver(providers ...Provider) *Resolver {
	r := &Resolver{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Default returns a resolver that serves env:// references.
func Default() *Resolver {
	return NewResolver(NewEnvProvider())
}

// Register adds a provider, replacing any earlier one with the same scheme.
func (r *Resolver) Register(p Provider) {
	if p == nil {
		return
	}
	r.providers[p.Scheme()] = p
}

// Resolve resolves a credential reference of the form "scheme://key".
// Values without a scheme are treated as literal secrets and returned
// unchanged.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	scheme, key, ok := ParseRef(ref)
	if !ok {
		return ref, nil
	}

	p, found := r.providers[scheme]
	if !found {
		return "", fmt.Errorf("secret: no provider for scheme %q", scheme)
	}

	value, err := p.Resolve(ctx, key)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("secret: provider %q resolved %q to an empty value", scheme, key)
	}
	return value, nil
}

// ParseRef splits a credential reference into scheme and key. A value
// without both parts is not a reference.
func ParseRef(ref string) (scheme, key string, ok bool) {
	scheme, key, found := strings.Cut(ref, "://")
	if !found || scheme == "" || key == "" {
		return "", "", false
	}
	return scheme, key, true
}
