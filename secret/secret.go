package secret

import "context"

// Provider resolves named secrets from one backing store.
//
// Implementations must be safe for concurrent use and must never log
// secret values.
type Provider interface {
	// Scheme is the reference prefix this provider serves, e.g. "env".
	Scheme() string

	// Resolve returns the secret named by key.
	Resolve(ctx context.Context, key string) (string, error)
}
