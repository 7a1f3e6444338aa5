// Package secret resolves credential references so provider API keys and
// signing keys stay out of code and configuration.
//
// A reference names a provider scheme and a key, joined by "://":
//
//	env://SEARCH_API_KEY
//
// Plain values without a scheme pass through unchanged, so a call site can
// accept either a literal key or a reference:
//
//	secrets := secret.Default()
//	key, err := secrets.Resolve(ctx, cfg.APIKey)
package secret
