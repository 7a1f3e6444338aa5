package auth

import (
	"context"
	"net/http"

	"github.com/content-architect/outbound/secret"
)

// APIKeyConfig configures an API key credential.
type APIKeyConfig struct {
	// Key is the secret key material.
	Key string

	// KeyRef is a credential reference such as "env://SEARCH_API_KEY",
	// resolved when Key is empty.
	KeyRef string

	// Secrets resolves KeyRef. Default: secret.Default().
	Secrets *secret.Resolver

	// Header is the header the key is sent in.
	// Default: "X-API-Key"
	Header string

	// QueryParam, when set, sends the key as a query parameter instead
	// of a header.
	QueryParam string
}

// APIKey sends a static API key with each request.
type APIKey struct {
	config APIKeyConfig
}

// NewAPIKey creates an API key credential. Key material comes from Key,
// or is resolved from KeyRef when Key is empty.
func NewAPIKey(ctx context.Context, config APIKeyConfig) (*APIKey, error) {
	if config.Key == "" && config.KeyRef != "" {
		secrets := config.Secrets
		if secrets == nil {
			secrets = secret.Default()
		}
		key, err := secrets.Resolve(ctx, config.KeyRef)
		if err != nil {
			return nil, err
		}
		config.Key = key
	}
	if config.Key == "" {
		return nil, ErrMissingKey
	}
	if config.Header == "" && config.QueryParam == "" {
		config.Header = "X-API-Key"
	}
	return &APIKey{config: config}, nil
}

// Apply attaches the key to the request.
func (a *APIKey) Apply(ctx context.Context, req *http.Request) error {
	if a.config.QueryParam != "" {
		q := req.URL.Query()
		q.Set(a.config.QueryParam, a.config.Key)
		req.URL.RawQuery = q.Encode()
		return nil
	}
	req.Header.Set(a.config.Header, a.config.Key)
	return nil
}

// Name identifies the credential scheme.
func (a *APIKey) Name() string {
	return "api-key"
}

var _ Credential = (*APIKey)(nil)
