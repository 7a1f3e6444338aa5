package auth

import (
	"context"
	"net/http"

	"github.com/content-architect/outbound/secret"
)

// StaticBearer sends a fixed bearer token in the Authorization header.
type StaticBearer struct {
	token string
}

// NewStaticBearer creates a bearer token credential.
func NewStaticBearer(token string) (*StaticBearer, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	return &StaticBearer{token: token}, nil
}

// NewStaticBearerRef resolves a credential reference such as
// "env://CONTENT_API_TOKEN" into a bearer token credential. A nil
// resolver defaults to secret.Default().
func NewStaticBearerRef(ctx context.Context, secrets *secret.Resolver, ref string) (*StaticBearer, error) {
	if secrets == nil {
		secrets = secret.Default()
	}
	token, err := secrets.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return NewStaticBearer(token)
}

// Apply attaches the token to the request.
func (b *StaticBearer) Apply(ctx context.Context, req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+b.token)
	return nil
}

// Name identifies the credential scheme.
func (b *StaticBearer) Name() string {
	return "bearer"
}

var _ Credential = (*StaticBearer)(nil)
