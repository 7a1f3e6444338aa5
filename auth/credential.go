package auth

import (
	"context"
	"net/http"
)

// Credential decorates an outbound request with authentication material.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Apply must honor cancellation when it performs I/O (token minting).
// - Errors: a failed Apply means the request must not be sent.
type Credential interface {
	// Apply attaches the credential to the request.
	Apply(ctx context.Context, req *http.Request) error

	// Name identifies the credential scheme for logging. It must never
	// reveal secret material.
	Name() string
}

// None returns a credential that leaves requests untouched, for
// dependencies that need no authentication.
func None() Credential {
	return noneCredential{}
}

type noneCredential struct{}

func (noneCredential) Apply(ctx context.Context, req *http.Request) error { return nil }
func (noneCredential) Name() string                                       { return "none" }
