package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/content-architect/outbound/resilience"
)

// Request validation errors, surfaced as KindConfiguration.
var (
	errEmptyPath    = errors.New("client: request path is required")
	errRelativePath = errors.New("client: request path must start with /")
	errBadMethod    = errors.New("client: unsupported HTTP method")
)

// Kind classifies a failed call so provider clients can map outcomes to
// domain-specific handling without knowing the resilience internals.
type Kind int

const (
	// KindTimeout means an attempt exceeded its call timeout.
	KindTimeout Kind = iota
	// KindTransport means a connection-level failure before a response.
	KindTransport
	// KindUpstream means the dependency returned an error status.
	KindUpstream
	// KindRateLimited means a 429 response or local budget exhaustion
	// with no queue capacity.
	KindRateLimited
	// KindCircuitOpen means the circuit breaker rejected the call.
	KindCircuitOpen
	// KindConfiguration means the request was malformed or credentials
	// were missing; never retried.
	KindConfiguration
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindUpstream:
		return "upstream"
	case KindRateLimited:
		return "rate_limited"
	case KindCircuitOpen:
		return "circuit_open"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is the classified failure returned for every unsuccessful call.
type Error struct {
	// Kind is the failure classification.
	Kind Kind

	// Dependency is the remote dependency name.
	Dependency string

	// Status is the HTTP status, set for upstream and rate-limited
	// responses.
	Status int

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s: %s (status %d)", e.Dependency, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Dependency, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Dependency, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure may clear on retry: timeouts,
// connection failures, rate limiting, and 5xx upstream statuses.
func (e *Error) Transient() bool {
	switch e.Kind {
	case KindTimeout, KindTransport, KindRateLimited:
		return true
	case KindUpstream:
		return e.Status >= 500
	default:
		return false
	}
}

// KindOf extracts the classification from an error returned by a Client.
func KindOf(err error) (Kind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}

// IsTransient reports whether err is a retryable classification.
func IsTransient(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Transient()
	}
	switch {
	case errors.Is(err, resilience.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}

// classify wraps an unclassified composition error into an *Error for
// the named dependency. Already-classified errors and caller
// cancellation pass through unchanged.
func classify(dependency string, err error) error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, resilience.ErrCircuitOpen):
		return &Error{Kind: KindCircuitOpen, Dependency: dependency, Err: err}
	case errors.Is(err, resilience.ErrQueueFull),
		errors.Is(err, resilience.ErrBulkheadFull):
		return &Error{Kind: KindRateLimited, Dependency: dependency, Err: err}
	case errors.Is(err, resilience.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Dependency: dependency, Err: err}
	default:
		return &Error{Kind: KindTransport, Dependency: dependency, Err: err}
	}
}
