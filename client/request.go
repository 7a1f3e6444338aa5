package client

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Request describes one outbound call. The zero value is not usable; at
// minimum Path must be set.
type Request struct {
	// Method is the HTTP method. Default: GET.
	Method string

	// Path is the request path relative to the client's base URL.
	Path string

	// Query holds query parameters (optional).
	Query url.Values

	// Header holds extra request headers (optional).
	Header http.Header

	// Body is the request body. A byte slice rather than a reader so
	// retried attempts can replay it.
	Body []byte

	// Operation names the logical operation for telemetry (optional).
	Operation string

	// Timeout overrides the client's per-attempt timeout (optional).
	Timeout time.Duration

	// MaxRetries overrides the client's retry budget. Nil means use the
	// client default; a pointer to zero disables retries for this call.
	MaxRetries *int
}

func (r *Request) validate() error {
	if r.Path == "" {
		return errEmptyPath
	}
	if !strings.HasPrefix(r.Path, "/") {
		return errRelativePath
	}
	if r.Method != "" {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions:
		default:
			return errBadMethod
		}
	}
	return nil
}

func (r *Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}
