package client

import (
	"encoding/json"
	"net/http"
)

// Response is the outcome of a successful call. The body has already
// been read and the connection released.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Header holds the response headers.
	Header http.Header

	// Body is the full response body.
	Body []byte
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}
