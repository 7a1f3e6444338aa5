// Package auth attaches credentials to outbound requests.
//
// A Credential knows how to sign or decorate one HTTP request for one
// remote dependency: a static API key, a bearer token, or a self-signed
// JWT minted on demand. Key material may be given literally or as a
// credential reference such as "env://SEARCH_API_KEY", resolved through
// the secret package at construction. Credentials are safe for concurrent
// use and never log or expose the underlying secret material.
package auth
