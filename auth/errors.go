package auth

import "errors"

var (
	// ErrMissingKey indicates an empty API key or signing key.
	ErrMissingKey = errors.New("auth: key is required")

	// ErrMissingToken indicates an empty bearer token.
	ErrMissingToken = errors.New("auth: token is required")

	// ErrMintFailed indicates a token could not be minted.
	ErrMintFailed = errors.New("auth: token minting failed")
)
