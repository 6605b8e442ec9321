package core

import "errors"

var (
	// ErrAuthRequired means no credential was presented.
	ErrAuthRequired = errors.New("authentication required")
	// ErrAuthInvalid covers bad signatures, expiry and failed identity verification.
	ErrAuthInvalid = errors.New("invalid credentials")
	ErrNotFound    = errors.New("not found")
	// ErrUnknownFacet is returned for a facet dimension outside the allowed set.
	ErrUnknownFacet = errors.New("unknown facet dimension")
	// ErrUpstream wraps failures of the document, identity or history stores.
	ErrUpstream = errors.New("upstream failure")
)
