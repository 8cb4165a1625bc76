package service

import "errors"

var (
	// ErrNotAuthorized covers credential mismatches and issuer rejections.
	// Terminal, never retried.
	ErrNotAuthorized = errors.New("not_authorized")

	// ErrInvalidClaim marks an identity claim with no usable lookup key.
	ErrInvalidClaim = errors.New("invalid_claim")

	// ErrUserNotFound marks an explicit lookup that matched no user.
	ErrUserNotFound = errors.New("user_not_found")

	// ErrIssuerUnavailable marks exhausted transport retries against the
	// authorization server.
	ErrIssuerUnavailable = errors.New("issuer_unavailable")
)
