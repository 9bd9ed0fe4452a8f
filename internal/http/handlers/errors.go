// Package handlers defines HTTP-layer error codes used across all API
// endpoints. Codes are lowercase snake_case and give clients a stable,
// machine-readable taxonomy beside the human-readable message.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeUnavailable      = "generating"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
