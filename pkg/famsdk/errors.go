package famsdk

import (
	"errors"
	"fmt"
)

// Error codes returned by the API. These are stable identifiers; clients
// branch on them rather than on messages or status codes.
const (
	ErrorCodeInvalidRequest  = "invalid_request"
	ErrorCodeInvalidToken    = "invalid_token"
	ErrorCodeTokenExpired    = "token_expired"
	ErrorCodeInvalidLogin    = "invalid_credentials"
	ErrorCodeEmailTaken      = "email_taken"
	ErrorCodeAlreadyInFamily = "already_in_family"
	ErrorCodeFamilyNotFound  = "family_not_found"
	ErrorCodeMemberNotFound  = "member_not_found"
	ErrorCodeNotInFamily     = "not_in_family"
	ErrorCodeForbidden       = "forbidden"
	ErrorCodeSelfRemoval     = "self_removal_not_allowed"
	ErrorCodeRateLimited     = "rate_limit_exceeded"
	ErrorCodeServerError     = "server_error"
)

// APIError is a non-2xx response from the server. The request reached the
// server and was rejected; contrast with plain transport errors, where the
// outcome is unknown and cached state should be kept.
type APIError struct {
	StatusCode int
	Code       string
	Message    string

	// Family is set on already_in_family conflicts so callers can resync.
	Family *Family
}

func (e *APIError) Error() string {
	return fmt.Sprintf("famsdk: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// IsSessionExpired reports whether err means the session token is no longer
// usable and the user must log in again.
func IsSessionExpired(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == ErrorCodeTokenExpired || apiErr.Code == ErrorCodeInvalidToken
}

// IsAlreadyInFamily reports whether err is an already_in_family conflict.
func IsAlreadyInFamily(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == ErrorCodeAlreadyInFamily
}

// IsNotFound reports whether err is a family_not_found or member_not_found
// rejection.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == ErrorCodeFamilyNotFound || apiErr.Code == ErrorCodeMemberNotFound
}
