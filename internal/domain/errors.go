package domain

import (
	"errors"
	"fmt"
)

// Validation failures. Local only: none of these ever triggers a network call.
var (
	ErrEmptyField         = errors.New("required field is empty")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrTermsNotAccepted   = errors.New("terms not accepted")
)

// Transport failures, classified at the transport boundary so no caller ever
// inspects raw HTTP details.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrRateLimited        = errors.New("rate limited")
	ErrNetworkUnreachable = errors.New("network unreachable")
	ErrUnknownClient      = errors.New("request could not be sent")
)

// Controller failures.
var (
	ErrPersistenceFailure = errors.New("session persistence failed")
	ErrOperationInFlight  = errors.New("another authentication attempt is in flight")
	ErrSessionInvalidated = errors.New("session invalidated")
	ErrControllerClosed   = errors.New("session controller closed")
)

// ServerRejectedError covers any non-2xx response outside the classified
// status codes, carrying the server's message body when one was present.
type ServerRejectedError struct {
	Status  int
	Message string
}

func (e *ServerRejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server rejected request (status %d)", e.Status)
	}
	return fmt.Sprintf("server rejected request (status %d): %s", e.Status, e.Message)
}

// UserMessage maps any error from the auth core to exactly one human-readable
// message. Uncatalogued errors fall back to a generic message rather than
// leaking transport or storage internals.
func UserMessage(err error) string {
	var rejected *ServerRejectedError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyField):
		return "Please fill in all fields"
	case errors.Is(err, ErrInvalidEmailFormat):
		return "Please enter a valid email address"
	case errors.Is(err, ErrPasswordTooShort):
		return "Password must be at least 6 characters long"
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, ErrTermsNotAccepted):
		return "Please agree to the Terms of Service and Privacy Policy"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, ErrRateLimited):
		return "Too many attempts. Please try again later"
	case errors.Is(err, ErrNetworkUnreachable):
		return "Network error. Please check your internet connection"
	case errors.Is(err, ErrPersistenceFailure):
		return "Could not save your session. Please try again"
	case errors.Is(err, ErrOperationInFlight):
		return "A sign-in attempt is already in progress"
	case errors.Is(err, ErrSessionInvalidated):
		return "Your session has expired. Please sign in again"
	case errors.As(err, &rejected):
		if rejected.Message != "" {
			return rejected.Message
		}
		return "An unexpected error occurred"
	}
	return "An unexpected error occurred"
}
