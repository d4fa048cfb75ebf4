package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserMessageCoversEveryKind(t *testing.T) {
	kinds := []error{
		ErrEmptyField, ErrInvalidEmailFormat, ErrPasswordTooShort,
		ErrPasswordMismatch, ErrTermsNotAccepted,
		ErrInvalidCredentials, ErrAccountNotFound, ErrRateLimited,
		ErrNetworkUnreachable,
		ErrPersistenceFailure, ErrOperationInFlight, ErrSessionInvalidated,
	}

	seen := make(map[string]error)
	for _, kind := range kinds {
		msg := UserMessage(kind)
		require.NotEmpty(t, msg, "no message for %v", kind)
		require.NotEqual(t, "An unexpected error occurred", msg,
			"catalogued error %v fell through to the generic message", kind)
		if prev, ok := seen[msg]; ok {
			t.Fatalf("%v and %v share the message %q", prev, kind, msg)
		}
		seen[msg] = kind
	}
}

func TestUserMessageSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", ErrRateLimited)
	require.Equal(t, "Too many attempts. Please try again later", UserMessage(wrapped))
}

func TestUserMessageServerRejected(t *testing.T) {
	withMessage := &ServerRejectedError{Status: 500, Message: "maintenance window"}
	require.Equal(t, "maintenance window", UserMessage(withMessage))

	withoutMessage := &ServerRejectedError{Status: 502}
	require.Equal(t, "An unexpected error occurred", UserMessage(withoutMessage))
}

func TestUserMessageFallback(t *testing.T) {
	require.Equal(t, "An unexpected error occurred", UserMessage(errors.New("mystery")))
	require.Empty(t, UserMessage(nil))
}

func TestUserProfileID(t *testing.T) {
	require.Equal(t, "u-1", UserProfile{"id": "u-1"}.ID())
	require.Equal(t, "42", UserProfile{"id": float64(42)}.ID())
	require.Empty(t, UserProfile{"name": "no id"}.ID())
}
