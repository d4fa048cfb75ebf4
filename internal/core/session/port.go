// Package session
package session

import (
	"context"

	"medai/internal/domain"
	"medai/internal/event"
)

// AuthAPI is the remote boundary: exactly two operations, with every failure
// already classified into the domain error set.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResponse, error)
}

// Store persists the single session record across process restarts. Load
// returns nil for an absent or corrupt record, never an unmarshalling error.
type Store interface {
	Save(ctx context.Context, session domain.Session) error
	Load(ctx context.Context) (*domain.Session, error)
	Clear(ctx context.Context) error
}

// Navigator is the routing collaborator. The controller only ever signals a
// destination; screen transitions are not its business.
type Navigator interface {
	Navigate(destination string)
}

const DestinationDashboard = "dashboard"

// Controller owns the authentication state machine. Every auth-mutating
// action funnels through it, and screens observe a single shared state via
// State and Subscribe.
type Controller interface {
	Restore(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, req domain.SignupRequest, confirmPassword string, agreeTerms bool) error
	Logout(ctx context.Context) error
	SessionInvalidated(ctx context.Context)

	State() domain.AuthState
	IsAuthenticated() bool
	Loading() bool
	LastError() error
	Subscribe(handler event.Handler)

	Close()
}
