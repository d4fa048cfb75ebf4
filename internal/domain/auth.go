// Package domain
package domain

import (
	"strconv"
	"time"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// SignupRequest is the wire payload for account creation. The confirmation
// password and the terms flag are screen-side inputs and never serialized;
// see validator.Signup.
type SignupRequest struct {
	FullName         string           `json:"fullName"`
	Email            string           `json:"email"`
	Password         string           `json:"password"`
	Age              string           `json:"age"`
	Gender           string           `json:"gender"`
	Phone            string           `json:"phone"`
	HealthID         string           `json:"healthId,omitempty"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
}

// UserProfile is whatever the server returned for the account. The schema is
// the server's business; the client only relies on a stable identifier field.
type UserProfile map[string]any

// ID returns the profile's stable identifier, or "" if the server sent none.
func (p UserProfile) ID() string {
	switch v := p["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// Session is the durable proof of authentication. It exists iff the machine
// is in PhaseAuthenticated; the token is opaque and never parsed client-side.
type Session struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type AuthPhase int

const (
	PhaseRestoring AuthPhase = iota
	PhaseUnauthenticated
	PhaseAuthenticating
	PhaseAuthenticated
)

func (p AuthPhase) String() string {
	switch p {
	case PhaseRestoring:
		return "restoring"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// AuthState is a snapshot of the session machine. Exactly one variant is
// active: Session is non-nil iff Phase is PhaseAuthenticated, SubmittedAt is
// set iff Phase is PhaseAuthenticating, LastError is only carried by
// PhaseUnauthenticated.
type AuthState struct {
	Phase       AuthPhase
	Session     *Session
	SubmittedAt time.Time
	LastError   error
}

func (s AuthState) IsAuthenticated() bool {
	return s.Phase == PhaseAuthenticated
}

// Loading reports whether a screen should render a spinner: restoration or an
// in-flight login/signup attempt.
func (s AuthState) Loading() bool {
	return s.Phase == PhaseRestoring || s.Phase == PhaseAuthenticating
}
