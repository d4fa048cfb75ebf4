package event

import (
	"testing"

	"github.com/stretchr/testify/require"

	"medai/internal/config"
	"medai/internal/domain"
	"medai/internal/logger"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	cfg := &config.Config{LogLevel: "error", LogFormat: "text"}
	bus := New(logger.New(cfg))

	var first, second []domain.AuthPhase
	bus.Subscribe(func(s domain.AuthState) { first = append(first, s.Phase) })
	bus.Subscribe(func(s domain.AuthState) { second = append(second, s.Phase) })

	bus.Publish(domain.AuthState{Phase: domain.PhaseAuthenticating})
	bus.Publish(domain.AuthState{Phase: domain.PhaseAuthenticated})

	want := []domain.AuthPhase{domain.PhaseAuthenticating, domain.PhaseAuthenticated}
	require.Equal(t, want, first)
	require.Equal(t, want, second)
}

func TestPanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	cfg := &config.Config{LogLevel: "error", LogFormat: "text"}
	bus := New(logger.New(cfg))

	var reached bool
	bus.Subscribe(func(s domain.AuthState) { panic("broken screen") })
	bus.Subscribe(func(s domain.AuthState) { reached = true })

	require.NotPanics(t, func() {
		bus.Publish(domain.AuthState{Phase: domain.PhaseUnauthenticated})
	})
	require.True(t, reached)
}
