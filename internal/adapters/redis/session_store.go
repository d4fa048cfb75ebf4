package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"medai/internal/domain"
	"medai/internal/logger"
)

const sessionKey = "medai:session"

// SessionStore persists the session as a single JSON value under a fixed key.
// Used for kiosk and shared-terminal deployments where the client machine has
// no durable local disk of its own.
type SessionStore struct {
	redis *redis.Client
	log   logger.Logger
}

func NewSessionStore(client *redis.Client, log logger.Logger) *SessionStore {
	return &SessionStore{redis: client, log: log}
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKey, data, 0).Err(); err != nil {
		return fmt.Errorf("session set failed: %w", err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	data, err := s.redis.Get(ctx, sessionKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("session get failed: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil || session.Token == "" {
		s.log.Warn("stored session unreadable, treating as absent", "key", sessionKey)
		return nil, nil
	}

	return &session, nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("session del failed: %w", err)
	}
	return nil
}
