// Package event
package event

import (
	"sync"

	"medai/internal/domain"
	"medai/internal/logger"
)

type Handler func(state domain.AuthState)

// Bus fans auth state snapshots out to subscribed screens. Handlers run
// synchronously in subscription order; a panicking handler is recovered and
// logged so one broken screen cannot take down the session core.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	log      logger.Logger
}

func New(log logger.Logger) *Bus {
	return &Bus{log: log}
}

func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, handler)
}

func (b *Bus) Publish(state domain.AuthState) {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.log.Warn(
						"state handler panic",
						"phase", state.Phase.String(),
						"panic", r,
					)
				}
			}()
			h(state)
		}()
	}
}
