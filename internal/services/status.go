package services

import (
	"context"
	"sync"

	"github.com/atelier-dev/atelier/internal/pubsub"
)

// ConnectionStatus is a broker-backed up/down signal derived from store
// availability. Subscribers see a ChangedEvent whenever the state flips.
type ConnectionStatus struct {
	mu     sync.RWMutex
	up     bool
	broker *pubsub.Broker[bool]
}

// NewConnectionStatus starts in the down state.
func NewConnectionStatus() *ConnectionStatus {
	return &ConnectionStatus{
		broker: pubsub.NewBroker[bool](),
	}
}

// Up reports the current state.
func (s *ConnectionStatus) Up() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.up
}

// Set updates the state, publishing only on transitions.
func (s *ConnectionStatus) Set(up bool) {
	s.mu.Lock()
	changed := s.up != up
	s.up = up
	s.mu.Unlock()

	if changed {
		s.broker.Publish(pubsub.ChangedEvent, up)
	}
}

// Subscribe returns a channel of state transitions.
func (s *ConnectionStatus) Subscribe(ctx context.Context) <-chan pubsub.Event[bool] {
	return s.broker.Subscribe(ctx)
}

// Close shuts down the underlying broker.
func (s *ConnectionStatus) Close() {
	s.broker.Close()
}
