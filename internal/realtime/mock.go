package realtime

import (
	"context"
	"sync"
)

// MockSubscriber is a mock implementation of Subscriber for testing. Tests
// drive it by calling Emit to push change events at the registered handler.
// It is safe for concurrent use.
type MockSubscriber struct {
	mu sync.Mutex

	// Spies for method calls
	SubscribeFunc func(ctx context.Context, tables []string, handler Handler) (Subscription, error)

	// Call records
	SubscribeCalls [][]string

	handler Handler
}

// MockSubscription records Unsubscribe calls.
type MockSubscription struct {
	mu               sync.Mutex
	UnsubscribeCalls int
	parent           *MockSubscriber
}

// NewMock creates a new mock subscriber.
func NewMock() *MockSubscriber {
	return &MockSubscriber{}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, tables []string, handler Handler) (Subscription, error) {
	m.mu.Lock()
	m.SubscribeCalls = append(m.SubscribeCalls, tables)
	m.handler = handler
	fn := m.SubscribeFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, tables, handler)
	}
	return &MockSubscription{parent: m}, nil
}

// Emit delivers an event to the most recently registered handler, if any.
func (m *MockSubscriber) Emit(event ChangeEvent) {
	m.mu.Lock()
	handler := m.handler
	m.mu.Unlock()
	if handler != nil {
		handler(event)
	}
}

// Reset clears all call records and the registered handler.
func (m *MockSubscriber) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubscribeCalls = nil
	m.handler = nil
}

func (s *MockSubscription) Unsubscribe() {
	s.mu.Lock()
	s.UnsubscribeCalls++
	s.mu.Unlock()
	if s.parent != nil {
		s.parent.mu.Lock()
		s.parent.handler = nil
		s.parent.mu.Unlock()
	}
}
