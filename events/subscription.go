package events

import (
	"context"
	"sync"
)

// Subscription delivers refresh notifications to a single consumer
type Subscription struct {
	ch   chan struct{}
	mgr  *SubscriptionManager
	once sync.Once
}

// Chan returns the notification channel
func (s *Subscription) Chan() <-chan struct{} { return s.ch }

// Cancel unsubscribes and closes the channel. Safe for repeated calls.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.mgr.unsubscribe(s.ch)
	})
}

// SubscriptionManager fans refresh notifications out to subscribers
type SubscriptionManager struct {
	mu          sync.RWMutex
	subscribers map[chan struct{}]struct{}
}

// NewSubscriptionManager creates an empty subscription manager
func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// Subscribe registers a new subscriber
func (m *SubscriptionManager) Subscribe() *Subscription {
	ch := make(chan struct{}, 1)

	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	return &Subscription{ch: ch, mgr: m}
}

func (m *SubscriptionManager) unsubscribe(ch chan struct{}) {
	m.mu.Lock()
	if _, ok := m.subscribers[ch]; ok {
		delete(m.subscribers, ch)
		close(ch)
	}
	m.mu.Unlock()
}

// Emit notifies all subscribers without blocking: a subscriber whose channel
// is already full keeps its single pending notification.
func (m *SubscriptionManager) Emit(ctx context.Context) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for sub := range m.subscribers {
		select {
		case <-ctx.Done():
			return
		case sub <- struct{}{}:
		default:
		}
	}
}

// Count returns the number of active subscribers
func (m *SubscriptionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers)
}
