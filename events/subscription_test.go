package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeAndEmit(t *testing.T) {
	mgr := NewSubscriptionManager()

	sub := mgr.Subscribe()
	defer sub.Cancel()

	assert.Equal(t, 1, mgr.Count())

	mgr.Emit(context.Background())

	select {
	case <-sub.Chan():
	default:
		t.Fatal("expected a notification")
	}
}

func TestEmit_DoesNotBlockOnFullChannel(t *testing.T) {
	mgr := NewSubscriptionManager()

	sub := mgr.Subscribe()
	defer sub.Cancel()

	// Two emits with no reader: the second must not block
	mgr.Emit(context.Background())
	mgr.Emit(context.Background())

	<-sub.Chan()
	select {
	case <-sub.Chan():
		t.Fatal("only one notification should be pending")
	default:
	}
}

func TestCancel_ClosesChannelAndUnsubscribes(t *testing.T) {
	mgr := NewSubscriptionManager()

	sub := mgr.Subscribe()
	sub.Cancel()

	assert.Zero(t, mgr.Count())

	_, open := <-sub.Chan()
	assert.False(t, open)
}

func TestCancel_IsIdempotent(t *testing.T) {
	mgr := NewSubscriptionManager()

	sub := mgr.Subscribe()
	sub.Cancel()
	sub.Cancel()

	assert.Zero(t, mgr.Count())
}

func TestEmit_MultipleSubscribers(t *testing.T) {
	mgr := NewSubscriptionManager()

	first := mgr.Subscribe()
	defer first.Cancel()
	second := mgr.Subscribe()
	defer second.Cancel()

	mgr.Emit(context.Background())

	for _, sub := range []*Subscription{first, second} {
		select {
		case <-sub.Chan():
		default:
			t.Fatal("every subscriber gets the notification")
		}
	}
}
