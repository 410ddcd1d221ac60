package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesEveryConnection(t *testing.T) {
	hub := NewHub()
	first, cleanupFirst := hub.Subscribe("u1")
	defer cleanupFirst()
	second, cleanupSecond := hub.Subscribe("u1")
	defer cleanupSecond()
	other, cleanupOther := hub.Subscribe("u2")
	defer cleanupOther()

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, hub.SubscriberCount("u1"))
	assert.Equal(t, 3, hub.TotalSubscribers())

	n := hub.Publish("u1", Event{Type: "report.reviewed", Data: map[string]string{"id": "r1"}})
	assert.Equal(t, 2, n)

	for _, sub := range []Subscription{first, second} {
		select {
		case ev := <-sub.Events:
			assert.Equal(t, "report.reviewed", ev.Type)
			assert.NotEmpty(t, ev.ID)
		default:
			t.Fatal("expected an event")
		}
	}

	select {
	case <-other.Events:
		t.Fatal("u2 must not receive u1 events")
	default:
	}
}

func TestHub_PublishSkipsFullBuffer(t *testing.T) {
	hub := NewHub()
	sub, cleanup := hub.Subscribe("u1")
	defer cleanup()

	for i := 0; i < subscriberBuffer; i++ {
		require.Equal(t, 1, hub.Publish("u1", Event{Type: "tick"}))
	}
	assert.Equal(t, 0, hub.Publish("u1", Event{Type: "tick"}))
	assert.Len(t, sub.Events, subscriberBuffer)
}

func TestHub_CleanupClosesAndForgets(t *testing.T) {
	hub := NewHub()
	sub, cleanup := hub.Subscribe("u1")

	cleanup()
	cleanup()

	_, open := <-sub.Events
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("u1"))
	assert.Equal(t, 0, hub.Publish("u1", Event{Type: "late"}))
}
