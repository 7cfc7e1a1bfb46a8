package hub

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcast(t *testing.T) {
	h := NewHub()
	a, b := NewClient(1), NewClient(1)
	h.Subscribe(a)
	h.Subscribe(b)
	assert.Equal(t, 2, h.Len())

	require.NoError(t, h.Broadcast(Event{Type: EventMessageNew, Payload: map[string]string{"message": "oi"}}))

	for _, c := range []Client{a, b} {
		raw := <-c
		var ev struct {
			Type    string            `json:"type"`
			Payload map[string]string `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, EventMessageNew, ev.Type)
		assert.Equal(t, "oi", ev.Payload["message"])
	}
}

func TestBroadcast_SlowClientDoesNotBlock(t *testing.T) {
	h := NewHub()
	slow := NewClient(1)
	h.Subscribe(slow)

	require.NoError(t, h.Broadcast(Event{Type: EventMessageNew}))
	require.NoError(t, h.Broadcast(Event{Type: EventMessageDeleted}))

	assert.Len(t, slow, 1)
	raw := <-slow
	assert.Contains(t, string(raw), EventMessageNew)
}

func TestBroadcast_EncodeError(t *testing.T) {
	h := NewHub()
	err := h.Broadcast(Event{Type: EventMessageNew, Payload: make(chan int)})
	assert.Error(t, err)
}

func TestUnsubscribe(t *testing.T) {
	h := NewHub()
	c := NewClient(1)
	h.Subscribe(c)

	h.Unsubscribe(c)
	_, open := <-c
	assert.False(t, open, "channel closed")
	assert.Zero(t, h.Len())

	assert.NotPanics(t, func() { h.Unsubscribe(c) })
}

func TestClose(t *testing.T) {
	h := NewHub()
	clients := []Client{NewClient(1), NewClient(1)}
	for _, c := range clients {
		h.Subscribe(c)
	}

	h.Close()
	assert.Zero(t, h.Len())
	for _, c := range clients {
		_, open := <-c
		assert.False(t, open)
	}
}

func TestConcurrentSubscribeBroadcast(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := NewClient(4)
			h.Subscribe(c)
			_ = h.Broadcast(Event{Type: EventMessageNew})
			h.Unsubscribe(c)
		}()
	}
	wg.Wait()
	assert.Zero(t, h.Len())
}
