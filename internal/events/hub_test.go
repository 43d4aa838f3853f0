package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()

	h.Publish("one")
	require.Equal(t, "one", <-a)
	require.Equal(t, "one", <-b)

	h.Unsubscribe(b)
	h.Publish("two")
	require.Equal(t, "two", <-a)
	_, open := <-b
	require.False(t, open)
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	for i := 0; i < 20; i++ {
		h.Publish("evt")
	}
	// buffer holds 16; the rest were dropped, and Publish never blocked
	require.Len(t, ch, 16)
}

func TestMakeEventEnvelope(t *testing.T) {
	s := MakeEvent("req-1", TypeJobAccepted, 1, map[string]string{"company": "Acme"})

	var e Event
	require.NoError(t, json.Unmarshal([]byte(s), &e))
	require.Equal(t, TypeJobAccepted, e.Type)
	require.Equal(t, 1, e.Version)
	require.Equal(t, "req-1", e.RequestID)
	require.JSONEq(t, `{"company":"Acme"}`, string(e.Data))
	require.False(t, e.At.IsZero())

	empty := MakeEvent("", TypeBatchProcessed, 1, nil)
	e = Event{}
	require.NoError(t, json.Unmarshal([]byte(empty), &e))
	require.Empty(t, e.RequestID)
	require.Nil(t, e.Data)
}
