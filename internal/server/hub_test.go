package server

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(NewMetrics("test"), slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h
}

func fakeClient(h *Hub, id string, buffer int) *Client {
	return &Client{id: id, hub: h, send: make(chan []byte, buffer), logger: h.logger}
}

func TestHub_Receive(t *testing.T) {
	h := runHub(t)

	tests := []struct {
		name string
		msg  string
		want bool
	}{
		{"state", `{"type":"state","payload":{}}`, true},
		{"other type", `{"type":"ping"}`, false},
		{"no type", `{"payload":{}}`, false},
		{"invalid json", `{"type":`, false},
		{"not an object", `[1,2]`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Receive([]byte(tt.msg)))
		})
	}
	assert.Equal(t, 4.0, testutil.ToFloat64(h.metrics.MessagesIgnored))
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := runHub(t)

	c := fakeClient(h, "slow", 1)
	require.True(t, h.join(c))
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	require.True(t, h.Receive([]byte(`{"type":"state","n":1}`)))
	require.True(t, h.Receive([]byte(`{"type":"state","n":2}`)))

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.MessagesDropped))

	first, ok := <-c.send
	require.True(t, ok)
	assert.Equal(t, `{"type":"state","n":1}`, string(first))
	_, ok = <-c.send
	assert.False(t, ok, "send channel should be closed")

	// Unregistering an already dropped client is a no-op.
	h.leave(c)
	assert.JSONEq(t, `{"type":"state","n":2}`, string(h.LastState()))
}

func TestHub_NewClientGetsLastState(t *testing.T) {
	h := runHub(t)

	require.True(t, h.Receive([]byte(`{ "type": "state", "v": 7 }`)))
	require.Eventually(t, func() bool { return h.LastState() != nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, `{"type":"state","v":7}`, string(h.LastState()))

	c := fakeClient(h, "late", 4)
	require.True(t, h.join(c))
	select {
	case msg := <-c.send:
		assert.Equal(t, `{"type":"state","v":7}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("late client did not receive last state")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
