package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(buf int) *Client {
	return &Client{send: make(chan []byte, buf)}
}

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func TestBroadcastReachesAllObservers(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Shutdown()

	c1 := newTestClient(4)
	c2 := newTestClient(4)
	h.register <- c1
	h.register <- c2

	h.Broadcast("likesCountUpdated", map[string]any{"postId": "p1", "likesCount": 3})

	for _, c := range []*Client{c1, c2} {
		var env struct {
			Event string         `json:"event"`
			Data  map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recv(t, c), &env))
		assert.Equal(t, "likesCountUpdated", env.Event)
		assert.Equal(t, "p1", env.Data["postId"])
		assert.EqualValues(t, 3, env.Data["likesCount"])
	}
}

func TestSlowObserverIsDropped(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Shutdown()

	slow := newTestClient(1)
	ok := newTestClient(8)
	h.register <- slow
	h.register <- ok

	// 第一条填满 slow 的队列，第二条触发丢弃
	h.Broadcast("postUpdated", map[string]any{"n": 1})
	h.Broadcast("postUpdated", map[string]any{"n": 2})

	recv(t, ok)
	recv(t, ok)

	// slow 的通道最终被 hub 关闭
	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-slow.send:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("slow client was not dropped")
		}
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Shutdown()

	c := newTestClient(4)
	h.register <- c
	h.unregister <- c

	_, open := <-c.send
	assert.False(t, open)
}

func TestShutdownClosesClients(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := newTestClient(4)
	h.register <- c
	h.Shutdown()

	select {
	case _, open := <-c.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("client not closed on shutdown")
	}
}
