package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDuringUnregister(t *testing.T) {
	hub := NewHub()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(NewClient(hub, conn))
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	// Broadcasts racing client disconnects must never hit a closed send
	// channel; this loop panics (and fails under -race) if they can.
	for i := 0; i < 25; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for j := 0; j < 200; j++ {
				hub.Broadcast(RoundState{RoundID: uint64(j)})
			}
		}()
		conn.Close()
		<-done
	}
}

func TestClientCloseIdempotent(t *testing.T) {
	hub := NewHub()
	upgrader := websocket.Upgrader{}
	registered := make(chan *Client, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(hub, conn)
		hub.Register(c)
		registered <- c
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	c := <-registered

	c.Close()
	c.Close()
	// Dropped silently after close, no panic.
	c.trySend([]byte("late"))
	hub.Unregister(c)
}
