package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestStreamEventsForwardsAndStopsOnChannelClose(t *testing.T) {
	h := NewEventHandler(nil)

	events := make(chan *redis.Message, 1)
	events <- &redis.Message{Payload: `{"type":"balance_changed","balance":150}`}

	streamDone := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		h.streamEvents(conn, events, make(chan struct{}), r.Context().Done())
		close(streamDone)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"balance_changed","balance":150}`, string(payload))

	// Closing the event channel must end the stream instead of spinning
	// on empty reads.
	close(events)

	select {
	case <-streamDone:
	case <-time.After(2 * time.Second):
		t.Fatal("stream kept running after the event channel closed")
	}
}

func TestStreamEventsStopsWhenClientCloses(t *testing.T) {
	h := NewEventHandler(nil)

	events := make(chan *redis.Message)
	clientClosed := make(chan struct{})

	streamDone := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		h.streamEvents(conn, events, clientClosed, r.Context().Done())
		close(streamDone)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	close(clientClosed)

	select {
	case <-streamDone:
	case <-time.After(2 * time.Second):
		t.Fatal("stream kept running after the client hung up")
	}
}
