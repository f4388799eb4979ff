package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T, hub *Hub, threadID uint64) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(threadID, w, r)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, threadID uint64, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount(threadID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber count for thread %d never reached %d", threadID, want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastReachesSubscriber(t *testing.T) {
	hub := NewHub()
	conn := dialTestHub(t, hub, 1)
	waitForSubscribers(t, hub, 1, 1)

	hub.Broadcast(1, Event{Event: "message.created", Data: map[string]any{"content": "hello"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var received Event
	require.NoError(t, conn.ReadJSON(&received))
	require.Equal(t, "message.created", received.Event)
	require.EqualValues(t, 1, received.ThreadID)
}

func TestHubIsolatesThreadStreams(t *testing.T) {
	hub := NewHub()
	conn := dialTestHub(t, hub, 2)
	waitForSubscribers(t, hub, 2, 1)

	hub.Broadcast(99, Event{Event: "message.created"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var received Event
	err := conn.ReadJSON(&received)
	require.Error(t, err) // nothing should arrive on thread 2
}

func TestHubDropsClosedSubscribers(t *testing.T) {
	hub := NewHub()
	conn := dialTestHub(t, hub, 3)
	waitForSubscribers(t, hub, 3, 1)

	require.NoError(t, conn.Close())
	waitForSubscribers(t, hub, 3, 0)

	// Broadcasting to an empty stream must not panic.
	hub.Broadcast(3, Event{Event: "message.created"})
}

func TestHubClose(t *testing.T) {
	hub := NewHub()
	dialTestHub(t, hub, 4)
	waitForSubscribers(t, hub, 4, 1)

	hub.Close()
	require.Equal(t, 0, hub.SubscriberCount(4))

	// Broadcasting after close must not panic.
	hub.Broadcast(4, Event{Event: "message.created"})
}
