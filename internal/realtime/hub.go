package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ndemidov/campusforum/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBufferSize = 64
)

// Event is a JSON payload delivered to subscribers of a thread stream.
type Event struct {
	Event    string `json:"event"`
	ThreadID uint64 `json:"thread_id"`
	Data     any    `json:"data,omitempty"`
}

// Hub fans out thread events to websocket subscribers. Subscriptions are
// keyed by thread id; reading a thread is public, so connections carry no
// identity.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint64]map[*connection]struct{}
	upgrader    websocket.Upgrader
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uint64]map[*connection]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(*http.Request) bool {
				// Streams carry only data that is readable without auth.
				return true
			},
		},
	}
}

// Serve upgrades the HTTP connection and subscribes it to the thread stream.
// It blocks until the client disconnects.
func (h *Hub) Serve(threadID uint64, w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithModule("realtime").Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := &connection{
		hub:      h,
		ws:       ws,
		threadID: threadID,
		send:     make(chan Event, sendBufferSize),
	}

	h.subscribe(conn)

	go conn.writeLoop()
	conn.readLoop()
}

// Broadcast delivers an event to every subscriber of the thread. Slow
// consumers with a full send queue are dropped rather than blocking the
// publisher.
func (h *Hub) Broadcast(threadID uint64, event Event) {
	event.ThreadID = threadID

	h.mu.RLock()
	conns := make([]*connection, 0, len(h.subscribers[threadID]))
	for conn := range h.subscribers[threadID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		select {
		case conn.send <- event:
		default:
			h.unsubscribe(conn)
			conn.close()
		}
	}
}

// Close disconnects every subscriber. Used during server shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*connection, 0)
	for _, subs := range h.subscribers {
		for conn := range subs {
			conns = append(conns, conn)
		}
	}
	h.subscribers = make(map[uint64]map[*connection]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		conn.close()
	}
}

// SubscriberCount reports active subscribers for a thread.
func (h *Hub) SubscriberCount(threadID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[threadID])
}

func (h *Hub) subscribe(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[conn.threadID] == nil {
		h.subscribers[conn.threadID] = make(map[*connection]struct{})
	}
	h.subscribers[conn.threadID][conn] = struct{}{}
}

func (h *Hub) unsubscribe(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.subscribers[conn.threadID]
	if !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.subscribers, conn.threadID)
	}
}

type connection struct {
	hub      *Hub
	ws       *websocket.Conn
	threadID uint64

	send      chan Event
	closeOnce sync.Once
}

func (c *connection) close() {
	c.closeOnce.Do(func() {
		_ = c.ws.Close()
	})
}

// readLoop consumes (and discards) client frames so that pongs and close
// frames are processed. It exits, and unsubscribes, on any read error.
func (c *connection) readLoop() {
	defer func() {
		c.hub.unsubscribe(c)
		c.close()
	}()

	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
