package auth

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

// EventType identifies a session lifecycle change.
type EventType string

const (
	EventSignedIn  EventType = "SIGNED_IN"
	EventSignedOut EventType = "SIGNED_OUT"
)

// SessionEvent is pushed to connected dashboards when a session changes.
type SessionEvent struct {
	Type  EventType `json:"event"`
	Email string    `json:"email"`
}

// Broadcaster fans session events out to websocket subscribers.
type Broadcaster struct {
	logger *logging.Logger

	mu   sync.Mutex
	subs map[chan SessionEvent]struct{}
}

// NewBroadcaster creates a session event broadcaster.
func NewBroadcaster(logger *logging.Logger) *Broadcaster {
	if logger == nil {
		logger = logging.Default()
	}
	return &Broadcaster{
		logger: logger,
		subs:   make(map[chan SessionEvent]struct{}),
	}
}

// Subscribe registers a listener. The returned cancel func must be
// called when the listener goes away.
func (b *Broadcaster) Subscribe() (<-chan SessionEvent, func()) {
	ch := make(chan SessionEvent, 8)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber. Slow subscribers with
// a full buffer are skipped rather than blocked on. Nil-safe.
func (b *Broadcaster) Publish(event SessionEvent) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The route verifies the session token before calling StreamHandler,
	// so origins are not re-checked here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// StreamHandler upgrades the connection and streams session events
// until the client disconnects.
func (b *Broadcaster) StreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	events, cancel := b.Subscribe()
	defer cancel()

	// Discard client frames but notice the disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event := <-events:
			payload, err := json.Marshal(event)
			if err != nil {
				b.logger.Error("failed to marshal session event", "error", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
