package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is already handled at the middleware layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const watchPingInterval = 30 * time.Second

// HandleWatch streams pipeline stage events over a websocket. Each message
// is one JSON-encoded event; a client that falls behind misses events
// rather than slowing generation down.
func (s *Service) HandleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Printf("handler: watch upgrade: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := s.Events.Subscribe()
	defer cancel()

	// Drain client frames so close messages are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(watchPingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
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
