package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// upgrader upgrades HTTP requests to WebSockets.
//
// CheckOrigin accepts every origin; the server is meant to listen on
// localhost only.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleWSLLL streams swap and completion events of every LLL run.
//
// Incoming messages are ignored; the read loop only detects disconnects.
func (s *Server) handleWSLLL(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := s.wsLLL.Add(conn)
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket client connected")
	if err := client.Send(WSMessage{Type: eventHello, Data: HealthResponse{OK: true, Lattices: s.store.Len(), Timestamp: time.Now()}}); err != nil {
		s.wsLLL.Remove(client)
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.wsLLL.Remove(client)
			return
		}
	}
}
