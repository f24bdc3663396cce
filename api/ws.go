package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// updateMessage is pushed to websocket clients when a view refreshes
type updateMessage struct {
	Event string `json:"event"`
	View  string `json:"view"`
}

// handleWebsocket streams refresh notifications for the aggregated views.
// Clients reconnect and refetch; no data rides on the socket itself.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WS: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	trendingSub := s.trendingService.SubscribeOnUpdate()
	defer trendingSub.Cancel()

	marketSub := s.marketView.SubscribeOnUpdate()
	defer marketSub.Cancel()

	// Reader goroutine: drain client frames and surface disconnects
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(wsPingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-trendingSub.Chan():
			if !s.writeUpdate(conn, "trending") {
				return
			}
		case <-marketSub.Chan():
			if !s.writeUpdate(conn, "market_view") {
				return
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeUpdate(conn *websocket.Conn, view string) bool {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(updateMessage{Event: "refresh", View: view}); err != nil {
		log.Printf("WS: write failed: %v", err)
		return false
	}
	return true
}
