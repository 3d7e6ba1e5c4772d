package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"livepoll/internal/db"
	"livepoll/internal/engine"
	"livepoll/internal/history"
	"livepoll/internal/metrics"
	"livepoll/internal/wshub"
)

type Server struct {
	Hub     *wshub.Hub
	Engine  *engine.Engine
	History *history.Store
	DB      *db.DB // nil if no database configured
	Origins []string
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Live Polling Backend Running")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"%s","error":"%s"}`, status, err.Error())
			return
		}
	}
	fmt.Fprintf(w, `{"status":"%s"}`, status)
}

// handleHistory serves the in-memory archive, newest first. Lets a
// reconnecting moderator recover context without a live socket.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.History.List()); err != nil {
		log.Printf("[HTTP] Encoding history: %v\n", err)
	}
}

// handleArchive serves the durable archive when a database is
// configured. Unlike /history this survives restarts.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "no database configured", http.StatusNotFound)
		return
	}
	snaps, err := s.DB.ListRecent(50)
	if err != nil {
		log.Printf("[HTTP] Listing archive: %v\n", err)
		http.Error(w, "archive unavailable", http.StatusInternalServerError)
		return
	}
	if snaps == nil {
		snaps = []history.Snapshot{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snaps); err != nil {
		log.Printf("[HTTP] Encoding archive: %v\n", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.Origins,
	})
	if err != nil {
		log.Printf("[WS] Accept error: %v\n", err)
		return
	}

	connID := uuid.New().String()
	client := wshub.NewClient(connID, conn)
	s.Hub.Register(client)
	metrics.ConnectionsTotal.Inc()
	metrics.ConnectionsActive.Inc()
	log.Printf("[WS] Connected: %s\n", connID)

	ctx := r.Context()
	go client.WritePump(ctx)

	defer func() {
		s.Hub.Unregister(connID)
		s.Engine.Disconnect(connID)
		metrics.ConnectionsActive.Dec()
		conn.Close(websocket.StatusNormalClosure, "")
		log.Printf("[WS] Disconnected: %s\n", connID)
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var msg struct {
			Event   string          `json:"event"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Bad frame from %s: %v\n", connID, err)
			continue
		}
		s.Engine.Dispatch(connID, msg.Event, msg.Payload)
	}
}
