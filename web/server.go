package web

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"markestedt/keywatch/hook"
	"markestedt/keywatch/storage"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// Server represents the monitor web server
type Server struct {
	db     *storage.DB
	svc    *hook.Service
	port   int
	hub    *Hub
	mu     sync.RWMutex
	paused bool
}

// NewServer creates a new web server
func NewServer(db *storage.DB, svc *hook.Service, port int) *Server {
	hub := NewHub()
	go hub.Run()

	return &Server{
		db:   db,
		svc:  svc,
		port: port,
		hub:  hub,
	}
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/entries", s.handleEntries)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	return mux, nil
}

// Start starts the web server (blocking)
func (s *Server) Start() error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("Starting web server", "port", s.port, "url", fmt.Sprintf("http://localhost:%d", s.port))

	return http.ListenAndServe(addr, handler)
}

// SetPaused records the capture state and pushes it to connected clients
func (s *Server) SetPaused(paused bool) {
	s.mu.Lock()
	s.paused = paused
	s.mu.Unlock()

	s.hub.BroadcastMessage(Message{
		Type: MessageTypeStatus,
		Data: StatusMessage{Status: s.statusString()},
	})
}

func (s *Server) statusString() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.paused {
		return "paused"
	}
	return "capturing"
}

// BroadcastKeyEvent pushes a delivered notification to all connected clients
func (s *Server) BroadcastKeyEvent(e *storage.KeyEvent) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeKeyEvent,
		Data: KeyEventMessage{
			ID:        e.ID,
			Key:       e.KeyName,
			Modifiers: e.ModifierText,
			Blocked:   e.Blocked,
			Timestamp: e.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		},
	})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
