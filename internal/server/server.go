// ABOUTME: HTTP and WebSocket binding for the match actor
// ABOUTME: Serves the scoreboard page, game API, and live score feed
package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sandigames/dominacao/internal/app"
	"github.com/sandigames/dominacao/internal/game"
)

const (
	// maxPayloadLen caps POST bodies; every API body is a tiny JSON
	// object.
	maxPayloadLen = 128

	// pushInterval is the cadence of score pushes to scoreboard
	// websocket clients.
	pushInterval = 250 * time.Millisecond
)

//go:embed web
var webFS embed.FS

// Config holds server configuration
type Config struct {
	Port int
	Name string
}

// Server translates HTTP and WebSocket traffic into actor commands and
// queries. It holds no game state of its own.
type Server struct {
	config Config
	client app.Client

	upgrader   websocket.Upgrader
	httpServer *http.Server
	mux        *http.ServeMux

	// Connected scoreboard watchers
	watchers   map[string]*watcher
	watchersMu sync.Mutex

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// watcher is one connected scoreboard websocket.
type watcher struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes to conn
}

// New creates a server submitting through client.
func New(config Config, client app.Client) *Server {
	s := &Server{
		config: config,
		client: client,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // scoreboard is LAN-only
			},
		},
		watchers: make(map[string]*watcher),
		stopChan: make(chan struct{}),
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/scores", s.handleScores)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/start", s.handleStart)
	s.mux.HandleFunc("POST /api/stop", s.handleStop)
	s.mux.HandleFunc("POST /api/press", s.handlePress)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)

	web, err := fs.Sub(webFS, "web")
	if err != nil {
		log.Printf("Scoreboard assets unavailable: %v", err)
		return
	}
	s.mux.Handle("GET /", http.FileServerFS(web))
}

// Start begins listening and launches the score push loop.
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.mux,
	}

	s.wg.Add(1)
	go s.pushLoop()

	go func() {
		log.Printf("HTTP server %s listening on :%d", s.config.Name, s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()
}

// Stop shuts the listener and disconnects all watchers.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)

		s.watchersMu.Lock()
		for _, w := range s.watchers {
			w.conn.Close()
		}
		s.watchers = make(map[string]*watcher)
		s.watchersMu.Unlock()

		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			s.httpServer.Shutdown(ctx)
		}
	})
	s.wg.Wait()
}

// Handler exposes the route mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// stateJSON is the wire form of an actor snapshot.
type stateJSON struct {
	Active bool    `json:"active"`
	Owner  *string `json:"owner"`
	Winner *string `json:"winner"`
	RedMs  int64   `json:"red_ms"`
	BlueMs int64   `json:"blue_ms"`
}

func toStateJSON(snap app.Snapshot) stateJSON {
	teamName := func(t *game.Team) *string {
		if t == nil {
			return nil
		}
		name := t.String()
		return &name
	}
	return stateJSON{
		Active: snap.Active,
		Owner:  teamName(snap.Owner),
		Winner: teamName(snap.Winner),
		RedMs:  snap.Scores.Red.Milliseconds(),
		BlueMs: snap.Scores.Blue.Milliseconds(),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	snap, err := s.client.Snapshot()
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{
		"red_ms":  snap.Scores.Red.Milliseconds(),
		"blue_ms": snap.Scores.Blue.Milliseconds(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.client.Snapshot()
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, toStateJSON(snap))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.client.StartGame(); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if err := s.client.StopGame(); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePress(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadLen+1))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(body) > maxPayloadLen {
		s.writeError(w, http.StatusRequestEntityTooLarge, "request too big")
		return
	}

	var req struct {
		Team string `json:"team"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	team, err := game.ParseTeam(req.Team)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.client.TeamPress(team); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	wa := &watcher{id: uuid.New().String(), conn: conn}

	s.watchersMu.Lock()
	s.watchers[wa.id] = wa
	s.watchersMu.Unlock()

	log.Printf("Scoreboard watcher connected: %s", wa.id)

	// Push the current state immediately so the page renders without
	// waiting for the next tick.
	if snap, err := s.client.Snapshot(); err == nil {
		wa.send(toStateJSON(snap))
	}

	// Drain incoming messages to notice disconnects; watchers never
	// send anything meaningful.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.dropWatcher(wa)
				return
			}
		}
	}()
}

func (wa *watcher) send(v interface{}) error {
	wa.mu.Lock()
	defer wa.mu.Unlock()
	return wa.conn.WriteJSON(v)
}

func (s *Server) dropWatcher(wa *watcher) {
	s.watchersMu.Lock()
	if _, ok := s.watchers[wa.id]; ok {
		delete(s.watchers, wa.id)
		log.Printf("Scoreboard watcher disconnected: %s", wa.id)
	}
	s.watchersMu.Unlock()
	wa.conn.Close()
}

// pushLoop broadcasts the match state to every watcher on a fixed
// cadence.
func (s *Server) pushLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.broadcast()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Server) broadcast() {
	s.watchersMu.Lock()
	if len(s.watchers) == 0 {
		s.watchersMu.Unlock()
		return
	}
	watchers := make([]*watcher, 0, len(s.watchers))
	for _, w := range s.watchers {
		watchers = append(watchers, w)
	}
	s.watchersMu.Unlock()

	snap, err := s.client.Snapshot()
	if err != nil {
		log.Printf("Score push skipped: %v", err)
		return
	}
	state := toStateJSON(snap)

	for _, w := range watchers {
		if err := w.send(state); err != nil {
			s.dropWatcher(w)
		}
	}
}
