// Package api provides the read-only HTTP surface over a registry of running
// entities: current snapshots, biographies, and persisted time series.
// All endpoints are GET; nothing here mutates entity state.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"substratum/internal/entity"
	"substratum/internal/persistence"
)

// Registry tracks live entities by ID. Entities themselves share no state;
// the registry lock only guards the map.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]*entity.Engine
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]*entity.Engine)}
}

// Add registers an entity under its ID.
func (r *Registry) Add(e *entity.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities[e.ID().String()] = e
}

// Get returns the entity with the given ID, if registered.
func (r *Registry) Get(id string) (*entity.Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[id]
	return e, ok
}

// All returns the registered entities in unspecified order.
func (r *Registry) All() []*entity.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Engine, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, e)
	}
	return out
}

// Server serves entity state over HTTP.
type Server struct {
	Registry *Registry
	DB       *persistence.DB // Optional; series endpoint 404s without it.
	Port     int
	Limiter  *RateLimiter // Optional; nil serves unthrottled.

	started time.Time
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/entities", s.handleEntities)
	mux.HandleFunc("/api/v1/entity/", limit(s.Limiter, s.handleEntityRoutes))
	return mux
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	s.started = time.Now()
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("api server starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("api server failed", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{
		"entities": len(s.Registry.All()),
		"uptime":   time.Since(s.started).String(),
	})
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type summary struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		Tick      uint64  `json:"tick"`
		Mode      string  `json:"mode"`
		Integrity float64 `json:"integrity"`
		Valence   float64 `json:"valence"`
	}

	list := make([]summary, 0)
	for _, e := range s.Registry.All() {
		snap := e.Snapshot()
		list = append(list, summary{
			ID:        e.ID().String(),
			Name:      e.Name(),
			Tick:      e.Tick(),
			Mode:      string(snap.Mode),
			Integrity: snap.Integrity,
			Valence:   snap.Valence,
		})
	}
	writeJSON(w, list)
}

// handleEntityRoutes dispatches /api/v1/entity/{id}[/biography|/story|/series].
func (s *Server) handleEntityRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/entity/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		http.Error(w, "entity id required", http.StatusBadRequest)
		return
	}

	e, ok := s.Registry.Get(id)
	if !ok {
		http.Error(w, "entity not found", http.StatusNotFound)
		return
	}

	switch sub {
	case "":
		writeJSON(w, e.Snapshot())
	case "biography":
		writeJSON(w, e.Biography())
	case "story":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		fmt.Fprint(w, e.Story())
	case "series":
		s.handleSeries(w, r, id)
	default:
		http.Error(w, "unknown route", http.StatusNotFound)
	}
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request, id string) {
	if s.DB == nil {
		http.Error(w, "no snapshot store configured", http.StatusNotFound)
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 10000 {
			limit = n
		}
	}

	snaps, err := s.DB.RecentSnapshots(id, limit)
	if err != nil {
		slog.Error("series query failed", "entity", id, "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, snaps)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("json encode failed", "error", err)
	}
}
