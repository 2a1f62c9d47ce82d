// Package server tracks the hunting sessions served by one process.
// Sessions never share a world. Sessions of the same player share one
// progress store so concurrent connections do not overwrite each other.
package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/hunt/internal/progress"
)

// ErrShuttingDown is returned by Register once Shutdown has started.
var ErrShuttingDown = errors.New("server is shutting down")

// EventType identifies the type of session event.
type EventType int

const (
	EventServerShutdown EventType = iota
)

// Event is sent from the hub to a session.
type Event struct {
	Type EventType
}

// Session is one connection's registration with the hub.
type Session struct {
	ID       int
	Player   string
	Store    *progress.Store
	EventsCh chan Event // Buffered; the hub never blocks on it
}

type storeRef struct {
	store *progress.Store
	refs  int
}

// Hub owns the shared persistence backend and the live sessions.
type Hub struct {
	backend  progress.Backend
	defaults progress.Defaults
	logger   *log.Logger

	mu       sync.RWMutex
	sessions map[int]*Session
	stores   map[string]*storeRef
	nextID   int
	closing  bool
}

// NewHub creates a hub writing progress through backend.
// It panics if backend is nil.
func NewHub(backend progress.Backend, defaults progress.Defaults, logger *log.Logger) *Hub {
	if backend == nil {
		panic("server: NewHub requires a progress backend")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		backend:  backend,
		defaults: defaults,
		logger:   logger,
		sessions: make(map[int]*Session),
		stores:   make(map[string]*storeRef),
		nextID:   1,
	}
}

// Register opens a session for player. The player's progress is loaded by
// the first of their sessions and shared with the later ones.
func (h *Hub) Register(player string) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closing {
		return nil, ErrShuttingDown
	}

	ref, ok := h.stores[player]
	if !ok {
		store := progress.NewStore(h.backend, player, h.defaults, h.logger)
		store.Load()
		ref = &storeRef{store: store}
		h.stores[player] = ref
	}
	ref.refs++

	s := &Session{
		ID:       h.nextID,
		Player:   player,
		Store:    ref.store,
		EventsCh: make(chan Event, 4),
	}
	h.nextID++
	h.sessions[s.ID] = s
	h.logger.Debug("session registered", "id", s.ID, "player", player, "sessions", len(h.sessions))
	return s, nil
}

// Unregister closes a session. Unknown ids are ignored.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[id]
	if !ok {
		return
	}
	delete(h.sessions, id)
	if ref := h.stores[s.Player]; ref != nil {
		ref.refs--
		if ref.refs <= 0 {
			delete(h.stores, s.Player)
		}
	}
	h.logger.Debug("session unregistered", "id", id, "player", s.Player, "sessions", len(h.sessions))
}

// Sessions returns the number of live sessions.
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Shutdown refuses new sessions, notifies the live ones and waits for them
// to disconnect, up to timeout. It reports whether every session left.
func (h *Hub) Shutdown(timeout time.Duration) bool {
	h.mu.Lock()
	h.closing = true
	for _, s := range h.sessions {
		select {
		case s.EventsCh <- Event{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Sessions() == 0 {
			return true
		}
		select {
		case <-deadline:
			return h.Sessions() == 0
		case <-ticker.C:
		}
	}
}
