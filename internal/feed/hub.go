package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"communityBack/internal/events"
	"communityBack/internal/logging"
	"communityBack/internal/models"
)

// Hub owns the open live feed sessions and refreshes them when listings of
// their kind change.
type Hub struct {
	logger    logging.Logger
	searchers map[models.ListingKind]Searcher

	mu       sync.RWMutex
	sessions map[models.ListingKind]map[string]*Session
}

func NewHub(logger logging.Logger, searchers ...Searcher) *Hub {
	if logger == nil {
		logger = logging.Nop()
	}
	h := &Hub{
		logger:    logger,
		searchers: make(map[models.ListingKind]Searcher, len(searchers)),
		sessions:  make(map[models.ListingKind]map[string]*Session),
	}
	for _, s := range searchers {
		h.searchers[s.Kind()] = s
	}
	return h
}

// Open starts a session for kind and kicks off its first fetch.
func (h *Hub) Open(ctx context.Context, kind models.ListingKind) (*Session, error) {
	searcher, ok := h.searchers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidListingKind, kind)
	}

	s := NewSession(ctx, uuid.NewString(), searcher, h.logger)
	h.mu.Lock()
	if h.sessions[kind] == nil {
		h.sessions[kind] = make(map[string]*Session)
	}
	h.sessions[kind][s.ID] = s
	h.mu.Unlock()
	h.logger.Infof("feed session %s opened for %s", s.ID, kind)

	s.Refresh()
	return s, nil
}

// Remove unregisters and closes s.
func (h *Hub) Remove(s *Session) {
	h.mu.Lock()
	delete(h.sessions[s.Kind()], s.ID)
	h.mu.Unlock()
	s.Close()
	h.logger.Infof("feed session %s closed", s.ID)
}

// HandleEvent refreshes every session of the event's kind.
func (h *Hub) HandleEvent(ev models.ListingEvent) {
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.sessions[ev.Kind]))
	for _, s := range h.sessions[ev.Kind] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		s.Refresh()
	}
}

// Attach subscribes the hub to listing events.
func (h *Hub) Attach(sub events.Subscriber) (func() error, error) {
	return sub.Subscribe(h.HandleEvent)
}

func (h *Hub) Count(kind models.ListingKind) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[kind])
}

// Close closes every session.
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*Session
	for kind, byID := range h.sessions {
		for _, s := range byID {
			all = append(all, s)
		}
		delete(h.sessions, kind)
	}
	h.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
