package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"communityBack/internal/logging"
	"communityBack/internal/models"
)

// Searcher runs one uncached filter query. *services.ListingService
// implements it.
type Searcher interface {
	Kind() models.ListingKind
	Query(ctx context.Context, state models.FilterState) ([]models.Card, error)
}

// Update is what a session pushes after each completed fetch.
type Update struct {
	Generation uint64             `json:"generation"`
	Kind       models.ListingKind `json:"kind"`
	Filters    models.FilterState `json:"filters"`
	Listings   []models.Card      `json:"listings"`
	Error      string             `json:"error"`
}

const (
	MsgSet     = "set"
	MsgClear   = "clear"
	MsgRefresh = "refresh"
)

// ClientMessage is one frame sent by a live feed client.
type ClientMessage struct {
	Type  string `json:"type"`
	Key   string `json:"key,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Session holds the filter state of one live feed client. Every mutation
// starts a fetch and cancels the one before it; a fetch whose generation is
// no longer current is dropped, so results arrive in mutation order.
type Session struct {
	ID string

	searcher Searcher
	logger   logging.Logger
	base     context.Context

	mu         sync.Mutex
	state      models.FilterState
	generation uint64
	cancel     context.CancelFunc
	latest     Update
	closed     bool

	updates chan Update
	wg      sync.WaitGroup
}

func NewSession(ctx context.Context, id string, searcher Searcher, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Session{
		ID:       id,
		searcher: searcher,
		logger:   logger,
		base:     ctx,
		state:    models.FilterState{},
		latest:   Update{Kind: searcher.Kind(), Filters: models.FilterState{}, Listings: []models.Card{}},
		updates:  make(chan Update, 1),
	}
}

func (s *Session) Kind() models.ListingKind {
	return s.searcher.Kind()
}

// Updates delivers the newest result. An unread update is replaced by a
// newer one. The channel is closed by Close.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

// Set stores value under key and refetches. A nil or blank value removes
// the key. It returns the generation of the fetch it started, or 0 once
// the session is closed.
func (s *Session) Set(key string, value any) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	if isBlank(value) {
		delete(s.state, key)
	} else {
		s.state[key] = value
	}
	return s.startLocked()
}

// Clear drops every filter and refetches the unrestricted list.
func (s *Session) Clear() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	s.state = models.FilterState{}
	return s.startLocked()
}

// Refresh refetches with the current filters.
func (s *Session) Refresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	return s.startLocked()
}

// Apply performs the mutation a client message asks for.
func (s *Session) Apply(msg ClientMessage) error {
	switch msg.Type {
	case MsgSet:
		if strings.TrimSpace(msg.Key) == "" {
			return fmt.Errorf("set: empty key")
		}
		s.Set(msg.Key, msg.Value)
	case MsgClear:
		s.Clear()
	case MsgRefresh:
		s.Refresh()
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

// Snapshot returns the last delivered result.
func (s *Session) Snapshot() Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Close cancels the in-flight fetch, waits for fetch goroutines to exit and
// closes Updates. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
	close(s.updates)
}

func (s *Session) startLocked() uint64 {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.base)
	s.cancel = cancel
	s.generation++
	gen := s.generation
	state := s.state.Clone()

	s.wg.Add(1)
	go s.fetch(ctx, gen, state)
	return gen
}

func (s *Session) fetch(ctx context.Context, gen uint64, state models.FilterState) {
	defer s.wg.Done()

	cards, err := s.searcher.Query(ctx, state)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.generation {
		return
	}

	u := Update{Generation: gen, Kind: s.searcher.Kind(), Filters: state, Listings: cards}
	if err != nil {
		s.logger.Errorf("live feed %s: %s query failed: %v", s.ID, u.Kind, err)
		u.Listings = []models.Card{}
		u.Error = "failed to load listings"
	}
	if u.Listings == nil {
		u.Listings = []models.Card{}
	}
	s.latest = u

	// Sends happen only under s.mu, so after the drain the send cannot block.
	select {
	case <-s.updates:
	default:
	}
	s.updates <- u
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}
