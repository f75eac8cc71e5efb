package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	ErrNotFound = errors.New("key not found in cache")
	ErrClosed   = errors.New("cache is closed")
)

// DefaultMaxEntries bounds a Memory cache built with a non-positive size.
const DefaultMaxEntries = 1024

// Cache stores opaque byte values. Incr backs versioned key namespaces:
// bumping a version makes every key built from the old one unreachable.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Close() error
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is the in-process Cache used when no Redis address is configured.
// Values live in a size-bounded LRU whose ttl is the longest any value is
// kept; orphaned keys from old versions age out or get evicted. Counters
// are few and kept outside the LRU so they are never evicted.
type Memory struct {
	entries *expirable.LRU[string, entry]

	mu       sync.Mutex
	counters map[string]int64
	closed   bool
	now      func() time.Time
}

func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		entries:  expirable.NewLRU[string, entry](maxEntries, nil, ttl),
		counters: make(map[string]int64),
		now:      time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if n, ok := m.counters[key]; ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	e, ok := m.entries.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.entries.Remove(key)
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries.Add(key, e)
	return nil
}

func (m *Memory) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	m.counters[key]++
	return m.counters[key], nil
}

// Len reports how many values are held, counters excluded.
func (m *Memory) Len() int {
	return m.entries.Len()
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.entries.Purge()
	m.counters = nil
	return nil
}
