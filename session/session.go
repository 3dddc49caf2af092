// Package session keeps the most recent HighlightBatch of each listener in memory
// for a bounded time.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mager/soundtrack/config"
	"github.com/mager/soundtrack/soundtrack"
	"go.uber.org/zap"
)

// ErrNotFound is returned for unknown and expired sessions.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long a batch stays retrievable.
const DefaultTTL = 2 * time.Hour

// namespace scopes session ids derived from authorization codes.
var namespace = uuid.MustParse("6f2b7a52-51c3-4c5e-9d1b-3a8f7e0c2d44")

// ID derives a stable session id from an authorization code.
func ID(code string) string {
	return uuid.NewSHA1(namespace, []byte(code)).String()
}

type entry struct {
	batch soundtrack.HighlightBatch
}

// Store is an in-memory, TTL-bounded map of session id to batch.
type Store struct {
	log *zap.SugaredLogger
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(log *zap.SugaredLogger, ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		log:     log,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProvideStore provides the session store.
func ProvideStore(cfg config.Config, log *zap.SugaredLogger) *Store {
	return NewStore(log, cfg.SessionTTL)
}

var Options = ProvideStore

// Put replaces whatever is stored under id. Stale sessions are evicted first.
func (s *Store) Put(id string, batch soundtrack.HighlightBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if n := s.evictLocked(now); n > 0 {
		s.log.Infow("evicted stale sessions", "count", n)
	}
	batch.CreatedAt = now
	s.entries[id] = entry{batch: batch}
}

// Get returns the batch stored under id, or ErrNotFound when it is missing or
// older than the TTL.
func (s *Store) Get(id string) (*soundtrack.HighlightBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(e, s.now()) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}
	batch := e.batch
	return &batch, nil
}

// EvictStale removes every session older than the TTL at now and reports how
// many were removed.
func (s *Store) EvictStale(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictLocked(now)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) evictLocked(now time.Time) int {
	n := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

func (s *Store) expired(e entry, now time.Time) bool {
	return now.Sub(e.batch.CreatedAt) > s.ttl
}
