package repository

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"catalogo-millex/cart"
	"catalogo-millex/pagination"
)

// Session is the per-user browsing state: active line, query, page cursor and cart.
// Callers hold Lock for the whole request cycle so operations on one session
// never interleave.
type Session struct {
	mu sync.Mutex

	ID     string
	Line   string
	Query  string
	Cursor pagination.Cursor
	Cart   *cart.Cart

	// unix nanoseconds; read without mu so sweeping never waits on a request
	lastSeen atomic.Int64
}

func newSession(id string, pageSize int, now time.Time) *Session {
	s := &Session{
		ID:     id,
		Cursor: pagination.NewCursor(pageSize),
		Cart:   cart.New(),
	}
	s.touch(now)
	return s
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) idleSince(cutoff time.Time) bool {
	return s.lastSeen.Load() < cutoff.UnixNano()
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Browse switches the session to a line and query.
// Changing either one starts again from page 1.
func (s *Session) Browse(line, query string) {
	query = strings.TrimSpace(query)
	if line != s.Line || query != s.Query {
		s.Line = line
		s.Query = query
		s.Cursor.Reset()
	}
}

// MemorySessionStore keeps sessions in process memory
// Implements SessionStore
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	pageSize int
	now      func() time.Time
}

// NewMemorySessionStore creates an empty store; new sessions use pageSize for their cursor
func NewMemorySessionStore(pageSize int) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Ensure MemorySessionStore implements SessionStore
var _ SessionStore = (*MemorySessionStore)(nil)

// Get returns the session and marks it as seen
func (s *MemorySessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	session.touch(s.now())
	return session, nil
}

// Create starts a new session with an empty cart on page 1
func (s *MemorySessionStore) Create() *Session {
	session := newSession(uuid.NewString(), s.pageSize, s.now())
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

func (s *MemorySessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep never takes a session's request lock, so a session busy with a
// slow request cannot stall the store.
func (s *MemorySessionStore) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.RLock()
	var expired []string
	for id, session := range s.sessions {
		if session.idleSince(cutoff) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()
	if len(expired) == 0 {
		return 0
	}

	removed := 0
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range expired {
		// Get may have refreshed it since the scan
		if session, ok := s.sessions[id]; ok && session.idleSince(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
