package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"glyphmap/internal/glyph"
)

var (
	// ErrSessionClosed is returned for work sent to a deleted session.
	ErrSessionClosed = errors.New("session closed")
	// ErrTooManySessions is returned by Create when the store is full.
	ErrTooManySessions = errors.New("too many sessions")
)

const (
	DefaultMaxSessions = 1000
	DefaultIdleTimeout = 30 * time.Minute
)

// Session owns one engine. Only the session's goroutine touches the engine;
// callers send it closures through Do.
type Session struct {
	ID      string
	Created time.Time

	ops      chan func(*glyph.Engine)
	quit     chan struct{}
	once     sync.Once
	lastUsed atomic.Int64 // unix nanoseconds
}

func newSession(e *glyph.Engine) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		Created: time.Now(),
		ops:     make(chan func(*glyph.Engine)),
		quit:    make(chan struct{}),
	}
	s.lastUsed.Store(s.Created.UnixNano())
	go s.run(e)
	return s
}

func (s *Session) run(e *glyph.Engine) {
	for {
		select {
		case op := <-s.ops:
			op(e)
		case <-s.quit:
			return
		}
	}
}

// Do runs fn on the session's goroutine and waits for it to finish.
func (s *Session) Do(ctx context.Context, fn func(*glyph.Engine)) error {
	s.lastUsed.Store(time.Now().UnixNano())
	done := make(chan struct{})
	op := func(e *glyph.Engine) {
		defer close(done)
		fn(e)
	}
	select {
	case s.ops <- op:
	case <-s.quit:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

// LastUsed is when work was last sent to the session.
func (s *Session) LastUsed() time.Time { return time.Unix(0, s.lastUsed.Load()) }

// Close stops the session's goroutine. It is safe to call more than once.
func (s *Session) Close() { s.once.Do(func() { close(s.quit) }) }

// Store indexes live sessions by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  func() *glyph.Engine
	max      int
}

// NewStore creates a store whose sessions get engines from factory. At most
// max sessions live at once; max <= 0 means DefaultMaxSessions.
func NewStore(factory func() *glyph.Engine, max int) *Store {
	if max <= 0 {
		max = DefaultMaxSessions
	}
	return &Store{sessions: make(map[string]*Session), factory: factory, max: max}
}

// Create starts a session with a fresh engine, or fails with
// ErrTooManySessions when the store is full.
func (st *Store) Create() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.sessions) >= st.max {
		return nil, ErrTooManySessions
	}
	s := newSession(st.factory())
	st.sessions[s.ID] = s
	return s, nil
}

// Get looks up a live session.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete closes and forgets a session. It reports whether it existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		s.Close()
	}
	return ok
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Expire closes and forgets sessions unused since before now-idle. It
// returns how many were removed.
func (st *Store) Expire(now time.Time, idle time.Duration) int {
	cutoff := now.Add(-idle)
	var stale []*Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if s.LastUsed().Before(cutoff) {
			stale = append(stale, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()
	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Close closes every session.
func (st *Store) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		s.Close()
		delete(st.sessions, id)
	}
}
