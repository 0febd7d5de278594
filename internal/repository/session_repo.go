package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"garage/internal/estimator"
	"garage/internal/metrics"
)

// Session is one visitor's estimator form. Callers must hold the session
// lock while touching Form.
type Session struct {
	ID   string
	Form *estimator.Form

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// SessionRepository keeps estimator sessions in memory. Nothing is persisted.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*Session
	newForm  func() *estimator.Form
	now      func() time.Time
}

func NewSessionRepository(newForm func() *estimator.Form) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*Session),
		newForm:  newForm,
		now:      time.Now,
	}
}

// Get returns the live session for id and marks it as seen.
func (r *SessionRepository) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		s.lastSeen = r.now()
	}
	return s, ok
}

// Create starts a session with a fresh form under a new random id.
func (r *SessionRepository) Create() *Session {
	s := &Session{
		ID:   uuid.NewString(),
		Form: r.newForm(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s.lastSeen = r.now()
	r.sessions[s.ID] = s
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return s
}

// GetOrCreate returns the session for id, creating one when id is unknown.
// The bool is true when a new session was created.
func (r *SessionRepository) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := r.Get(id); ok {
			return s, false
		}
	}
	return r.Create(), true
}

// DeleteIdleSince drops sessions not seen since cutoff and returns how many
// were removed.
func (r *SessionRepository) DeleteIdleSince(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return removed
}

func (r *SessionRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
