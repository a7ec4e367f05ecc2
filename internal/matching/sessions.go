package matching

import (
	"sync"
)

// Sessions holds one Session per user. Callers get exclusive use of a
// session through With.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*entry
	matches  MatchRecorder
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// NewSessions creates an empty registry whose sessions record matches to m.
func NewSessions(m MatchRecorder) *Sessions {
	return &Sessions{sessions: make(map[string]*entry), matches: m}
}

// With runs fn with the user's session, creating it over load() on first
// use. fn holds the session exclusively for its duration.
func (r *Sessions) With(userID string, load func() ([]Candidate, error), fn func(*Session) error) error {
	r.mu.Lock()
	e, ok := r.sessions[userID]
	if !ok {
		e = &entry{}
		r.sessions[userID] = e
	}
	r.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		items, err := load()
		if err != nil {
			return err
		}
		e.session = NewSession(userID, items, r.matches)
	}
	return fn(e.session)
}

// Drop discards the user's session so the next use reloads the catalog.
func (r *Sessions) Drop(userID string) {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
