// Package session keeps the short-lived per-user conversational state: which
// numbered list the user last saw, so that a bare "2" can be resolved against
// it. State lives only in process memory and is not persisted across
// restarts.
package session

import (
	"sync"
	"time"

	"github.com/Rrens/hospital-chat/internal/domain"
)

// DefaultTimeout is how long a session stays valid without activity
const DefaultTimeout = 30 * time.Minute

// Store owns the user-id → session mapping. All mutation goes through the
// store; callers never hold a session across requests.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	timeout  time.Duration
	now      func() time.Time
}

// NewStore creates an empty session store. A zero timeout falls back to
// DefaultTimeout.
func NewStore(timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		sessions: make(map[string]*domain.Session),
		timeout:  timeout,
		now:      time.Now,
	}
}

// Timeout returns the configured validity window.
func (s *Store) Timeout() time.Duration {
	return s.timeout
}

// GetOrCreate returns the user's session, creating an empty one on first
// contact. An expired session is returned as-is; expiry is checked at
// resolution time, not here.
func (s *Store) GetOrCreate(userID string) *domain.Session {
	if userID == "" {
		userID = "anonymous"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &domain.Session{
			UserID:       userID,
			Kind:         domain.ListNone,
			LastActivity: s.now(),
		}
		s.sessions[userID] = sess
	}
	return sess
}

// SweepExpired removes sessions past the timeout. Invoked opportunistically
// at the start of request handling; a delayed sweep only delays reclamation.
func (s *Store) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	cutoff := s.now().Add(-s.timeout)
	for id, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// SetList replaces the session's list wholesale and refreshes activity.
func (s *Store) SetList(sess *domain.Session, entries []domain.ListEntry, kind domain.ListKind, rawText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.List = entries
	sess.Kind = kind
	sess.RawListText = rawText
	sess.LastActivity = s.now()
}

// Clear resets the list fields without removing the session. Used on greeting
// so stale back-references stop resolving.
func (s *Store) Clear(sess *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.List = nil
	sess.Kind = domain.ListNone
	sess.RawListText = ""
}

// Touch refreshes the session's activity timestamp.
func (s *Store) Touch(sess *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.LastActivity = s.now()
}

// Valid reports whether the session is inside the store's timeout window.
func (s *Store) Valid(sess *domain.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(sess.LastActivity) < s.timeout
}

// Snapshot returns a copy of the session's list state for lock-free reads
// during resolution.
func (s *Store) Snapshot(sess *domain.Session) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sess
	cp.List = make([]domain.ListEntry, len(sess.List))
	copy(cp.List, sess.List)
	return cp
}

// Len reports the number of live sessions, expired ones included until swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
