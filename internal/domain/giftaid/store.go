package giftaid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
)

// DefaultSessionTTL is how long an idle session is kept
const DefaultSessionTTL = 30 * time.Minute

// SessionStore keeps open review sessions in memory. Idle sessions are evicted
// lazily when the store is accessed.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a session store
func NewSessionStore(ttl time.Duration, now func() time.Time) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      now,
	}
}

// Create opens a new session for userID
func (s *SessionStore) Create(userID string, pageSize int) *Session {
	now := s.now()
	id := ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
	sess := NewSession(id, userID, pageSize, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(now)
	s.sessions[id] = sess
	return sess
}

// Get returns the session with the given id and marks it as used
func (s *SessionStore) Get(id string) (*Session, error) {
	now := s.now()

	s.mu.Lock()
	s.evictLocked(now)
	sess, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		return nil, errors.NewNotFoundError("review session not found").WithDetail("sessionId", id)
	}
	sess.touch(now)
	return sess, nil
}

// Delete removes a session. Deleting an unknown session is a no-op.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) evictLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.idleSince()) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
