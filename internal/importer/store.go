package importer

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore keeps import sessions in memory. Sessions idle for longer than
// the TTL are dropped whenever the store is accessed.
type SessionStore struct {
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (st *SessionStore) cleanup() {
	if st.ttl <= 0 {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.now().Add(-st.ttl)
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
		}
	}
}

func (st *SessionStore) Put(s *Session) {
	st.cleanup()

	st.mu.Lock()
	defer st.mu.Unlock()

	st.sessions[s.ID] = s
}

func (st *SessionStore) Get(id uuid.UUID) (*Session, bool) {
	st.cleanup()

	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]

	return s, ok
}

func (st *SessionStore) Delete(id uuid.UUID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, ok := st.sessions[id]
	delete(st.sessions, id)

	return ok
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return len(st.sessions)
}
