package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore_EvictsIdleSessions(t *testing.T) {
	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	st := NewSessionStore(time.Hour)
	st.now = now

	old := NewSession(nil, Options{Now: now})
	st.Put(old)

	clock = clock.Add(45 * time.Minute)

	fresh := NewSession(nil, Options{Now: now})
	st.Put(fresh)

	clock = clock.Add(30 * time.Minute)

	_, ok := st.Get(old.ID)
	assert.False(t, ok, "idle past the ttl")

	got, ok := st.Get(fresh.ID)
	assert.True(t, ok)
	assert.Same(t, fresh, got)
	assert.Equal(t, 1, st.Len())
}

func TestSessionStore_ActivityKeepsSessionAlive(t *testing.T) {
	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	st := NewSessionStore(time.Hour)
	st.now = now

	s := NewSession(nil, Options{Now: now})
	st.Put(s)

	clock = clock.Add(50 * time.Minute)

	s.mu.Lock()
	s.touch()
	s.mu.Unlock()

	clock = clock.Add(50 * time.Minute)

	_, ok := st.Get(s.ID)
	assert.True(t, ok)
}

func TestSessionStore_Delete(t *testing.T) {
	st := NewSessionStore(0)
	s := NewSession(nil, Options{})
	st.Put(s)

	assert.True(t, st.Delete(s.ID))
	assert.False(t, st.Delete(s.ID))
	assert.Equal(t, 0, st.Len())
}
