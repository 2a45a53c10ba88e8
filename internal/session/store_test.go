package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	sess := &Session{ID: "s1", LastActivity: time.Now()}
	store.Put(sess.ID, sess)

	got, ok := store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, sess, got)
	assert.Equal(t, 1, store.Len())

	store.Delete("s1")
	_, ok = store.Get("s1")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_SweepDropsIdleSessions(t *testing.T) {
	store := NewMemoryStore()

	store.Put("stale", &Session{ID: "stale", LastActivity: time.Now().Add(-1 * time.Hour)})
	store.Put("live", &Session{ID: "live", LastActivity: time.Now()})

	store.sweep(15 * time.Minute)

	_, ok := store.Get("stale")
	assert.False(t, ok)
	_, ok = store.Get("live")
	assert.True(t, ok)
}
