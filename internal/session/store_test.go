package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/excalibur-labs/helios-chat/internal/model"
)

func TestStoreOwnership(t *testing.T) {
	st := NewStore(StoreConfig{})
	s, err := st.Create("alice")
	require.NoError(t, err)

	assert.Equal(t, model.SessionActive, s.State())

	got, err := st.Get(s.ID, "alice")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = st.Get(s.ID, "bob")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, st.Delete(s.ID, "bob"), ErrSessionNotFound)
	require.NoError(t, st.Delete(s.ID, "alice"))

	_, err = st.Get(s.ID, "alice")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreList(t *testing.T) {
	st := NewStore(StoreConfig{})
	a1, err := st.Create("alice")
	require.NoError(t, err)
	a2, err := st.Create("alice")
	require.NoError(t, err)
	_, err = st.Create("bob")
	require.NoError(t, err)

	list := st.List("alice")
	require.Len(t, list, 2)
	assert.ElementsMatch(t, []string{a1.ID, a2.ID}, []string{list[0].ID, list[1].ID})
	assert.Empty(t, st.List("carol"))
}

func TestSessionEndIsMonotonic(t *testing.T) {
	s := New("")
	assert.True(t, s.end())
	assert.False(t, s.end())
	assert.True(t, s.Ended())
}

func TestStoreCapacity(t *testing.T) {
	st := NewStore(StoreConfig{MaxSessions: 2})
	_, err := st.Create("alice")
	require.NoError(t, err)
	_, err = st.Create("alice")
	require.NoError(t, err)

	_, err = st.Create("bob")
	assert.ErrorIs(t, err, ErrStoreFull)
	assert.Equal(t, 2, st.Len())
}

func TestStoreEvictsExpiredEndedSessions(t *testing.T) {
	st := NewStore(StoreConfig{MaxSessions: 2, EndedTTL: time.Minute})
	ended, err := st.Create("alice")
	require.NoError(t, err)
	active, err := st.Create("alice")
	require.NoError(t, err)
	require.True(t, ended.end())

	// still inside the TTL, so the ended session holds its slot
	_, err = st.Create("bob")
	assert.ErrorIs(t, err, ErrStoreFull)

	st.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	fresh, err := st.Create("bob")
	require.NoError(t, err)

	_, err = st.Get(ended.ID, "alice")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = st.Get(active.ID, "alice")
	assert.NoError(t, err, "active sessions are never evicted")
	_, err = st.Get(fresh.ID, "bob")
	assert.NoError(t, err)
}
