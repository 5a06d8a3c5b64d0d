package trigger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "triggers.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutAndDue(t *testing.T) {
	store := openStore(t)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Put(Trigger{ID: 100, UserID: "user-1", Body: "past", FireAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Put(Trigger{ID: 101, UserID: "user-1", Body: "future", FireAt: now.Add(time.Hour)}))

	due, err := store.Due(now, 50)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 100, due[0].ID)
	assert.Equal(t, "past", due[0].Body)
}

func TestPutReplacesSameID(t *testing.T) {
	store := openStore(t)
	at := time.Now().Add(time.Hour)

	require.NoError(t, store.Put(Trigger{ID: 7, Body: "first", FireAt: at}))
	require.NoError(t, store.Put(Trigger{ID: 7, Body: "second", FireAt: at.Add(time.Hour)}))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	due, err := store.Due(at.Add(2*time.Hour), 50)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "second", due[0].Body)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Put(Trigger{ID: 1, FireAt: time.Now()}))
	require.NoError(t, store.Delete(1))
	require.NoError(t, store.Delete(1))
	require.NoError(t, store.Delete(999))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestDueRespectsLimit(t *testing.T) {
	store := openStore(t)
	now := time.Now()

	for id := 1; id <= 10; id++ {
		require.NoError(t, store.Put(Trigger{ID: id, FireAt: now.Add(-time.Minute)}))
	}

	due, err := store.Due(now, 3)
	require.NoError(t, err)
	assert.Len(t, due, 3)
}
