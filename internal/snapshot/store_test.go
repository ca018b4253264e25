package snapshot

import (
	"os"
	"testing"

	"github.com/playpal-app/playpal-ranking/internal/database"
	"github.com/playpal-app/playpal-ranking/internal/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary SQLite database for testing.
func setupTestDB(t *testing.T) (ranking.SnapshotStore, func()) {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "testdb_snapshot_*.db")
	require.NoError(t, err)

	db, err := database.InitDB(tmpfile.Name(), "", "")
	require.NoError(t, err)

	store := New(db)

	teardown := func() {
		db.Close()
		os.Remove(tmpfile.Name())
	}

	return store, teardown
}

func sampleEntries() []ranking.Entry {
	return []ranking.Entry{
		{Rank: 1, ParticipantID: "p1", Nickname: "Ping", Avatar: "https://cdn/p1.png", TotalBattles: 10, Wins: 8, Losses: 2, WinRate: 80, Score: 0.62},
		{Rank: 2, ParticipantID: "p2", Nickname: "Pong", TotalBattles: 4, Wins: 1, Losses: 3, WinRate: 25, Score: 0.199},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	// 1. Nothing saved yet
	entries, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)

	// 2. Round trip
	require.NoError(t, store.Save(sampleEntries()))
	entries, err = store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, sampleEntries(), entries)

	// 3. Save replaces, never appends
	require.NoError(t, store.Save(sampleEntries()[:1]))
	entries, err = store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "p1", entries[0].ParticipantID)
}

func TestLoadOrderedByRank(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	reversed := sampleEntries()
	reversed[0], reversed[1] = reversed[1], reversed[0]
	require.NoError(t, store.Save(reversed))

	entries, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestClear(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.Save(sampleEntries()))
	require.NoError(t, store.Clear())

	entries, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveEmptyClearsSnapshot(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.Save(sampleEntries()))
	require.NoError(t, store.Save(nil))

	entries, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
