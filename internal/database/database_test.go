package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {

	db, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer db.Close()

	// Check if the 'leaderboard_snapshot' table was created
	var snapshotTableName string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='leaderboard_snapshot'").Scan(&snapshotTableName)
	require.NoError(t, err, "Querying for leaderboard_snapshot table should not produce an error")
	assert.Equal(t, "leaderboard_snapshot", snapshotTableName, "The 'leaderboard_snapshot' table should be created")
}
