package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	database, err := InitMemoryDB()
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database.DB))
	// A second run has nothing left to apply.
	require.NoError(t, RunMigrations(database.DB))

	var tables []string
	err = database.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	require.NoError(t, err)

	for _, want := range []string{"balls", "matches", "sessions", "super_overs", "teams", "tournament_groups", "tournaments", "visitors"} {
		assert.Contains(t, tables, want)
	}

	var indexes []string
	err = database.Select(&indexes, "SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'matches'")
	require.NoError(t, err)
	assert.Contains(t, indexes, "idx_matches_knockout_fixture")
	assert.Contains(t, indexes, "idx_matches_single_final")
}

func TestForeignKeysEnforced(t *testing.T) {
	database, err := InitMemoryDB()
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, RunMigrations(database.DB))

	_, err = database.Exec(`INSERT INTO tournament_groups (id, tournament_id, name) VALUES ('g1', 'missing', 'Group A')`)
	assert.Error(t, err)
}
