package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/AdamBeresnev/crease/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMatch(t *testing.T, db *sqlx.DB) *cricket.Match {
	t.Helper()
	ctx := context.Background()

	tournament := createTestTournament(t, NewTournamentStore(db))
	teams := NewTeamStore(db)
	team1 := &cricket.Team{ID: uuid.New(), Name: "Lions", Captain: "Asha", ContactNumber: "555-0101", CreatedAt: time.Now().UTC()}
	team2 := &cricket.Team{ID: uuid.New(), Name: "Eagles", Captain: "Ben", ContactNumber: "555-0102", CreatedAt: time.Now().UTC()}
	require.NoError(t, teams.CreateTeam(ctx, team1))
	require.NoError(t, teams.CreateTeam(ctx, team2))

	match := &cricket.Match{
		ID:                   uuid.New(),
		TournamentID:         tournament.ID,
		Stage:                cricket.StageLeague,
		Team1ID:              team1.ID,
		Team2ID:              team2.ID,
		Overs:                5,
		MatchDate:            time.Date(2026, 6, 2, 14, 0, 0, 0, time.UTC),
		Status:               cricket.MatchScheduled,
		CurrentInnings:       1,
		CurrentBattingTeamID: team1.ID,
		CreatedAt:            time.Now().UTC(),
	}
	require.NoError(t, NewMatchStore(db).CreateMatch(ctx, match))
	return match
}

func TestCreateMatch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	match := createTestMatch(t, db)

	fetched, err := NewMatchStore(db).GetMatch(context.Background(), match.ID)
	require.NoError(t, err)

	assert.Equal(t, match.Team1ID, fetched.Team1ID)
	assert.Equal(t, match.Team2ID, fetched.Team2ID)
	assert.Equal(t, cricket.StageLeague, fetched.Stage)
	assert.Equal(t, cricket.MatchScheduled, fetched.Status)
	assert.Equal(t, cricket.ResultUndecided, fetched.Result)
	assert.Nil(t, fetched.WinnerID)
	assert.Nil(t, fetched.BattingFirstID)
	assert.Equal(t, 0, fetched.Version)
	assert.True(t, match.MatchDate.Equal(fetched.MatchDate))
}

func TestGetMatchNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := NewMatchStore(db).GetMatch(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestUpdateMatchStateTx(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMatchStore(db)
	match := createTestMatch(t, db)

	match.Status = cricket.MatchCompleted
	match.Result = cricket.ResultTeam1Win
	match.WinnerID = utils.Ptr(match.Team1ID)
	match.Team1Score, match.Team1Wickets, match.Team1Overs = 42, 3, 30
	match.Team2Score, match.Team2Wickets, match.Team2Overs = 40, 10, 27
	match.CurrentInnings = 2
	match.CurrentBattingTeamID = match.Team2ID

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.UpdateMatchStateTx(ctx, tx, match))
	require.NoError(t, tx.Commit())
	assert.Equal(t, 1, match.Version)

	fetched, err := store.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, cricket.ResultTeam1Win, fetched.Result)
	require.NotNil(t, fetched.WinnerID)
	assert.Equal(t, match.Team1ID, *fetched.WinnerID)
	assert.Equal(t, cricket.OversOf(4, 3), fetched.Team2Overs)
	assert.Equal(t, 1, fetched.Version)
}

func TestUpdateMatchStateTxRejectsStaleVersion(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMatchStore(db)
	match := createTestMatch(t, db)
	stale := *match

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	match.Team1Score = 4
	require.NoError(t, store.UpdateMatchStateTx(ctx, tx, match))
	require.NoError(t, tx.Commit())

	tx, err = db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	stale.Team1Score = 6
	err = store.UpdateMatchStateTx(ctx, tx, &stale)
	assert.ErrorIs(t, err, ErrStaleMatch)
}

func TestBallLog(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMatchStore(db)
	match := createTestMatch(t, db)

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	var last cricket.Ball
	for i, ev := range []cricket.BallEvent{{Runs: 4}, {Runs: 1, Extras: cricket.ExtraWide}, {IsWicket: true}} {
		last = cricket.Ball{
			ID:            uuid.New(),
			MatchID:       match.ID,
			Sequence:      i + 1,
			Innings:       1,
			BattingTeamID: match.Team1ID,
			Runs:          ev.Runs,
			Extras:        ev.Extras,
			IsWicket:      ev.IsWicket,
			CreatedAt:     time.Now().UTC(),
		}
		require.NoError(t, store.CreateBallTx(ctx, tx, &last))
	}
	count, err := store.CountBallsTx(ctx, tx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Sequence numbers are unique per match.
	dup := last
	dup.ID = uuid.New()
	assert.Error(t, store.CreateBallTx(ctx, tx, &dup))

	require.NoError(t, store.DeleteBallTx(ctx, tx, last.ID))
	require.NoError(t, tx.Commit())

	balls, err := store.ListBalls(ctx, match.ID)
	require.NoError(t, err)
	require.Len(t, balls, 2)
	assert.Equal(t, 1, balls[0].Sequence)
	assert.Equal(t, 4, balls[0].Runs)
	assert.Equal(t, cricket.ExtraWide, balls[1].Extras)
	assert.False(t, balls[1].IsWicket)
}

func TestSuperOver(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMatchStore(db)
	match := createTestMatch(t, db)

	_, err := store.GetSuperOver(ctx, match.ID)
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	superOver := &cricket.SuperOver{
		ID:           uuid.New(),
		MatchID:      match.ID,
		Team1Runs:    12,
		Team1Wickets: 1,
		Team2Runs:    8,
		Team2Wickets: 2,
		WinnerID:     utils.Ptr(match.Team1ID),
		CreatedAt:    time.Now().UTC(),
	}

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	exists, err := store.HasSuperOverTx(ctx, tx, match.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, store.CreateSuperOverTx(ctx, tx, superOver))
	exists, err = store.HasSuperOverTx(ctx, tx, match.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, tx.Commit())

	fetched, err := store.GetSuperOver(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, fetched.Team1Runs)
	assert.Equal(t, 2, fetched.Team2Wickets)
	require.NotNil(t, fetched.WinnerID)
	assert.Equal(t, match.Team1ID, *fetched.WinnerID)
}

func TestListMatches(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMatchStore(db)
	first := createTestMatch(t, db)
	second := createTestMatch(t, db)

	all, err := store.ListMatches(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := store.ListMatches(ctx, utils.Ptr(second.TournamentID))
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, second.ID, scoped[0].ID)

	recent, err := store.ListRecentMatches(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	completed, err := store.ListCompletedMatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, completed)

	count, err := store.CountMatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateMatchesTxRejectsSecondFinal(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()
	store := NewMatchStore(db)
	league := createTestMatch(t, db)

	final := *league
	final.ID = uuid.New()
	final.Stage = cricket.StageFinal

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateMatchesTx(ctx, tx, []cricket.Match{final}))
	require.NoError(t, tx.Commit())

	again := final
	again.ID = uuid.New()
	again.Team1ID, again.Team2ID = final.Team2ID, final.Team1ID
	err = store.CreateMatch(ctx, &again)
	assert.ErrorIs(t, err, ErrDuplicate)

	// League fixtures may repeat.
	rematch := *league
	rematch.ID = uuid.New()
	assert.NoError(t, store.CreateMatch(ctx, &rematch))
}
