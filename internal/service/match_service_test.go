package service

import (
	"context"
	"testing"
	"time"

	"github.com/AdamBeresnev/crease/internal/apperr"
	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/AdamBeresnev/crease/internal/db"
	"github.com/AdamBeresnev/crease/internal/store"
	"github.com/AdamBeresnev/crease/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.InitMemoryDB()
	require.NoError(t, err, "Failed to connect to in-memory DB")
	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")

	t.Cleanup(func() { database.Close() })
	return database
}

type fixture struct {
	db          *sqlx.DB
	tournaments *TournamentService
	matches     *MatchService
	scoring     *ScoringService

	tournament *cricket.Tournament
	group      *cricket.Group
	team1      *cricket.Team
	team2      *cricket.Team
}

func newFixture(t *testing.T, publisher Publisher) *fixture {
	t.Helper()
	ctx := context.Background()
	database := setupTestDB(t)

	tournamentStore := store.NewTournamentStore(database)
	teamStore := store.NewTeamStore(database)
	matchStore := store.NewMatchStore(database)

	f := &fixture{
		db:          database,
		tournaments: NewTournamentService(tournamentStore, teamStore),
		matches:     NewMatchService(matchStore, tournamentStore, teamStore),
		scoring:     NewScoringService(database, matchStore, publisher),
	}

	var err error
	f.tournament, err = f.tournaments.CreateTournament(ctx, TournamentInput{
		Name:          "Summer Cup",
		StartDate:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		OversPerMatch: 5,
	})
	require.NoError(t, err)

	f.group, err = f.tournaments.CreateGroup(ctx, GroupInput{TournamentID: f.tournament.ID, Name: "Group A"})
	require.NoError(t, err)

	f.team1, err = f.tournaments.CreateTeam(ctx, TeamInput{Name: "Lions", Captain: "Asha", ContactNumber: "555-0101", GroupID: &f.group.ID})
	require.NoError(t, err)
	f.team2, err = f.tournaments.CreateTeam(ctx, TeamInput{Name: "Eagles", Captain: "Ben", ContactNumber: "555-0102", GroupID: &f.group.ID})
	require.NoError(t, err)

	return f
}

func (f *fixture) newMatch(t *testing.T, overs int, battingFirst *uuid.UUID) *cricket.Match {
	t.Helper()
	match, err := f.matches.CreateMatch(context.Background(), MatchInput{
		TournamentID:   f.tournament.ID,
		Team1ID:        f.team1.ID,
		Team2ID:        f.team2.ID,
		BattingFirstID: battingFirst,
		Overs:          overs,
		MatchDate:      time.Date(2026, 6, 2, 14, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return match
}

func TestCreateMatch(t *testing.T) {
	f := newFixture(t, nil)

	match := f.newMatch(t, 5, nil)

	assert.Equal(t, cricket.StageLeague, match.Stage)
	assert.Equal(t, cricket.MatchScheduled, match.Status)
	assert.Equal(t, 1, match.CurrentInnings)
	assert.Equal(t, f.team1.ID, match.CurrentBattingTeamID)

	fetched, err := f.matches.GetMatch(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, match.ID, fetched.ID)
	assert.Equal(t, cricket.ResultUndecided, fetched.Result)
}

func TestCreateMatchBattingFirst(t *testing.T) {
	f := newFixture(t, nil)

	match := f.newMatch(t, 5, utils.Ptr(f.team2.ID))

	assert.Equal(t, f.team2.ID, match.CurrentBattingTeamID)
}

func TestCreateMatchValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	date := time.Date(2026, 6, 2, 14, 0, 0, 0, time.UTC)

	testCases := []struct {
		name string
		in   MatchInput
		kind apperr.Kind
	}{
		{
			name: "same team twice",
			in:   MatchInput{TournamentID: f.tournament.ID, Team1ID: f.team1.ID, Team2ID: f.team1.ID, Overs: 5, MatchDate: date},
			kind: apperr.KindInvalidInput,
		},
		{
			name: "too many overs",
			in:   MatchInput{TournamentID: f.tournament.ID, Team1ID: f.team1.ID, Team2ID: f.team2.ID, Overs: 20, MatchDate: date},
			kind: apperr.KindInvalidInput,
		},
		{
			name: "too few overs",
			in:   MatchInput{TournamentID: f.tournament.ID, Team1ID: f.team1.ID, Team2ID: f.team2.ID, Overs: 4, MatchDate: date},
			kind: apperr.KindInvalidInput,
		},
		{
			name: "unknown stage",
			in:   MatchInput{TournamentID: f.tournament.ID, Stage: "Quarter Final", Team1ID: f.team1.ID, Team2ID: f.team2.ID, Overs: 5, MatchDate: date},
			kind: apperr.KindInvalidInput,
		},
		{
			name: "batting first team not playing",
			in:   MatchInput{TournamentID: f.tournament.ID, Team1ID: f.team1.ID, Team2ID: f.team2.ID, BattingFirstID: utils.Ptr(uuid.New()), Overs: 5, MatchDate: date},
			kind: apperr.KindInvalidInput,
		},
		{
			name: "missing tournament",
			in:   MatchInput{TournamentID: uuid.New(), Team1ID: f.team1.ID, Team2ID: f.team2.ID, Overs: 5, MatchDate: date},
			kind: apperr.KindNotFound,
		},
		{
			name: "missing team",
			in:   MatchInput{TournamentID: f.tournament.ID, Team1ID: f.team1.ID, Team2ID: uuid.New(), Overs: 5, MatchDate: date},
			kind: apperr.KindNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.matches.CreateMatch(ctx, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
		})
	}
}

func TestGetMatchNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.matches.GetMatch(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetScoreboard(t *testing.T) {
	f := newFixture(t, nil)
	match := f.newMatch(t, 5, nil)

	board, err := f.matches.GetScoreboard(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lions", board.Team1.Name)
	assert.Equal(t, "Eagles", board.Team2.Name)
}

func TestListMatches(t *testing.T) {
	f := newFixture(t, nil)
	f.newMatch(t, 5, nil)
	f.newMatch(t, 6, nil)

	matches, err := f.matches.ListMatches(context.Background(), &f.tournament.ID)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	none, err := f.matches.ListMatches(context.Background(), utils.Ptr(uuid.New()))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateMatch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	match := f.newMatch(t, 5, nil)

	in := MatchInput{
		TournamentID:   f.tournament.ID,
		Team1ID:        f.team1.ID,
		Team2ID:        f.team2.ID,
		BattingFirstID: &f.team2.ID,
		Overs:          8,
		MatchDate:      time.Date(2026, 6, 9, 14, 0, 0, 0, time.UTC),
	}
	updated, err := f.matches.UpdateMatch(ctx, match.ID, in)
	require.NoError(t, err)
	assert.Equal(t, cricket.StageLeague, updated.Stage)
	assert.Equal(t, 8, updated.Overs)
	assert.Equal(t, f.team2.ID, updated.CurrentBattingTeamID)
	assert.Equal(t, match.Version+1, updated.Version)

	stored, err := f.matches.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Overs)
	assert.Equal(t, f.team2.ID, stored.CurrentBattingTeamID)

	_, err = f.matches.UpdateMatch(ctx, uuid.New(), in)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	in.Team2ID = in.Team1ID
	_, err = f.matches.UpdateMatch(ctx, match.ID, in)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = f.scoring.RecordBall(ctx, match.ID, cricket.BallEvent{Runs: 1})
	require.NoError(t, err)
	in.Team2ID = f.team2.ID
	_, err = f.matches.UpdateMatch(ctx, match.ID, in)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDeleteMatch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	match := f.newMatch(t, 5, nil)
	_, err := f.scoring.RecordBall(ctx, match.ID, cricket.BallEvent{Runs: 4})
	require.NoError(t, err)

	require.NoError(t, f.matches.DeleteMatch(ctx, match.ID))

	_, err = f.matches.GetMatch(ctx, match.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	balls, err := store.NewMatchStore(f.db).ListBalls(ctx, match.ID)
	require.NoError(t, err)
	assert.Empty(t, balls)
	assert.ErrorIs(t, f.matches.DeleteMatch(ctx, match.ID), apperr.ErrNotFound)
}
