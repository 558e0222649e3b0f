package service

import (
	"context"
	"sync"
	"testing"

	"github.com/AdamBeresnev/crease/internal/apperr"
	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	matches []cricket.Match
}

func (p *recordingPublisher) Publish(match *cricket.Match) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.matches = append(p.matches, *match)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.matches)
}

func bowl(t *testing.T, f *fixture, matchID uuid.UUID, ev cricket.BallEvent, times int) *cricket.Match {
	t.Helper()
	var match *cricket.Match
	for i := 0; i < times; i++ {
		var err error
		match, err = f.scoring.RecordBall(context.Background(), matchID, ev)
		require.NoError(t, err)
	}
	return match
}

func TestRecordBall(t *testing.T) {
	publisher := &recordingPublisher{}
	f := newFixture(t, publisher)
	match := f.newMatch(t, 5, nil)

	updated := bowl(t, f, match.ID, cricket.BallEvent{Runs: 4}, 1)

	assert.Equal(t, cricket.MatchInProgress, updated.Status)
	assert.Equal(t, 4, updated.Team1Score)
	assert.Equal(t, "0.1", updated.Team1Overs.String())
	assert.Equal(t, 1, publisher.count())

	stored, err := f.matches.GetMatch(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Team1Score, stored.Team1Score)
	assert.Equal(t, updated.Version, stored.Version)

	balls, err := f.scoring.ListBalls(context.Background(), match.ID)
	require.NoError(t, err)
	require.Len(t, balls, 1)
	assert.Equal(t, 1, balls[0].Sequence)
	assert.Equal(t, f.team1.ID, balls[0].BattingTeamID)
}

func TestRecordBallWideDoesNotCountTowardOver(t *testing.T) {
	f := newFixture(t, nil)
	match := f.newMatch(t, 5, nil)

	updated := bowl(t, f, match.ID, cricket.BallEvent{Runs: 1, Extras: cricket.ExtraWide}, 1)

	assert.Equal(t, 1, updated.Team1Score)
	assert.Equal(t, cricket.OverCount(0), updated.Team1Overs)
}

func TestRecordBallRejectsInvalidInput(t *testing.T) {
	publisher := &recordingPublisher{}
	f := newFixture(t, publisher)
	match := f.newMatch(t, 5, nil)
	ctx := context.Background()

	_, err := f.scoring.RecordBall(ctx, match.ID, cricket.BallEvent{Runs: -1})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = f.scoring.RecordBall(ctx, match.ID, cricket.BallEvent{Runs: 1, Extras: "beamer"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	stored, err := f.matches.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, cricket.MatchScheduled, stored.Status)
	assert.Equal(t, 0, publisher.count())
}

func TestRecordBallUnknownMatch(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.scoring.RecordBall(context.Background(), uuid.New(), cricket.BallEvent{Runs: 1})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFullMatchToCompletion(t *testing.T) {
	f := newFixture(t, nil)
	match := f.newMatch(t, 5, nil)

	afterFirst := bowl(t, f, match.ID, cricket.BallEvent{Runs: 2}, 30)
	assert.Equal(t, 2, afterFirst.CurrentInnings)
	assert.Equal(t, f.team2.ID, afterFirst.CurrentBattingTeamID)
	assert.Equal(t, "5.0", afterFirst.Team1Overs.String())

	final := bowl(t, f, match.ID, cricket.BallEvent{Runs: 1}, 30)
	assert.Equal(t, cricket.MatchCompleted, final.Status)
	assert.Equal(t, cricket.ResultTeam1Win, final.Result)
	require.NotNil(t, final.WinnerID)
	assert.Equal(t, f.team1.ID, *final.WinnerID)

	_, err := f.scoring.RecordBall(context.Background(), match.ID, cricket.BallEvent{Runs: 1})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = f.scoring.UndoLastBall(context.Background(), match.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAllOutEndsInnings(t *testing.T) {
	f := newFixture(t, nil)
	match := f.newMatch(t, 5, nil)

	updated := bowl(t, f, match.ID, cricket.BallEvent{IsWicket: true}, 10)

	assert.Equal(t, 10, updated.Team1Wickets)
	assert.Equal(t, 2, updated.CurrentInnings)
	assert.Equal(t, f.team2.ID, updated.CurrentBattingTeamID)
}

func TestUndoLastBall(t *testing.T) {
	publisher := &recordingPublisher{}
	f := newFixture(t, publisher)
	match := f.newMatch(t, 5, nil)
	ctx := context.Background()

	bowl(t, f, match.ID, cricket.BallEvent{Runs: 4}, 1)
	bowl(t, f, match.ID, cricket.BallEvent{Runs: 6, IsWicket: true}, 1)

	undone, err := f.scoring.UndoLastBall(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, undone.Team1Score)
	assert.Equal(t, 0, undone.Team1Wickets)
	assert.Equal(t, "0.1", undone.Team1Overs.String())
	assert.Equal(t, cricket.MatchInProgress, undone.Status)
	assert.Equal(t, 3, publisher.count())

	balls, err := f.scoring.ListBalls(ctx, match.ID)
	require.NoError(t, err)
	assert.Len(t, balls, 1)

	// The next ball takes the freed sequence number.
	bowl(t, f, match.ID, cricket.BallEvent{Runs: 1}, 1)
	balls, err = f.scoring.ListBalls(ctx, match.ID)
	require.NoError(t, err)
	require.Len(t, balls, 2)
	assert.Equal(t, 2, balls[1].Sequence)
}

func TestUndoAcrossInningsBreak(t *testing.T) {
	f := newFixture(t, nil)
	match := f.newMatch(t, 5, nil)

	bowl(t, f, match.ID, cricket.BallEvent{Runs: 1}, 30)

	undone, err := f.scoring.UndoLastBall(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, undone.CurrentInnings)
	assert.Equal(t, f.team1.ID, undone.CurrentBattingTeamID)
	assert.Equal(t, 29, undone.Team1Score)
	assert.Equal(t, "4.5", undone.Team1Overs.String())
}

func TestUndoWithNoBalls(t *testing.T) {
	publisher := &recordingPublisher{}
	f := newFixture(t, publisher)
	match := f.newMatch(t, 5, nil)

	same, err := f.scoring.UndoLastBall(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, cricket.MatchScheduled, same.Status)
	assert.Equal(t, match.Version, same.Version)
	assert.Equal(t, 0, publisher.count())
}

func TestUndoFirstBallReturnsToScheduled(t *testing.T) {
	f := newFixture(t, nil)
	match := f.newMatch(t, 5, nil)

	bowl(t, f, match.ID, cricket.BallEvent{Runs: 2}, 1)
	undone, err := f.scoring.UndoLastBall(context.Background(), match.ID)
	require.NoError(t, err)

	assert.Equal(t, cricket.MatchScheduled, undone.Status)
	assert.Equal(t, 0, undone.Team1Score)
}

func tiedMatch(t *testing.T, f *fixture) *cricket.Match {
	t.Helper()
	match := f.newMatch(t, 5, nil)
	bowl(t, f, match.ID, cricket.BallEvent{Runs: 1}, 30)
	final := bowl(t, f, match.ID, cricket.BallEvent{Runs: 1}, 30)
	require.Equal(t, cricket.ResultTie, final.Result)
	return final
}

func TestResolveSuperOver(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	match := tiedMatch(t, f)

	superOver, updated, err := f.scoring.ResolveSuperOver(ctx, match.ID, cricket.SuperOverInput{Team1Runs: 8, Team1Wickets: 1, Team2Runs: 12, Team2Wickets: 0})
	require.NoError(t, err)

	require.NotNil(t, superOver.WinnerID)
	assert.Equal(t, f.team2.ID, *superOver.WinnerID)
	assert.Equal(t, cricket.ResultTeam2Win, updated.Result)
	assert.Equal(t, cricket.MatchCompleted, updated.Status)

	stored, err := f.scoring.GetSuperOver(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, superOver.ID, stored.ID)

	_, _, err = f.scoring.ResolveSuperOver(ctx, match.ID, cricket.SuperOverInput{Team1Runs: 1})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestResolveSuperOverTiedAgain(t *testing.T) {
	f := newFixture(t, nil)
	match := tiedMatch(t, f)

	superOver, updated, err := f.scoring.ResolveSuperOver(context.Background(), match.ID, cricket.SuperOverInput{Team1Runs: 7, Team2Runs: 7})
	require.NoError(t, err)

	assert.Nil(t, superOver.WinnerID)
	assert.Equal(t, cricket.ResultTie, updated.Result)
	assert.Nil(t, updated.WinnerID)
}

func TestResolveSuperOverRejections(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	running := f.newMatch(t, 5, nil)

	_, _, err := f.scoring.ResolveSuperOver(ctx, running.ID, cricket.SuperOverInput{Team1Runs: 6})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, _, err = f.scoring.ResolveSuperOver(ctx, running.ID, cricket.SuperOverInput{Team1Wickets: 3})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, _, err = f.scoring.ResolveSuperOver(ctx, running.ID, cricket.SuperOverInput{Team2Runs: -1})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, _, err = f.scoring.ResolveSuperOver(ctx, uuid.New(), cricket.SuperOverInput{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.scoring.GetSuperOver(ctx, running.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAbandon(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	match := f.newMatch(t, 5, nil)
	bowl(t, f, match.ID, cricket.BallEvent{Runs: 3}, 2)

	abandoned, err := f.scoring.Abandon(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, cricket.MatchAbandoned, abandoned.Status)
	assert.Equal(t, cricket.ResultAbandoned, abandoned.Result)

	_, err = f.scoring.Abandon(ctx, match.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = f.scoring.RecordBall(ctx, match.ID, cricket.BallEvent{Runs: 1})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestConcurrentRecordBall(t *testing.T) {
	f := newFixture(t, nil)
	match := f.newMatch(t, 5, nil)

	const deliveries = 12
	var wg sync.WaitGroup
	errs := make(chan error, deliveries)
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.scoring.RecordBall(context.Background(), match.ID, cricket.BallEvent{Runs: 1})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := f.matches.GetMatch(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, deliveries, stored.Team1Score)
	assert.Equal(t, "2.0", stored.Team1Overs.String())
	assert.Equal(t, deliveries, stored.Version)
	assert.Equal(t, 0, f.scoring.locks.size())
}
