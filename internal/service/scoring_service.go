package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/AdamBeresnev/crease/internal/apperr"
	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/AdamBeresnev/crease/internal/scoring"
	"github.com/AdamBeresnev/crease/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Publisher receives every match state that was committed by a scoring call.
type Publisher interface {
	Publish(match *cricket.Match)
}

type ScoringService struct {
	db        *sqlx.DB
	store     *store.MatchStore
	publisher Publisher
	locks     *matchLocks
}

// NewScoringService wires the scoring service. publisher may be nil.
func NewScoringService(db *sqlx.DB, store *store.MatchStore, publisher Publisher) *ScoringService {
	return &ScoringService{db: db, store: store, publisher: publisher, locks: newMatchLocks()}
}

func (s *ScoringService) publish(match *cricket.Match) {
	if s.publisher != nil {
		s.publisher.Publish(match)
	}
}

// RecordBall applies one delivery to the match and appends it to the ball log.
func (s *ScoringService) RecordBall(ctx context.Context, matchID uuid.UUID, ev cricket.BallEvent) (*cricket.Match, error) {
	if err := scoring.ValidateBall(ev); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(matchID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, matchID)
	if err != nil {
		return nil, lookupError(err, "match", matchID)
	}

	next, err := scoring.Apply(*match, ev)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountBallsTx(ctx, tx, matchID)
	if err != nil {
		return nil, apperr.Internal("failed to count deliveries", err)
	}
	ball := cricket.Ball{
		ID:            uuid.New(),
		MatchID:       matchID,
		Sequence:      count + 1,
		Innings:       match.CurrentInnings,
		BattingTeamID: match.CurrentBattingTeamID,
		Runs:          ev.Runs,
		Extras:        ev.Extras,
		IsWicket:      ev.IsWicket,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.CreateBallTx(ctx, tx, &ball); err != nil {
		return nil, apperr.Internal("failed to record delivery", err)
	}

	if err := s.store.UpdateMatchStateTx(ctx, tx, &next); err != nil {
		return nil, writeError("failed to update match", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit delivery", err)
	}

	s.publish(&next)
	return &next, nil
}

// UndoLastBall drops the most recent delivery and rebuilds the score from the
// rest of the log. A match with no deliveries is returned as is.
func (s *ScoringService) UndoLastBall(ctx context.Context, matchID uuid.UUID) (*cricket.Match, error) {
	unlock := s.locks.lock(matchID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, matchID)
	if err != nil {
		return nil, lookupError(err, "match", matchID)
	}
	if match.Status.Finished() {
		return nil, apperr.Conflict("match is %s, its result can no longer be undone", match.Status)
	}

	balls, err := s.store.ListBallsTx(ctx, tx, matchID)
	if err != nil {
		return nil, apperr.Internal("failed to load deliveries", err)
	}
	if len(balls) == 0 {
		return match, nil
	}

	last := balls[len(balls)-1]
	next, err := scoring.Replay(*match, balls[:len(balls)-1])
	if err != nil {
		return nil, apperr.Internal("failed to rebuild match from its deliveries", err)
	}

	if err := s.store.DeleteBallTx(ctx, tx, last.ID); err != nil {
		return nil, apperr.Internal("failed to remove delivery", err)
	}
	if err := s.store.UpdateMatchStateTx(ctx, tx, &next); err != nil {
		return nil, writeError("failed to update match", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit undo", err)
	}

	s.publish(&next)
	return &next, nil
}

func validateSuperOver(in cricket.SuperOverInput) error {
	for _, w := range []int{in.Team1Wickets, in.Team2Wickets} {
		if w < 0 || w > cricket.MaxSuperOverWickets {
			return apperr.InvalidInput("super over wickets must be between 0 and %d, got %d", cricket.MaxSuperOverWickets, w)
		}
	}
	if in.Team1Runs < 0 || in.Team2Runs < 0 {
		return apperr.InvalidInput("super over runs must not be negative")
	}
	return nil
}

// ResolveSuperOver records the Super Over that settles a tied match.
func (s *ScoringService) ResolveSuperOver(ctx context.Context, matchID uuid.UUID, in cricket.SuperOverInput) (*cricket.SuperOver, *cricket.Match, error) {
	if err := validateSuperOver(in); err != nil {
		return nil, nil, err
	}

	unlock := s.locks.lock(matchID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, matchID)
	if err != nil {
		return nil, nil, lookupError(err, "match", matchID)
	}

	exists, err := s.store.HasSuperOverTx(ctx, tx, matchID)
	if err != nil {
		return nil, nil, apperr.Internal("failed to check for super over", err)
	}
	if exists {
		return nil, nil, apperr.Conflict("match %s already has a super over", matchID)
	}

	superOver, next, err := scoring.DecideSuperOver(*match, in)
	if err != nil {
		return nil, nil, err
	}
	superOver.ID = uuid.New()
	superOver.CreatedAt = time.Now().UTC()

	if err := s.store.CreateSuperOverTx(ctx, tx, &superOver); err != nil {
		return nil, nil, apperr.Internal("failed to create super over", err)
	}
	if err := s.store.UpdateMatchStateTx(ctx, tx, &next); err != nil {
		return nil, nil, writeError("failed to update match", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, apperr.Internal("failed to commit super over", err)
	}

	s.publish(&next)
	return &superOver, &next, nil
}

// Abandon ends a scheduled or running match without a result.
func (s *ScoringService) Abandon(ctx context.Context, matchID uuid.UUID) (*cricket.Match, error) {
	unlock := s.locks.lock(matchID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, matchID)
	if err != nil {
		return nil, lookupError(err, "match", matchID)
	}

	next, err := scoring.Abandon(*match)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateMatchStateTx(ctx, tx, &next); err != nil {
		return nil, writeError("failed to update match", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit abandon", err)
	}

	s.publish(&next)
	return &next, nil
}

func (s *ScoringService) GetSuperOver(ctx context.Context, matchID uuid.UUID) (*cricket.SuperOver, error) {
	superOver, err := s.store.GetSuperOver(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("match %s has no super over", matchID)
		}
		return nil, apperr.Internal("failed to get super over", err)
	}
	return superOver, nil
}

func (s *ScoringService) ListBalls(ctx context.Context, matchID uuid.UUID) ([]cricket.Ball, error) {
	if _, err := s.store.GetMatch(ctx, matchID); err != nil {
		return nil, lookupError(err, "match", matchID)
	}
	balls, err := s.store.ListBalls(ctx, matchID)
	if err != nil {
		return nil, apperr.Internal("failed to list deliveries", err)
	}
	return balls, nil
}
