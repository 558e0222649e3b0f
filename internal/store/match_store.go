package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrStaleMatch means the match row changed since it was read.
var ErrStaleMatch = errors.New("match was modified concurrently")

type MatchStore struct {
	db *sqlx.DB
}

func NewMatchStore(db *sqlx.DB) *MatchStore {
	return &MatchStore{db: db}
}

const (
	createMatchQuery = `
		INSERT INTO matches (id, tournament_id, stage, team1_id, team2_id, toss_winner_id, batting_first_id,
			overs, match_date, status, current_innings, current_batting_team_id, created_at)
		VALUES (:id, :tournament_id, :stage, :team1_id, :team2_id, :toss_winner_id, :batting_first_id,
			:overs, :match_date, :status, :current_innings, :current_batting_team_id, :created_at)
	`
	updateMatchStateQuery = `
		UPDATE matches SET
			status = :status,
			result = :result,
			winner_id = :winner_id,
			team1_score = :team1_score,
			team1_wickets = :team1_wickets,
			team1_balls = :team1_balls,
			team2_score = :team2_score,
			team2_wickets = :team2_wickets,
			team2_balls = :team2_balls,
			current_innings = :current_innings,
			current_batting_team_id = :current_batting_team_id,
			version = version + 1
		WHERE id = :id AND version = :version
	`
	updateMatchDetailsQuery = `
		UPDATE matches SET
			tournament_id = :tournament_id,
			stage = :stage,
			team1_id = :team1_id,
			team2_id = :team2_id,
			toss_winner_id = :toss_winner_id,
			batting_first_id = :batting_first_id,
			overs = :overs,
			match_date = :match_date,
			current_batting_team_id = :current_batting_team_id,
			version = version + 1
		WHERE id = :id AND version = :version AND status = 'scheduled'
	`
	createBallQuery = `
		INSERT INTO balls (id, match_id, sequence, innings, batting_team_id, runs, extras, is_wicket, created_at)
		VALUES (:id, :match_id, :sequence, :innings, :batting_team_id, :runs, :extras, :is_wicket, :created_at)
	`
	createSuperOverQuery = `
		INSERT INTO super_overs (id, match_id, team1_runs, team1_wickets, team2_runs, team2_wickets, winner_id, created_at)
		VALUES (:id, :match_id, :team1_runs, :team1_wickets, :team2_runs, :team2_wickets, :winner_id, :created_at)
	`
)

func (s *MatchStore) CreateMatch(ctx context.Context, match *cricket.Match) error {
	_, err := s.db.NamedExecContext(ctx, createMatchQuery, match)
	return classify(err)
}

func (s *MatchStore) CreateMatchesTx(ctx context.Context, tx *sqlx.Tx, matches []cricket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, createMatchQuery, matches)
	return classify(err)
}

func (s *MatchStore) GetMatch(ctx context.Context, id uuid.UUID) (*cricket.Match, error) {
	var match cricket.Match
	if err := s.db.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *MatchStore) GetMatchTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*cricket.Match, error) {
	var match cricket.Match
	if err := tx.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &match, nil
}

// ListMatches returns matches newest first, optionally limited to one tournament.
func (s *MatchStore) ListMatches(ctx context.Context, tournamentID *uuid.UUID) ([]cricket.Match, error) {
	matches := []cricket.Match{}
	var err error
	if tournamentID != nil {
		err = s.db.SelectContext(ctx, &matches, "SELECT * FROM matches WHERE tournament_id = ? ORDER BY match_date DESC", *tournamentID)
	} else {
		err = s.db.SelectContext(ctx, &matches, "SELECT * FROM matches ORDER BY match_date DESC")
	}
	return matches, err
}

func (s *MatchStore) ListMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]cricket.Match, error) {
	matches := []cricket.Match{}
	err := tx.SelectContext(ctx, &matches, "SELECT * FROM matches WHERE tournament_id = ? ORDER BY match_date DESC", tournamentID)
	return matches, err
}

func (s *MatchStore) ListRecentMatches(ctx context.Context, limit int) ([]cricket.Match, error) {
	matches := []cricket.Match{}
	err := s.db.SelectContext(ctx, &matches, "SELECT * FROM matches ORDER BY match_date DESC LIMIT ?", limit)
	return matches, err
}

func (s *MatchStore) ListCompletedMatches(ctx context.Context) ([]cricket.Match, error) {
	matches := []cricket.Match{}
	err := s.db.SelectContext(ctx, &matches, "SELECT * FROM matches WHERE status = ?", cricket.MatchCompleted)
	return matches, err
}

func (s *MatchStore) CountMatches(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM matches")
	return count, err
}

// UpdateMatchStateTx writes the scoring fields of match, provided nobody else
// wrote the row since match.Version was read. On success match.Version is bumped.
func (s *MatchStore) UpdateMatchStateTx(ctx context.Context, tx *sqlx.Tx, match *cricket.Match) error {
	res, err := tx.NamedExecContext(ctx, updateMatchStateQuery, match)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("match %s: %w", match.ID, ErrStaleMatch)
	}
	match.Version++
	return nil
}

// UpdateMatchDetails rewrites the fixture of a match that has not started.
// Like UpdateMatchStateTx it fails with ErrStaleMatch when the row moved on.
func (s *MatchStore) UpdateMatchDetails(ctx context.Context, match *cricket.Match) error {
	res, err := s.db.NamedExecContext(ctx, updateMatchDetailsQuery, match)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("match %s: %w", match.ID, ErrStaleMatch)
	}
	match.Version++
	return nil
}

// DeleteMatch removes the match with its ball log and super over.
func (s *MatchStore) DeleteMatch(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM matches WHERE id = ?", id)
	return affected(res, err)
}

func (s *MatchStore) CreateBallTx(ctx context.Context, tx *sqlx.Tx, ball *cricket.Ball) error {
	_, err := tx.NamedExecContext(ctx, createBallQuery, ball)
	return err
}

func (s *MatchStore) ListBalls(ctx context.Context, matchID uuid.UUID) ([]cricket.Ball, error) {
	balls := []cricket.Ball{}
	err := s.db.SelectContext(ctx, &balls, "SELECT * FROM balls WHERE match_id = ? ORDER BY sequence ASC", matchID)
	return balls, err
}

func (s *MatchStore) ListBallsTx(ctx context.Context, tx *sqlx.Tx, matchID uuid.UUID) ([]cricket.Ball, error) {
	balls := []cricket.Ball{}
	err := tx.SelectContext(ctx, &balls, "SELECT * FROM balls WHERE match_id = ? ORDER BY sequence ASC", matchID)
	return balls, err
}

func (s *MatchStore) CountBallsTx(ctx context.Context, tx *sqlx.Tx, matchID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM balls WHERE match_id = ?", matchID)
	return count, err
}

func (s *MatchStore) DeleteBallTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM balls WHERE id = ?", id)
	return err
}

func (s *MatchStore) CreateSuperOverTx(ctx context.Context, tx *sqlx.Tx, superOver *cricket.SuperOver) error {
	_, err := tx.NamedExecContext(ctx, createSuperOverQuery, superOver)
	return err
}

func (s *MatchStore) GetSuperOver(ctx context.Context, matchID uuid.UUID) (*cricket.SuperOver, error) {
	var superOver cricket.SuperOver
	if err := s.db.GetContext(ctx, &superOver, "SELECT * FROM super_overs WHERE match_id = ?", matchID); err != nil {
		return nil, err
	}
	return &superOver, nil
}

func (s *MatchStore) HasSuperOverTx(ctx context.Context, tx *sqlx.Tx, matchID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM super_overs WHERE match_id = ?)", matchID)
	return exists, err
}
