package store

import (
	"context"

	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tournament *cricket.Tournament) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO tournaments (id, name, start_date, end_date, overs_per_match, created_at)
        VALUES (:id, :name, :start_date, :end_date, :overs_per_match, :created_at)`, tournament)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*cricket.Tournament, error) {
	var tournament cricket.Tournament
	if err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context) ([]cricket.Tournament, error) {
	tournaments := []cricket.Tournament{}
	err := s.db.SelectContext(ctx, &tournaments, "SELECT * FROM tournaments ORDER BY start_date DESC")
	return tournaments, err
}

// UpdateTournament overwrites the editable fields. It reports false when no
// tournament had that id.
func (s *TournamentStore) UpdateTournament(ctx context.Context, tournament *cricket.Tournament) (bool, error) {
	res, err := s.db.NamedExecContext(ctx, `UPDATE tournaments
        SET name = :name, start_date = :start_date, end_date = :end_date, overs_per_match = :overs_per_match
        WHERE id = :id`, tournament)
	return affected(res, err)
}

// DeleteTournament removes the tournament together with its groups and matches.
// It reports false when no tournament had that id.
func (s *TournamentStore) DeleteTournament(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tournaments WHERE id = ?", id)
	return affected(res, err)
}

func (s *TournamentStore) CountTournaments(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM tournaments")
	return count, err
}

func (s *TournamentStore) CreateGroup(ctx context.Context, group *cricket.Group) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO tournament_groups (id, tournament_id, name, created_at)
        VALUES (:id, :tournament_id, :name, :created_at)`, group)
	return err
}

func (s *TournamentStore) GetGroup(ctx context.Context, id uuid.UUID) (*cricket.Group, error) {
	var group cricket.Group
	if err := s.db.GetContext(ctx, &group, "SELECT * FROM tournament_groups WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroups returns groups ordered by name, optionally limited to one tournament.
func (s *TournamentStore) ListGroups(ctx context.Context, tournamentID *uuid.UUID) ([]cricket.Group, error) {
	groups := []cricket.Group{}
	var err error
	if tournamentID != nil {
		err = s.db.SelectContext(ctx, &groups, "SELECT * FROM tournament_groups WHERE tournament_id = ? ORDER BY name ASC", *tournamentID)
	} else {
		err = s.db.SelectContext(ctx, &groups, "SELECT * FROM tournament_groups ORDER BY name ASC")
	}
	return groups, err
}

func (s *TournamentStore) UpdateGroup(ctx context.Context, group *cricket.Group) (bool, error) {
	res, err := s.db.NamedExecContext(ctx, `UPDATE tournament_groups
        SET tournament_id = :tournament_id, name = :name
        WHERE id = :id`, group)
	return affected(res, classify(err))
}

// DeleteGroup removes a group. Its teams stay registered without a group.
func (s *TournamentStore) DeleteGroup(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tournament_groups WHERE id = ?", id)
	return affected(res, err)
}
