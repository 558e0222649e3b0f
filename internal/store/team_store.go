package store

import (
	"context"

	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TeamStore struct {
	db *sqlx.DB
}

const (
	createTeamQuery = `
		INSERT INTO teams (id, name, captain, contact_number, group_id, created_at) VALUES
		(:id, :name, :captain, :contact_number, :group_id, :created_at)
	`
	updateTeamQuery = `
		UPDATE teams SET name = :name, captain = :captain, contact_number = :contact_number, group_id = :group_id
		WHERE id = :id
	`
	getTeamQuery = "SELECT * FROM teams WHERE id = ?"
)

func NewTeamStore(db *sqlx.DB) *TeamStore {
	return &TeamStore{db: db}
}

func (s *TeamStore) CreateTeam(ctx context.Context, team *cricket.Team) error {
	_, err := s.db.NamedExecContext(ctx, createTeamQuery, team)
	return err
}

func (s *TeamStore) GetTeam(ctx context.Context, id uuid.UUID) (*cricket.Team, error) {
	var team cricket.Team
	if err := s.db.GetContext(ctx, &team, getTeamQuery, id); err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *TeamStore) UpdateTeam(ctx context.Context, team *cricket.Team) (bool, error) {
	res, err := s.db.NamedExecContext(ctx, updateTeamQuery, team)
	return affected(res, classify(err))
}

// DeleteTeam removes a team. A team that has played or is scheduled to play
// a match cannot be deleted and yields ErrInUse.
func (s *TeamStore) DeleteTeam(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM teams WHERE id = ?", id)
	return affected(res, classify(err))
}

func (s *TeamStore) ListTeams(ctx context.Context) ([]cricket.Team, error) {
	teams := []cricket.Team{}
	err := s.db.SelectContext(ctx, &teams, "SELECT * FROM teams ORDER BY name ASC")
	return teams, err
}

// ListGroupedTeams returns the teams that belong to a group in the tournament.
func (s *TeamStore) ListGroupedTeams(ctx context.Context, tournamentID uuid.UUID) ([]cricket.Team, error) {
	teams := []cricket.Team{}
	err := s.db.SelectContext(ctx, &teams, `
		SELECT t.* FROM teams t
		JOIN tournament_groups g ON g.id = t.group_id
		WHERE g.tournament_id = ?
		ORDER BY t.name ASC`, tournamentID)
	return teams, err
}

func (s *TeamStore) CountTeams(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM teams")
	return count, err
}
