package service

import (
	"context"
	"strings"
	"time"

	"github.com/AdamBeresnev/crease/internal/apperr"
	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/AdamBeresnev/crease/internal/store"
	"github.com/google/uuid"
)

type TournamentService struct {
	store *store.TournamentStore
	teams *store.TeamStore
}

func NewTournamentService(store *store.TournamentStore, teams *store.TeamStore) *TournamentService {
	return &TournamentService{store: store, teams: teams}
}

type TournamentInput struct {
	Name          string    `json:"name"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	OversPerMatch int       `json:"oversPerMatch"`
}

// validate normalises the input and returns the trimmed name and the overs
// per match, defaulting to the longest format.
func (in TournamentInput) validate() (string, int, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", 0, apperr.InvalidInput("tournament name is required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return "", 0, apperr.InvalidInput("start and end dates are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return "", 0, apperr.InvalidInput("tournament cannot end before it starts")
	}
	overs := in.OversPerMatch
	if overs == 0 {
		overs = cricket.MaxOvers
	}
	if overs < cricket.MinOvers || overs > cricket.MaxOvers {
		return "", 0, apperr.InvalidInput("overs per match must be between %d and %d, got %d", cricket.MinOvers, cricket.MaxOvers, overs)
	}
	return name, overs, nil
}

func (s *TournamentService) CreateTournament(ctx context.Context, in TournamentInput) (*cricket.Tournament, error) {
	name, overs, err := in.validate()
	if err != nil {
		return nil, err
	}

	tournament := &cricket.Tournament{
		ID:            uuid.New(),
		Name:          name,
		StartDate:     in.StartDate.UTC(),
		EndDate:       in.EndDate.UTC(),
		OversPerMatch: overs,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.CreateTournament(ctx, tournament); err != nil {
		return nil, apperr.Internal("failed to create tournament", err)
	}
	return tournament, nil
}

// UpdateTournament replaces the tournament's details. Matches already
// scheduled keep the overs they were created with.
func (s *TournamentService) UpdateTournament(ctx context.Context, id uuid.UUID, in TournamentInput) (*cricket.Tournament, error) {
	name, overs, err := in.validate()
	if err != nil {
		return nil, err
	}
	tournament, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	tournament.Name = name
	tournament.StartDate = in.StartDate.UTC()
	tournament.EndDate = in.EndDate.UTC()
	tournament.OversPerMatch = overs
	updated, err := s.store.UpdateTournament(ctx, tournament)
	if err != nil {
		return nil, apperr.Internal("failed to update tournament", err)
	}
	if !updated {
		return nil, apperr.NotFound("tournament %s not found", id)
	}
	return tournament, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*cricket.Tournament, error) {
	tournament, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, lookupError(err, "tournament", id)
	}
	return tournament, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]cricket.Tournament, error) {
	tournaments, err := s.store.ListTournaments(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list tournaments", err)
	}
	return tournaments, nil
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.store.DeleteTournament(ctx, id)
	if err != nil {
		return apperr.Internal("failed to delete tournament", err)
	}
	if !deleted {
		return apperr.NotFound("tournament %s not found", id)
	}
	return nil
}

type GroupInput struct {
	TournamentID uuid.UUID `json:"tournamentId"`
	Name         string    `json:"name"`
}

func (s *TournamentService) CreateGroup(ctx context.Context, in GroupInput) (*cricket.Group, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.InvalidInput("group name is required")
	}
	if _, err := s.store.GetTournament(ctx, in.TournamentID); err != nil {
		return nil, lookupError(err, "tournament", in.TournamentID)
	}

	group := &cricket.Group{
		ID:           uuid.New(),
		TournamentID: in.TournamentID,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, apperr.Internal("failed to create group", err)
	}
	return group, nil
}

func (s *TournamentService) GetGroup(ctx context.Context, id uuid.UUID) (*cricket.Group, error) {
	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, lookupError(err, "group", id)
	}
	return group, nil
}

func (s *TournamentService) UpdateGroup(ctx context.Context, id uuid.UUID, in GroupInput) (*cricket.Group, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.InvalidInput("group name is required")
	}
	group, err := s.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetTournament(ctx, in.TournamentID); err != nil {
		return nil, lookupError(err, "tournament", in.TournamentID)
	}

	group.TournamentID = in.TournamentID
	group.Name = name
	updated, err := s.store.UpdateGroup(ctx, group)
	if err != nil {
		return nil, writeError("failed to update group", err)
	}
	if !updated {
		return nil, apperr.NotFound("group %s not found", id)
	}
	return group, nil
}

func (s *TournamentService) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.store.DeleteGroup(ctx, id)
	if err != nil {
		return apperr.Internal("failed to delete group", err)
	}
	if !deleted {
		return apperr.NotFound("group %s not found", id)
	}
	return nil
}

func (s *TournamentService) ListGroups(ctx context.Context, tournamentID *uuid.UUID) ([]cricket.Group, error) {
	groups, err := s.store.ListGroups(ctx, tournamentID)
	if err != nil {
		return nil, apperr.Internal("failed to list groups", err)
	}
	return groups, nil
}

type TeamInput struct {
	Name          string     `json:"name"`
	Captain       string     `json:"captain"`
	ContactNumber string     `json:"contactNumber"`
	GroupID       *uuid.UUID `json:"groupId"`
}

func (in TeamInput) team() (*cricket.Team, error) {
	team := &cricket.Team{
		Name:          strings.TrimSpace(in.Name),
		Captain:       strings.TrimSpace(in.Captain),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		GroupID:       in.GroupID,
	}
	if team.Name == "" || team.Captain == "" || team.ContactNumber == "" {
		return nil, apperr.InvalidInput("team name, captain and contact number are required")
	}
	return team, nil
}

func (s *TournamentService) checkGroup(ctx context.Context, groupID *uuid.UUID) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.store.GetGroup(ctx, *groupID); err != nil {
		return lookupError(err, "group", *groupID)
	}
	return nil
}

func (s *TournamentService) CreateTeam(ctx context.Context, in TeamInput) (*cricket.Team, error) {
	team, err := in.team()
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, team.GroupID); err != nil {
		return nil, err
	}

	team.ID = uuid.New()
	team.CreatedAt = time.Now().UTC()
	if err := s.teams.CreateTeam(ctx, team); err != nil {
		return nil, apperr.Internal("failed to create team", err)
	}
	return team, nil
}

// UpdateTeam replaces the team's details. Leaving groupId out moves the team
// out of its group.
func (s *TournamentService) UpdateTeam(ctx context.Context, id uuid.UUID, in TeamInput) (*cricket.Team, error) {
	team, err := in.team()
	if err != nil {
		return nil, err
	}
	existing, err := s.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, team.GroupID); err != nil {
		return nil, err
	}

	team.ID = existing.ID
	team.CreatedAt = existing.CreatedAt
	updated, err := s.teams.UpdateTeam(ctx, team)
	if err != nil {
		return nil, writeError("failed to update team", err)
	}
	if !updated {
		return nil, apperr.NotFound("team %s not found", id)
	}
	return team, nil
}

// DeleteTeam fails with Conflict while any match still refers to the team.
func (s *TournamentService) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.teams.DeleteTeam(ctx, id)
	if err != nil {
		return writeError("failed to delete team", err)
	}
	if !deleted {
		return apperr.NotFound("team %s not found", id)
	}
	return nil
}

func (s *TournamentService) GetTeam(ctx context.Context, id uuid.UUID) (*cricket.Team, error) {
	team, err := s.teams.GetTeam(ctx, id)
	if err != nil {
		return nil, lookupError(err, "team", id)
	}
	return team, nil
}

func (s *TournamentService) ListTeams(ctx context.Context) ([]cricket.Team, error) {
	teams, err := s.teams.ListTeams(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list teams", err)
	}
	return teams, nil
}
