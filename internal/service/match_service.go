package service

import (
	"context"
	"time"

	"github.com/AdamBeresnev/crease/internal/apperr"
	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/AdamBeresnev/crease/internal/store"
	"github.com/google/uuid"
)

type MatchService struct {
	store       *store.MatchStore
	tournaments *store.TournamentStore
	teams       *store.TeamStore
}

func NewMatchService(store *store.MatchStore, tournaments *store.TournamentStore, teams *store.TeamStore) *MatchService {
	return &MatchService{store: store, tournaments: tournaments, teams: teams}
}

type MatchInput struct {
	TournamentID   uuid.UUID     `json:"tournamentId"`
	Stage          cricket.Stage `json:"stage"`
	Team1ID        uuid.UUID     `json:"team1Id"`
	Team2ID        uuid.UUID     `json:"team2Id"`
	TossWinnerID   *uuid.UUID    `json:"tossWinnerId"`
	BattingFirstID *uuid.UUID    `json:"battingFirstId"`
	Overs          int           `json:"overs"`
	MatchDate      time.Time     `json:"matchDate"`
}

func (in MatchInput) validate() error {
	if !in.Stage.Valid() {
		return apperr.InvalidInput("unknown stage %q", in.Stage)
	}
	if in.Team1ID == uuid.Nil || in.Team2ID == uuid.Nil {
		return apperr.InvalidInput("both teams are required")
	}
	if in.Team1ID == in.Team2ID {
		return apperr.InvalidInput("a team cannot play itself")
	}
	if in.Overs < cricket.MinOvers || in.Overs > cricket.MaxOvers {
		return apperr.InvalidInput("overs must be between %d and %d, got %d", cricket.MinOvers, cricket.MaxOvers, in.Overs)
	}
	if in.MatchDate.IsZero() {
		return apperr.InvalidInput("match date is required")
	}
	for _, id := range []*uuid.UUID{in.TossWinnerID, in.BattingFirstID} {
		if id != nil && *id != in.Team1ID && *id != in.Team2ID {
			return apperr.InvalidInput("team %s is not playing in this match", *id)
		}
	}
	return nil
}

// check validates the input and makes sure the tournament and both teams exist.
func (s *MatchService) check(ctx context.Context, in *MatchInput) error {
	if in.Stage == "" {
		in.Stage = cricket.StageLeague
	}
	if err := in.validate(); err != nil {
		return err
	}

	if _, err := s.tournaments.GetTournament(ctx, in.TournamentID); err != nil {
		return lookupError(err, "tournament", in.TournamentID)
	}
	for _, id := range []uuid.UUID{in.Team1ID, in.Team2ID} {
		if _, err := s.teams.GetTeam(ctx, id); err != nil {
			return lookupError(err, "team", id)
		}
	}
	return nil
}

func (s *MatchService) CreateMatch(ctx context.Context, in MatchInput) (*cricket.Match, error) {
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}

	match := &cricket.Match{
		ID:             uuid.New(),
		TournamentID:   in.TournamentID,
		Stage:          in.Stage,
		Team1ID:        in.Team1ID,
		Team2ID:        in.Team2ID,
		TossWinnerID:   in.TossWinnerID,
		BattingFirstID: in.BattingFirstID,
		Overs:          in.Overs,
		MatchDate:      in.MatchDate.UTC(),
		Status:         cricket.MatchScheduled,
		CurrentInnings: 1,
		CreatedAt:      time.Now().UTC(),
	}
	match.CurrentBattingTeamID = match.OpeningBatterID()

	if err := s.store.CreateMatch(ctx, match); err != nil {
		return nil, writeError("failed to create match", err)
	}
	return match, nil
}

// UpdateMatch reschedules a match that has not started yet. Once the first
// ball is bowled the fixture is fixed.
func (s *MatchService) UpdateMatch(ctx context.Context, id uuid.UUID, in MatchInput) (*cricket.Match, error) {
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}
	match, err := s.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if match.Status != cricket.MatchScheduled {
		return nil, apperr.Conflict("match is %s, only scheduled matches can be edited", match.Status)
	}

	match.TournamentID = in.TournamentID
	match.Stage = in.Stage
	match.Team1ID = in.Team1ID
	match.Team2ID = in.Team2ID
	match.TossWinnerID = in.TossWinnerID
	match.BattingFirstID = in.BattingFirstID
	match.Overs = in.Overs
	match.MatchDate = in.MatchDate.UTC()
	match.CurrentBattingTeamID = match.OpeningBatterID()

	if err := s.store.UpdateMatchDetails(ctx, match); err != nil {
		return nil, writeError("failed to update match", err)
	}
	return match, nil
}

// DeleteMatch removes a match along with its deliveries and super over.
func (s *MatchService) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.store.DeleteMatch(ctx, id)
	if err != nil {
		return apperr.Internal("failed to delete match", err)
	}
	if !deleted {
		return apperr.NotFound("match %s not found", id)
	}
	return nil
}

func (s *MatchService) GetMatch(ctx context.Context, id uuid.UUID) (*cricket.Match, error) {
	match, err := s.store.GetMatch(ctx, id)
	if err != nil {
		return nil, lookupError(err, "match", id)
	}
	return match, nil
}

func (s *MatchService) ListMatches(ctx context.Context, tournamentID *uuid.UUID) ([]cricket.Match, error) {
	matches, err := s.store.ListMatches(ctx, tournamentID)
	if err != nil {
		return nil, apperr.Internal("failed to list matches", err)
	}
	return matches, nil
}

type Scoreboard struct {
	Match *cricket.Match
	Team1 *cricket.Team
	Team2 *cricket.Team
}

// GetScoreboard loads a match together with both of its teams.
func (s *MatchService) GetScoreboard(ctx context.Context, id uuid.UUID) (*Scoreboard, error) {
	match, err := s.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	team1, err := s.teams.GetTeam(ctx, match.Team1ID)
	if err != nil {
		return nil, lookupError(err, "team", match.Team1ID)
	}
	team2, err := s.teams.GetTeam(ctx, match.Team2ID)
	if err != nil {
		return nil, lookupError(err, "team", match.Team2ID)
	}

	return &Scoreboard{Match: match, Team1: team1, Team2: team2}, nil
}
