package service

import (
	"context"

	"github.com/AdamBeresnev/crease/internal/apperr"
	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/AdamBeresnev/crease/internal/store"
	"github.com/google/uuid"
)

const recentMatchesLimit = 5

type RecentMatch struct {
	ID    uuid.UUID     `json:"id"`
	Team1 string        `json:"team1"`
	Team2 string        `json:"team2"`
	Stage cricket.Stage `json:"stage"`
	// Score is only set once the match is completed.
	Score *string `json:"score"`
}

type DashboardStats struct {
	Tournaments   int           `json:"tournaments"`
	Teams         int           `json:"teams"`
	Matches       int           `json:"matches"`
	RecentMatches []RecentMatch `json:"recentMatches"`
}

// Stats holds player leaderboards. Player statistics are not tracked, so both
// lists are always empty.
type Stats struct {
	TopBatsmen []any `json:"topBatsmen"`
	TopBowlers []any `json:"topBowlers"`
}

type DashboardService struct {
	tournaments *store.TournamentStore
	teams       *store.TeamStore
	matches     *store.MatchStore
}

func NewDashboardService(tournaments *store.TournamentStore, teams *store.TeamStore, matches *store.MatchStore) *DashboardService {
	return &DashboardService{tournaments: tournaments, teams: teams, matches: matches}
}

func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)
	if stats.Tournaments, err = s.tournaments.CountTournaments(ctx); err != nil {
		return nil, apperr.Internal("failed to count tournaments", err)
	}
	if stats.Teams, err = s.teams.CountTeams(ctx); err != nil {
		return nil, apperr.Internal("failed to count teams", err)
	}
	if stats.Matches, err = s.matches.CountMatches(ctx); err != nil {
		return nil, apperr.Internal("failed to count matches", err)
	}

	recent, err := s.matches.ListRecentMatches(ctx, recentMatchesLimit)
	if err != nil {
		return nil, apperr.Internal("failed to list recent matches", err)
	}
	teams, err := s.teams.ListTeams(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list teams", err)
	}
	names := make(map[uuid.UUID]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	teamName := func(id uuid.UUID) string {
		if name, ok := names[id]; ok {
			return name
		}
		return "Unknown"
	}

	stats.RecentMatches = make([]RecentMatch, 0, len(recent))
	for i := range recent {
		m := &recent[i]
		rm := RecentMatch{
			ID:    m.ID,
			Team1: teamName(m.Team1ID),
			Team2: teamName(m.Team2ID),
			Stage: m.Stage,
		}
		if m.Status == cricket.MatchCompleted {
			line := m.ScoreLine()
			rm.Score = &line
		}
		stats.RecentMatches = append(stats.RecentMatches, rm)
	}
	return &stats, nil
}

func (s *DashboardService) GetStats() *Stats {
	return &Stats{TopBatsmen: []any{}, TopBowlers: []any{}}
}
