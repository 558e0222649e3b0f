package service

import (
	"context"
	"sort"

	"github.com/AdamBeresnev/crease/internal/apperr"
	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/AdamBeresnev/crease/internal/store"
	"github.com/google/uuid"
)

// QualifyingPlaces is how many teams per group go through to the knockouts.
const QualifyingPlaces = 4

type TeamStanding struct {
	TeamID    uuid.UUID `json:"teamId"`
	TeamName  string    `json:"teamName"`
	Played    int       `json:"played"`
	Won       int       `json:"won"`
	Lost      int       `json:"lost"`
	Tied      int       `json:"tied"`
	Points    int       `json:"points"`
	Qualified bool      `json:"qualified"`
}

type GroupStandings struct {
	GroupID   uuid.UUID      `json:"groupId"`
	GroupName string         `json:"groupName"`
	Standings []TeamStanding `json:"standings"`
}

type StandingsService struct {
	tournaments *store.TournamentStore
	teams       *store.TeamStore
	matches     *store.MatchStore
}

func NewStandingsService(tournaments *store.TournamentStore, teams *store.TeamStore, matches *store.MatchStore) *StandingsService {
	return &StandingsService{tournaments: tournaments, teams: teams, matches: matches}
}

func (s *StandingsService) GetStandings(ctx context.Context) ([]GroupStandings, error) {
	groups, err := s.tournaments.ListGroups(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("failed to list groups", err)
	}
	teams, err := s.teams.ListTeams(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list teams", err)
	}
	matches, err := s.matches.ListCompletedMatches(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list completed matches", err)
	}
	return computeStandings(groups, teams, matches), nil
}

// computeStandings builds a points table per group from completed matches.
// A win is worth 2 points and a tie 1.
func computeStandings(groups []cricket.Group, teams []cricket.Team, matches []cricket.Match) []GroupStandings {
	out := make([]GroupStandings, 0, len(groups))
	for _, g := range groups {
		table := []TeamStanding{}
		for _, team := range teams {
			if team.GroupID == nil || *team.GroupID != g.ID {
				continue
			}
			row := TeamStanding{TeamID: team.ID, TeamName: team.Name}
			for i := range matches {
				m := &matches[i]
				if m.Status != cricket.MatchCompleted || !m.HasTeam(team.ID) {
					continue
				}
				row.Played++
				switch {
				case m.Result == cricket.ResultTie:
					row.Tied++
				case m.IsWinner(team.ID):
					row.Won++
				default:
					row.Lost++
				}
			}
			row.Points = 2*row.Won + row.Tied
			table = append(table, row)
		}

		sort.SliceStable(table, func(i, j int) bool {
			if table[i].Points != table[j].Points {
				return table[i].Points > table[j].Points
			}
			return table[i].TeamName < table[j].TeamName
		})
		for i := range table {
			table[i].Qualified = i < QualifyingPlaces
		}

		out = append(out, GroupStandings{GroupID: g.ID, GroupName: g.Name, Standings: table})
	}
	return out
}
