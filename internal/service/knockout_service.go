package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/AdamBeresnev/crease/internal/apperr"
	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/AdamBeresnev/crease/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// knockoutTeams is the size of the largest bracket there are stages for:
// two semi finals feeding a final.
const knockoutTeams = 4

type KnockoutService struct {
	db          *sqlx.DB
	tournaments *store.TournamentStore
	teams       *store.TeamStore
	matches     *store.MatchStore
	locks       *matchLocks
}

func NewKnockoutService(db *sqlx.DB, tournaments *store.TournamentStore, teams *store.TeamStore, matches *store.MatchStore) *KnockoutService {
	return &KnockoutService{db: db, tournaments: tournaments, teams: teams, matches: matches, locks: newMatchLocks()}
}

type KnockoutInput struct {
	MatchDate time.Time `json:"matchDate"`
}

// Gets the nearest power of 2 while rounding up, so with input 3 it returns 4 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

// generateRound1Pairs returns seed indexes for the opening round so that the
// top seeds can only meet late, e.g. {0,3},{1,2} for four.
func generateRound1Pairs(bracketSize int) [][2]int {
	if bracketSize == 0 {
		return [][2]int{}
	}

	rounds := []int{0}
	for len(rounds) < bracketSize {
		var nextRound []int
		currentCount := len(rounds) * 2

		for _, seed := range rounds {
			nextRound = append(nextRound, seed)
			nextRound = append(nextRound, (currentCount-1)-seed)
		}
		rounds = nextRound
	}

	pairs := make([][2]int, 0, bracketSize/2)
	for i := 0; i < len(rounds); i += 2 {
		pairs = append(pairs, [2]int{rounds[i], rounds[i+1]})
	}

	return pairs
}

// seedQualifiers ranks qualified teams across groups: every group winner
// before any runner-up, and so on down the table. Ties within a place go to
// points, then team name.
func seedQualifiers(tables []GroupStandings) []TeamStanding {
	var seeds []TeamStanding
	for place := 0; place < QualifyingPlaces; place++ {
		var tier []TeamStanding
		for _, g := range tables {
			if place < len(g.Standings) && g.Standings[place].Qualified && g.Standings[place].Played > 0 {
				tier = append(tier, g.Standings[place])
			}
		}
		sort.SliceStable(tier, func(i, j int) bool {
			if tier[i].Points != tier[j].Points {
				return tier[i].Points > tier[j].Points
			}
			return tier[i].TeamName < tier[j].TeamName
		})
		seeds = append(seeds, tier...)
	}
	if len(seeds) > knockoutTeams {
		seeds = seeds[:knockoutTeams]
	}
	return seeds
}

func newKnockoutMatch(tournament *cricket.Tournament, stage cricket.Stage, team1, team2 uuid.UUID, date time.Time) cricket.Match {
	m := cricket.Match{
		ID:             uuid.New(),
		TournamentID:   tournament.ID,
		Stage:          stage,
		Team1ID:        team1,
		Team2ID:        team2,
		Overs:          tournament.OversPerMatch,
		MatchDate:      date.UTC(),
		Status:         cricket.MatchScheduled,
		CurrentInnings: 1,
		CreatedAt:      time.Now().UTC(),
	}
	m.CurrentBattingTeamID = m.OpeningBatterID()
	return m
}

// buildKnockoutMatches pairs seeds for the opening knockout round. A seed
// drawn against an empty slot gets a bye and no match is created for it.
func buildKnockoutMatches(tournament *cricket.Tournament, seeds []TeamStanding, date time.Time) []cricket.Match {
	bracketSize := calcBracketSize(len(seeds))
	stage := cricket.StageSemiFinal
	if bracketSize == 2 {
		stage = cricket.StageFinal
	}

	var matches []cricket.Match
	for _, pair := range generateRound1Pairs(bracketSize) {
		if pair[0] >= len(seeds) || pair[1] >= len(seeds) {
			continue
		}
		matches = append(matches, newKnockoutMatch(tournament, stage, seeds[pair[0]].TeamID, seeds[pair[1]].TeamID, date))
	}
	return matches
}

// buildFinal pairs the semi final winners with any seed that had a bye,
// keeping seed order so the higher seed bats first by default.
func buildFinal(tournament *cricket.Tournament, seeds []TeamStanding, semis []cricket.Match, date time.Time) (*cricket.Match, error) {
	played := make(map[uuid.UUID]bool, len(semis)*2)
	won := make(map[uuid.UUID]bool, len(semis))
	for _, m := range semis {
		if m.Status != cricket.MatchCompleted {
			return nil, apperr.Conflict("semi final %s is still %s", m.ID, m.Status)
		}
		if m.WinnerID == nil {
			return nil, apperr.Conflict("semi final %s has no winner", m.ID)
		}
		played[m.Team1ID] = true
		played[m.Team2ID] = true
		won[*m.WinnerID] = true
	}

	var finalists []uuid.UUID
	for _, seed := range seeds {
		if won[seed.TeamID] || !played[seed.TeamID] {
			finalists = append(finalists, seed.TeamID)
		}
	}
	if len(finalists) != 2 {
		return nil, apperr.Conflict("expected two finalists, found %d", len(finalists))
	}
	final := newKnockoutMatch(tournament, cricket.StageFinal, finalists[0], finalists[1], date)
	return &final, nil
}

// planNextRound decides which knockout matches to schedule given everything
// already played in the tournament: the opening round once the league is
// over, then the final once every semi final has a winner.
func planNextRound(tournament *cricket.Tournament, groups []cricket.Group, teams []cricket.Team, existing []cricket.Match, date time.Time) ([]cricket.Match, error) {
	var league, semis []cricket.Match
	for _, m := range existing {
		switch m.Stage {
		case cricket.StageFinal:
			return nil, apperr.Conflict("tournament %s already has a final", tournament.ID)
		case cricket.StageSemiFinal:
			semis = append(semis, m)
		default:
			if !m.Status.Finished() {
				return nil, apperr.Conflict("league match %s is still %s", m.ID, m.Status)
			}
			if m.Status == cricket.MatchCompleted {
				league = append(league, m)
			}
		}
	}

	seeds := seedQualifiers(computeStandings(groups, teams, league))
	if len(seeds) < 2 {
		return nil, apperr.Conflict("at least two teams must have played to schedule knockouts, got %d", len(seeds))
	}
	if len(semis) == 0 {
		return buildKnockoutMatches(tournament, seeds, date), nil
	}

	final, err := buildFinal(tournament, seeds, semis, date)
	if err != nil {
		return nil, err
	}
	return []cricket.Match{*final}, nil
}

// GenerateKnockouts schedules the next knockout round of a tournament. The
// first call after the league finishes creates the semi finals (or the final
// for two qualifiers), a later call creates the final from the semi winners.
func (s *KnockoutService) GenerateKnockouts(ctx context.Context, tournamentID uuid.UUID, in KnockoutInput) ([]cricket.Match, error) {
	if in.MatchDate.IsZero() {
		return nil, apperr.InvalidInput("match date is required")
	}

	unlock := s.locks.lock(tournamentID)
	defer unlock()

	tournament, err := s.tournaments.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, lookupError(err, "tournament", tournamentID)
	}
	groups, err := s.tournaments.ListGroups(ctx, &tournamentID)
	if err != nil {
		return nil, apperr.Internal("failed to list groups", err)
	}
	teams, err := s.teams.ListGroupedTeams(ctx, tournamentID)
	if err != nil {
		return nil, apperr.Internal("failed to list teams", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	existing, err := s.matches.ListMatchesTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, apperr.Internal("failed to list matches", err)
	}
	matches, err := planNextRound(tournament, groups, teams, existing, in.MatchDate)
	if err != nil {
		return nil, err
	}

	if err := s.matches.CreateMatchesTx(ctx, tx, matches); err != nil {
		return nil, writeError("failed to create knockout matches", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit knockout matches", err)
	}
	return matches, nil
}
