package cricket

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchAbandoned  MatchStatus = "abandoned"
)

// Finished reports whether no more deliveries can be scored.
func (s MatchStatus) Finished() bool {
	return s == MatchCompleted || s == MatchAbandoned
}

type Stage string

const (
	StageLeague    Stage = "League"
	StageSemiFinal Stage = "Semi Final"
	StageFinal     Stage = "Final"
)

func (s Stage) Valid() bool {
	switch s {
	case StageLeague, StageSemiFinal, StageFinal:
		return true
	}
	return false
}

const (
	MinOvers   = 5
	MaxOvers   = 10
	MaxWickets = 10
)

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournamentId"`
	Stage        Stage     `db:"stage" json:"stage"`

	Team1ID        uuid.UUID  `db:"team1_id" json:"team1Id"`
	Team2ID        uuid.UUID  `db:"team2_id" json:"team2Id"`
	TossWinnerID   *uuid.UUID `db:"toss_winner_id" json:"tossWinnerId"`
	BattingFirstID *uuid.UUID `db:"batting_first_id" json:"battingFirstId"`

	Overs     int         `db:"overs" json:"overs"`
	MatchDate time.Time   `db:"match_date" json:"matchDate"`
	Status    MatchStatus `db:"status" json:"status"`
	Result    Result      `db:"result" json:"result"`
	WinnerID  *uuid.UUID  `db:"winner_id" json:"winnerId"`

	Team1Score   int       `db:"team1_score" json:"team1Score"`
	Team1Wickets int       `db:"team1_wickets" json:"team1Wickets"`
	Team1Overs   OverCount `db:"team1_balls" json:"team1Overs"`
	Team2Score   int       `db:"team2_score" json:"team2Score"`
	Team2Wickets int       `db:"team2_wickets" json:"team2Wickets"`
	Team2Overs   OverCount `db:"team2_balls" json:"team2Overs"`

	CurrentInnings       int       `db:"current_innings" json:"currentInnings"`
	CurrentBattingTeamID uuid.UUID `db:"current_batting_team_id" json:"currentBattingTeamId"`

	// Bumped on every write; guards against lost updates.
	Version int `db:"version" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// OpeningBatterID is the team that bats in the first innings.
func (m *Match) OpeningBatterID() uuid.UUID {
	if m.BattingFirstID != nil {
		return *m.BattingFirstID
	}
	return m.Team1ID
}

func (m *Match) HasTeam(id uuid.UUID) bool {
	return id == m.Team1ID || id == m.Team2ID
}

// Opponent returns the other side of the match, or uuid.Nil if id is not playing.
func (m *Match) Opponent(id uuid.UUID) uuid.UUID {
	switch id {
	case m.Team1ID:
		return m.Team2ID
	case m.Team2ID:
		return m.Team1ID
	}
	return uuid.Nil
}

func (m *Match) IsWinner(teamID uuid.UUID) bool {
	return m.Status == MatchCompleted && m.WinnerID != nil && *m.WinnerID == teamID
}

// ScoreLine renders the classic "score/wickets vs score/wickets" summary.
func (m *Match) ScoreLine() string {
	return Innings{Score: m.Team1Score, Wickets: m.Team1Wickets}.String() +
		" vs " +
		Innings{Score: m.Team2Score, Wickets: m.Team2Wickets}.String()
}
