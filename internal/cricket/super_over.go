package cricket

import (
	"time"

	"github.com/google/uuid"
)

// MaxSuperOverWickets is the most wickets a side can lose in a Super Over.
const MaxSuperOverWickets = 2

type SuperOverInput struct {
	Team1Runs    int `json:"team1Runs"`
	Team1Wickets int `json:"team1Wickets"`
	Team2Runs    int `json:"team2Runs"`
	Team2Wickets int `json:"team2Wickets"`
}

type SuperOver struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	MatchID      uuid.UUID  `db:"match_id" json:"matchId"`
	Team1Runs    int        `db:"team1_runs" json:"team1Runs"`
	Team1Wickets int        `db:"team1_wickets" json:"team1Wickets"`
	Team2Runs    int        `db:"team2_runs" json:"team2Runs"`
	Team2Wickets int        `db:"team2_wickets" json:"team2Wickets"`
	WinnerID     *uuid.UUID `db:"winner_id" json:"winnerId"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}
