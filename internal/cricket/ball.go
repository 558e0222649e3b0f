package cricket

import (
	"time"

	"github.com/google/uuid"
)

type Extra string

const (
	ExtraNone   Extra = ""
	ExtraWide   Extra = "wide"
	ExtraNoBall Extra = "no-ball"
	ExtraBye    Extra = "bye"
	ExtraLegBye Extra = "leg-bye"
)

func (e Extra) Valid() bool {
	switch e {
	case ExtraNone, ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye:
		return true
	}
	return false
}

// Legal reports whether the delivery counts toward the six balls of an over.
// Wides and no-balls are re-bowled.
func (e Extra) Legal() bool {
	return e != ExtraWide && e != ExtraNoBall
}

// BallEvent is a single scoring input from the operator.
type BallEvent struct {
	Runs     int   `json:"runs"`
	Extras   Extra `json:"extras,omitempty"`
	IsWicket bool  `json:"isWicket"`
}

// Ball is a recorded delivery in a match's append-only ball log.
type Ball struct {
	ID            uuid.UUID `db:"id" json:"id"`
	MatchID       uuid.UUID `db:"match_id" json:"matchId"`
	Sequence      int       `db:"sequence" json:"sequence"`
	Innings       int       `db:"innings" json:"innings"`
	BattingTeamID uuid.UUID `db:"batting_team_id" json:"battingTeamId"`
	Runs          int       `db:"runs" json:"runs"`
	Extras        Extra     `db:"extras" json:"extras,omitempty"`
	IsWicket      bool      `db:"is_wicket" json:"isWicket"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

func (b Ball) Event() BallEvent {
	return BallEvent{Runs: b.Runs, Extras: b.Extras, IsWicket: b.IsWicket}
}
