package cricket

import (
	"time"

	"github.com/google/uuid"
)

type Tournament struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	StartDate     time.Time `db:"start_date" json:"startDate"`
	EndDate       time.Time `db:"end_date" json:"endDate"`
	OversPerMatch int       `db:"overs_per_match" json:"oversPerMatch"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

type Group struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournamentId"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
