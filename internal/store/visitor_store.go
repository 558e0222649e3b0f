package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Visit struct {
	ID        uuid.UUID `db:"id"`
	IPAddress string    `db:"ip_address"`
	VisitedAt time.Time `db:"visited_at"`
}

type VisitorStore struct {
	db *sqlx.DB
}

func NewVisitorStore(db *sqlx.DB) *VisitorStore {
	return &VisitorStore{db: db}
}

func (s *VisitorStore) RecordVisit(ctx context.Context, visit *Visit) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO visitors (id, ip_address, visited_at)
		VALUES (:id, :ip_address, :visited_at)`, visit)
	return err
}

func (s *VisitorStore) CountVisits(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM visitors")
	return count, err
}

// ListVisitTimesSince returns the visit timestamps at or after since, oldest first.
func (s *VisitorStore) ListVisitTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var visits []Visit
	err := s.db.SelectContext(ctx, &visits, "SELECT * FROM visitors WHERE visited_at >= ? ORDER BY visited_at ASC", since)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, 0, len(visits))
	for _, v := range visits {
		times = append(times, v.VisitedAt)
	}
	return times, nil
}
