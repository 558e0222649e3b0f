package service

import (
	"context"
	"time"

	"github.com/AdamBeresnev/crease/internal/apperr"
	"github.com/AdamBeresnev/crease/internal/store"
	"github.com/google/uuid"
)

const visitorStatsDays = 7

type DailyVisits struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type VisitorStats struct {
	Total      int           `json:"total"`
	Today      int           `json:"today"`
	ThisWeek   int           `json:"thisWeek"`
	DailyStats []DailyVisits `json:"dailyStats"`
}

type VisitorService struct {
	store *store.VisitorStore
	now   func() time.Time
}

func NewVisitorService(store *store.VisitorStore) *VisitorService {
	return &VisitorService{store: store, now: time.Now}
}

func (s *VisitorService) TrackVisit(ctx context.Context, ipAddress string) error {
	visit := &store.Visit{ID: uuid.New(), IPAddress: ipAddress, VisitedAt: s.now().UTC()}
	if err := s.store.RecordVisit(ctx, visit); err != nil {
		return apperr.Internal("failed to record visit", err)
	}
	return nil
}

// GetVisitorStats counts visits in UTC calendar days. The week covers today
// and the seven days before it; the daily series covers the last seven days.
func (s *VisitorService) GetVisitorStats(ctx context.Context) (*VisitorStats, error) {
	total, err := s.store.CountVisits(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to count visits", err)
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := today.AddDate(0, 0, -visitorStatsDays)

	visits, err := s.store.ListVisitTimesSince(ctx, weekAgo)
	if err != nil {
		return nil, apperr.Internal("failed to list visits", err)
	}

	stats := &VisitorStats{Total: total, ThisWeek: len(visits)}
	daily := make(map[string]int, visitorStatsDays)
	for _, v := range visits {
		v = v.UTC()
		if !v.Before(today) {
			stats.Today++
		}
		daily[v.Format(time.DateOnly)]++
	}

	for i := visitorStatsDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(time.DateOnly)
		stats.DailyStats = append(stats.DailyStats, DailyVisits{Date: date, Count: daily[date]})
	}
	return stats, nil
}
