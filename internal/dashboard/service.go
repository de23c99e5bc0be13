package dashboard

import (
	"context"
	"log/slog"
	"time"
)

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc, now: time.Now}
}

// Overview counts today's reservations from local midnight in the
// restaurant time zone.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	since := StartOfDay(s.now(), s.loc)

	counts, err := s.repo.Counts(ctx, since)
	if err != nil {
		return nil, err
	}

	o := NewOverview(counts, since)
	slog.Debug("[DASHBOARD] overview computed",
		"tables", counts.TotalTables,
		"occupancy", o.TableOccupancy,
		"menu_availability", o.MenuAvailability,
	)
	return &o, nil
}
