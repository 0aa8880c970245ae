package stats

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/guardia/guardia/internal/domain/triage"
)

const dashboardKey = "stats:dashboard"

// Cache holds the dashboard snapshot between requests. Optional.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Service struct {
	repo      Repository
	threshold int
	log       zerolog.Logger
	cache     Cache
	ttl       time.Duration
	loc       *time.Location
	now       func() time.Time
}

func NewService(repo Repository, criticalThreshold int, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		threshold: criticalThreshold,
		log:       log,
		loc:       time.Local,
		now:       time.Now,
	}
}

// SetCache enables dashboard caching. A zero ttl disables it.
func (s *Service) SetCache(c Cache, ttl time.Duration) {
	if ttl <= 0 {
		s.cache = nil
		return
	}
	s.cache, s.ttl = c, ttl
}

// DayBounds returns local midnight of day and of the following day.
func (s *Service) DayBounds(day time.Time) (time.Time, time.Time) {
	d := day.In(s.loc)
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
	return from, from.AddDate(0, 0, 1)
}

// ParseDay reads a YYYY-MM-DD date in the desk's time zone. Blank means today.
func (s *Service) ParseDay(v string) (time.Time, error) {
	if v == "" {
		return s.now(), nil
	}
	return time.ParseInLocation(time.DateOnly, v, s.loc)
}

// Dashboard returns the home screen counters. Cache failures are logged and
// the counters are read from the database.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if s.cache != nil {
		var cached Dashboard
		hit, err := s.cache.GetJSON(ctx, dashboardKey, &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("dashboard cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	d, err := s.computeDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, dashboardKey, d, s.ttl); err != nil {
			s.log.Warn().Err(err).Msg("dashboard cache write failed")
		}
	}
	return d, nil
}

// InvalidateDashboard drops the cached snapshot so the next read recomputes
// it. Failures are logged; the entry then expires with its ttl.
func (s *Service) InvalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, dashboardKey); err != nil {
		s.log.Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}

func (s *Service) computeDashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now()
	from, to := s.DayBounds(now)

	var d Dashboard
	var err error
	if d.Waiting, err = s.repo.CountWaiting(ctx); err != nil {
		return nil, err
	}
	if d.ConsultationsToday, err = s.repo.CountConsultations(ctx, from, to); err != nil {
		return nil, err
	}
	if d.ActiveStaff, err = s.repo.CountActiveStaff(ctx); err != nil {
		return nil, err
	}
	if d.CriticalResources, err = s.repo.CountCriticalResources(ctx, s.threshold); err != nil {
		return nil, err
	}
	d.GeneratedAt = now.UTC()
	return &d, nil
}

// PriorityBreakdown counts the day's consultations per tier. Every tier is
// listed, High first, even at zero; stored values outside the three tiers
// follow in the order the store returned them.
func (s *Service) PriorityBreakdown(ctx context.Context, day time.Time) ([]Count, error) {
	from, to := s.DayBounds(day)
	rows, err := s.repo.PriorityBreakdown(ctx, from, to)
	if err != nil {
		return nil, err
	}

	tiers := triage.Priorities()
	out := make([]Count, len(tiers))
	for i, p := range tiers {
		out[i] = Count{Label: p.String()}
	}
	for _, row := range rows {
		p, err := triage.ParsePriority(row.Label)
		if err != nil {
			out = append(out, row)
			continue
		}
		out[p.Rank()].Total += row.Total
	}
	return out, nil
}

func (s *Service) ResourcesByStatus(ctx context.Context) ([]Count, error) {
	rows, err := s.repo.ResourcesByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Label == "" {
			rows[i].Label = NoStatus
		}
	}
	return rows, nil
}
