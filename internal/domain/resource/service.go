package resource

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guardia/guardia/internal/platform/apperr"
)

// Gauge receives the critical resource count. Optional.
type Gauge interface {
	SetCriticalResources(n int)
}

// Invalidator drops cached aggregates that count critical stock. Optional.
type Invalidator interface {
	InvalidateDashboard(ctx context.Context)
}

type Service struct {
	repo      Repository
	threshold int
	log       zerolog.Logger
	gauge     Gauge
	dashboard Invalidator
}

// NewService builds the inventory service. A negative threshold falls back to
// DefaultCriticalThreshold.
func NewService(repo Repository, threshold int, log zerolog.Logger) *Service {
	if threshold < 0 {
		threshold = DefaultCriticalThreshold
	}
	return &Service{repo: repo, threshold: threshold, log: log}
}

func (s *Service) SetMetrics(g Gauge) {
	s.gauge = g
}

func (s *Service) SetInvalidator(inv Invalidator) {
	s.dashboard = inv
}

func (s *Service) invalidate(ctx context.Context) {
	if s.dashboard != nil {
		s.dashboard.InvalidateDashboard(ctx)
	}
}

func (s *Service) Threshold() int { return s.threshold }

func validate(r *Resource) error {
	r.normalize()
	if r.Kind == "" || r.Name == "" {
		return apperr.Invalid("kind and name are required")
	}
	if r.Quantity < 0 {
		return apperr.Invalid("quantity must be zero or positive")
	}
	return nil
}

func (s *Service) CreateResource(ctx context.Context, r *Resource) error {
	if err := validate(r); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.warnIfCritical(r)
	return nil
}

func (s *Service) GetResource(ctx context.Context, id uuid.UUID) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateResource(ctx context.Context, r *Resource) error {
	if err := validate(r); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.warnIfCritical(r)
	return nil
}

func (s *Service) warnIfCritical(r *Resource) {
	if r.Quantity > s.threshold {
		return
	}
	s.log.Warn().
		Str("resource_id", r.ID.String()).
		Str("kind", r.Kind).
		Str("name", r.Name).
		Int("quantity", r.Quantity).
		Int("threshold", s.threshold).
		Msg("critical stock")
}

func (s *Service) DeleteResource(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// SearchResources matches q against kind and name. A blank query lists all.
func (s *Service) SearchResources(ctx context.Context, q string, limit, offset int) ([]*Resource, int, error) {
	if q == "" {
		return s.repo.List(ctx, limit, offset)
	}
	return s.repo.Search(ctx, q, limit, offset)
}

func (s *Service) Critical(ctx context.Context) ([]*Resource, error) {
	items, err := s.repo.Critical(ctx, s.threshold)
	if err != nil {
		return nil, err
	}
	if s.gauge != nil {
		s.gauge.SetCriticalResources(len(items))
	}
	return items, nil
}

func (s *Service) CountCritical(ctx context.Context) (int, error) {
	n, err := s.repo.CountCritical(ctx, s.threshold)
	if err != nil {
		return 0, err
	}
	if s.gauge != nil {
		s.gauge.SetCriticalResources(n)
	}
	return n, nil
}
