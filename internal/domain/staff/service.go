package staff

import (
	"context"

	"github.com/google/uuid"

	"github.com/guardia/guardia/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(m *Member) error {
	m.normalize()
	if m.FirstName == "" || m.LastName == "" {
		return apperr.Invalid("first_name and last_name are required")
	}
	if m.LicenseNumber == "" {
		return apperr.Invalid("license_number is required")
	}
	return nil
}

func (s *Service) CreateMember(ctx context.Context, m *Member) error {
	if err := validate(m); err != nil {
		return err
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) GetMember(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateMember(ctx context.Context, m *Member) error {
	if err := validate(m); err != nil {
		return err
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) DeleteMember(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// SearchMembers matches q against names and license number. A blank query
// lists everyone.
func (s *Service) SearchMembers(ctx context.Context, q string, limit, offset int) ([]*Member, int, error) {
	if q == "" {
		return s.repo.List(ctx, limit, offset)
	}
	return s.repo.Search(ctx, q, limit, offset)
}

func (s *Service) Roster(ctx context.Context) ([]*Member, error) {
	return s.repo.Roster(ctx)
}

func (s *Service) CountActive(ctx context.Context) (int, error) {
	return s.repo.CountActive(ctx)
}
