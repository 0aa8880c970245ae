package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/guardia/guardia/internal/platform/apperr"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func validate(p *Patient) error {
	p.normalize()
	if p.FirstName == "" || p.LastName == "" {
		return apperr.Invalid("first_name and last_name are required")
	}
	if p.Age != nil && *p.Age < 0 {
		return apperr.Invalid("age must be zero or positive")
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// SearchPatients matches q against first name, last name and DNI. A blank
// query lists everyone.
func (s *Service) SearchPatients(ctx context.Context, q string, limit, offset int) ([]*Patient, int, error) {
	if q == "" {
		return s.patients.List(ctx, limit, offset)
	}
	return s.patients.Search(ctx, q, limit, offset)
}

// AgeOf returns the registered age of a patient for triage, or nil when the
// patient is unknown, has no age on file, or the age is not positive.
func (s *Service) AgeOf(ctx context.Context, id uuid.UUID) *int {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil || p.Age == nil || *p.Age <= 0 {
		return nil
	}
	age := *p.Age
	return &age
}
