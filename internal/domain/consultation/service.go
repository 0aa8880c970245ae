package consultation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guardia/guardia/internal/domain/triage"
	"github.com/guardia/guardia/internal/platform/apperr"
)

// RecentLimit is how many consultations the desk's "recent" panel shows.
const RecentLimit = 10

// AgeLookup supplies a patient's age for triage; nil means unknown.
type AgeLookup interface {
	AgeOf(ctx context.Context, patientID uuid.UUID) *int
}

// Recorder receives triage telemetry. Optional.
type Recorder interface {
	RecordSuggestion(p triage.Priority)
	RecordConsultation(stored string, suggested triage.Priority)
	SetWaitingListSize(n int)
}

// Invalidator drops cached aggregates that count consultations. Optional.
type Invalidator interface {
	InvalidateDashboard(ctx context.Context)
}

type Service struct {
	repo      Repository
	ages      AgeLookup
	metrics   Recorder
	dashboard Invalidator
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(repo Repository, ages AgeLookup, log zerolog.Logger) *Service {
	return &Service{repo: repo, ages: ages, log: log, now: time.Now}
}

// SetMetrics attaches an optional telemetry recorder.
func (s *Service) SetMetrics(r Recorder) {
	s.metrics = r
}

// SetInvalidator attaches the cache to clear after writes.
func (s *Service) SetInvalidator(inv Invalidator) {
	s.dashboard = inv
}

func (s *Service) invalidate(ctx context.Context) {
	if s.dashboard != nil {
		s.dashboard.InvalidateDashboard(ctx)
	}
}

// Suggest runs the classifier for the intake form. The age comes from the
// patient record when patientID is given and the patient has one; otherwise
// from ageText as typed by the operator.
func (s *Service) Suggest(ctx context.Context, complaint string, patientID *uuid.UUID, ageText string) Suggestion {
	var age *int
	if patientID != nil && *patientID != uuid.Nil {
		age = s.ages.AgeOf(ctx, *patientID)
	}
	if age == nil && ageText != "" {
		age = triage.ParseAge(ageText)
	}

	sg := NewSuggestion(complaint, age)
	if s.metrics != nil {
		s.metrics.RecordSuggestion(sg.Priority)
	}
	return sg
}

func normalize(c *Consultation) error {
	c.Reason = strings.TrimSpace(c.Reason)
	c.Physician = strings.TrimSpace(c.Physician)
	if c.PatientID == uuid.Nil {
		return apperr.Invalid("patient_id is required")
	}
	if c.Reason == "" {
		return apperr.Invalid("reason is required")
	}
	if c.Physician == "" {
		return apperr.Invalid("physician is required")
	}
	if c.Status == "" {
		c.Status = StatusWaiting
	} else {
		st, err := ParseStatus(string(c.Status))
		if err != nil {
			return err
		}
		c.Status = st
	}
	return nil
}

func normalizePriority(stored string) (string, error) {
	p, err := triage.ParsePriority(stored)
	if err != nil {
		return "", apperr.Invalid("%s", err.Error())
	}
	return p.String(), nil
}

// CreateConsultation registers an intake. The classifier's tier is stored as
// suggested_priority; the operator's choice, when given, wins for priority.
func (s *Service) CreateConsultation(ctx context.Context, c *Consultation) error {
	if err := normalize(c); err != nil {
		return err
	}
	if c.ConsultedAt.IsZero() {
		c.ConsultedAt = s.now()
	}

	suggested := s.Suggest(ctx, c.Reason, &c.PatientID, "").Priority
	literal := suggested.String()
	c.SuggestedPriority = &literal

	if strings.TrimSpace(c.Priority) == "" {
		c.Priority = literal
	} else {
		stored, err := normalizePriority(c.Priority)
		if err != nil {
			return err
		}
		c.Priority = stored
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx)

	if s.metrics != nil {
		s.metrics.RecordConsultation(c.Priority, suggested)
	}
	if c.Overridden() {
		s.log.Info().
			Str("consultation_id", c.ID.String()).
			Str("suggested", literal).
			Str("chosen", c.Priority).
			Msg("triage suggestion overridden")
	}
	return nil
}

func (s *Service) GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateConsultation saves an edited consultation. Priority is required here;
// the classifier is not consulted again.
func (s *Service) UpdateConsultation(ctx context.Context, c *Consultation) error {
	if err := normalize(c); err != nil {
		return err
	}
	if c.ConsultedAt.IsZero() {
		return apperr.Invalid("consulted_at is required")
	}
	stored, err := normalizePriority(c.Priority)
	if err != nil {
		return err
	}
	c.Priority = stored
	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Status, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateStatus(ctx, id, st); err != nil {
		return "", err
	}
	s.invalidate(ctx)
	s.log.Info().
		Str("consultation_id", id.String()).
		Str("status", string(st)).
		Msg("consultation status changed")
	return st, nil
}

func (s *Service) DeleteConsultation(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) ListConsultations(ctx context.Context, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// SearchConsultations matches q against patient name, reason and physician.
func (s *Service) SearchConsultations(ctx context.Context, q string, limit, offset int) ([]*Consultation, int, error) {
	if q == "" {
		return s.repo.List(ctx, limit, offset)
	}
	return s.repo.Search(ctx, q, limit, offset)
}

func (s *Service) RecentConsultations(ctx context.Context) ([]*Consultation, error) {
	return s.repo.Recent(ctx, RecentLimit)
}

// WaitingList returns waiting consultations by stored priority, then arrival.
// The stable sort keeps the order deterministic whatever the store returns.
func (s *Service) WaitingList(ctx context.Context) ([]*Consultation, error) {
	items, err := s.repo.WaitingList(ctx)
	if err != nil {
		return nil, err
	}
	triage.SortWaitingList(items)
	if s.metrics != nil {
		s.metrics.SetWaitingListSize(len(items))
	}
	return items, nil
}
