package consultation

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guardia/guardia/internal/domain/triage"
	"github.com/guardia/guardia/internal/platform/apperr"
)

// Status is stored as the desk's own literal.
type Status string

const (
	StatusWaiting   Status = "En espera"
	StatusAttended  Status = "Atendido"
	StatusCancelled Status = "Cancelada"
)

// ParseStatus accepts the stored literal or the English name, ignoring case.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en espera", "waiting":
		return StatusWaiting, nil
	case "atendido", "attended":
		return StatusAttended, nil
	case "cancelada", "cancelled", "canceled":
		return StatusCancelled, nil
	}
	return "", apperr.Invalid("unknown status %q", s)
}

// Consultation maps to the consultation table. PatientName is read-only and
// filled from the patient join.
type Consultation struct {
	ID                uuid.UUID `db:"id" json:"id"`
	PatientID         uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName       string    `db:"-" json:"patient_name,omitempty"`
	ConsultedAt       time.Time `db:"consulted_at" json:"consulted_at"`
	Reason            string    `db:"reason" json:"reason"`
	Diagnosis         *string   `db:"diagnosis" json:"diagnosis,omitempty"`
	Treatment         *string   `db:"treatment" json:"treatment,omitempty"`
	Physician         string    `db:"physician" json:"physician"`
	Status            Status    `db:"status" json:"status"`
	Priority          string    `db:"priority" json:"priority"`
	SuggestedPriority *string   `db:"suggested_priority" json:"suggested_priority,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

func (c *Consultation) StoredPriority() string  { return c.Priority }
func (c *Consultation) WaitingSince() time.Time { return c.ConsultedAt }

// Overridden reports whether the operator saved a tier other than the one
// suggested at intake.
func (c *Consultation) Overridden() bool {
	return c.SuggestedPriority != nil && *c.SuggestedPriority != c.Priority
}

// Suggestion is what the intake form shows next to the priority selector.
type Suggestion struct {
	Priority      triage.Priority `json:"priority"`
	Age           *int            `json:"age,omitempty"`
	VulnerableAge bool            `json:"vulnerable_age"`
	Matched       triage.Match    `json:"matched"`
}

// NewSuggestion classifies complaint with the given age, nil when unknown.
func NewSuggestion(complaint string, age *int) Suggestion {
	return Suggestion{
		Priority:      triage.SuggestPriority(complaint, age),
		Age:           age,
		VulnerableAge: triage.VulnerableAge(age),
		Matched:       triage.MatchedPhrases(complaint),
	}
}
