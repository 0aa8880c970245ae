package staff

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StatusActive is the roster status counted as on duty. Status and shift are
// free text on the desk, so other values are kept as entered.
const (
	StatusActive   = "Activo"
	StatusInactive = "Inactivo"
)

// Member maps to the staff table.
type Member struct {
	ID            uuid.UUID `db:"id" json:"id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	Specialty     *string   `db:"specialty" json:"specialty,omitempty"`
	LicenseNumber string    `db:"license_number" json:"license_number"`
	Shift         *string   `db:"shift" json:"shift,omitempty"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Active reports whether the member counts as on duty.
func (m *Member) Active() bool {
	return strings.EqualFold(m.Status, StatusActive)
}

func (m *Member) normalize() {
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	m.LicenseNumber = strings.TrimSpace(m.LicenseNumber)
	m.Status = strings.TrimSpace(m.Status)
	if m.Status == "" {
		m.Status = StatusActive
	}
	for _, f := range []**string{&m.Specialty, &m.Shift} {
		if *f == nil {
			continue
		}
		v := strings.TrimSpace(**f)
		if v == "" {
			*f = nil
			continue
		}
		*f = &v
	}
}
