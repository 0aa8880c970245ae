package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	DNI          *string   `db:"dni" json:"dni,omitempty"`
	Age          *int      `db:"age" json:"age,omitempty"`
	Gender       *string   `db:"gender" json:"gender,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Email        *string   `db:"email" json:"email,omitempty"`
	Address      *string   `db:"address" json:"address,omitempty"`
	Insurer      *string   `db:"insurer" json:"insurer,omitempty"`
	MemberNumber *string   `db:"member_number" json:"member_number,omitempty"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName is "First Last", the way the desk lists patients.
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// normalize trims text fields and turns blank optionals into nil.
func (p *Patient) normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	for _, f := range []**string{&p.DNI, &p.Gender, &p.Phone, &p.Email, &p.Address, &p.Insurer, &p.MemberNumber} {
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
