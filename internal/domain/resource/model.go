package resource

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCriticalThreshold is the stock level at or below which a resource
// is listed as critical.
const DefaultCriticalThreshold = 5

// Resource maps to the resource table: a stock line of supplies or equipment.
type Resource struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Kind      string    `db:"kind" json:"kind"`
	Name      string    `db:"name" json:"name"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Status    *string   `db:"status" json:"status,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (r *Resource) normalize() {
	r.Kind = strings.TrimSpace(r.Kind)
	r.Name = strings.TrimSpace(r.Name)
	if r.Status != nil {
		v := strings.TrimSpace(*r.Status)
		if v == "" {
			r.Status = nil
		} else {
			r.Status = &v
		}
	}
}
