package consultation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	Update(ctx context.Context, c *Consultation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Consultation, int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Consultation, int, error)
	Recent(ctx context.Context, n int) ([]*Consultation, error)
	// WaitingList returns consultations in StatusWaiting ordered by stored
	// priority rank, then consulted_at ascending.
	WaitingList(ctx context.Context) ([]*Consultation, error)
}
