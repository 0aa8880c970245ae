package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Member, int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Member, int, error)
	// Roster returns every member ordered by shift, then last name.
	Roster(ctx context.Context) ([]*Member, error)
	CountActive(ctx context.Context) (int, error)
}
