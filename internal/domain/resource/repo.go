package resource

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Resource) error
	GetByID(ctx context.Context, id uuid.UUID) (*Resource, error)
	Update(ctx context.Context, r *Resource) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Resource, int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Resource, int, error)
	// Critical returns resources with quantity <= threshold, lowest first.
	Critical(ctx context.Context, threshold int) ([]*Resource, error)
	CountCritical(ctx context.Context, threshold int) (int, error)
}
