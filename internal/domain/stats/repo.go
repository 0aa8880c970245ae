package stats

import (
	"context"
	"time"
)

// Repository runs the aggregate queries. Time ranges are half-open: [from, to).
type Repository interface {
	CountWaiting(ctx context.Context) (int, error)
	CountConsultations(ctx context.Context, from, to time.Time) (int, error)
	CountActiveStaff(ctx context.Context) (int, error)
	CountCriticalResources(ctx context.Context, threshold int) (int, error)
	// PriorityBreakdown counts consultations per stored priority literal.
	PriorityBreakdown(ctx context.Context, from, to time.Time) ([]Count, error)
	// ResourcesByStatus counts resources per status; a null status has an
	// empty label.
	ResourcesByStatus(ctx context.Context) ([]Count, error)
}
