package stats

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/guardia/guardia/internal/domain/consultation"
	"github.com/guardia/guardia/internal/domain/staff"
	"github.com/guardia/guardia/internal/platform/apperr"
	"github.com/guardia/guardia/internal/platform/db"
)

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository { return &repoPG{q: q} }

func (r *repoPG) count(ctx context.Context, what, query string, args ...any) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, apperr.FromDB(err, what)
	}
	return n, nil
}

func (r *repoPG) CountWaiting(ctx context.Context) (int, error) {
	return r.count(ctx, "count waiting",
		`SELECT COUNT(*) FROM consultation WHERE status = $1`, string(consultation.StatusWaiting))
}

func (r *repoPG) CountConsultations(ctx context.Context, from, to time.Time) (int, error) {
	return r.count(ctx, "count consultations",
		`SELECT COUNT(*) FROM consultation WHERE consulted_at >= $1 AND consulted_at < $2`, from, to)
}

func (r *repoPG) CountActiveStaff(ctx context.Context) (int, error) {
	return r.count(ctx, "count active staff",
		`SELECT COUNT(*) FROM staff WHERE lower(status) = lower($1)`, staff.StatusActive)
}

func (r *repoPG) CountCriticalResources(ctx context.Context, threshold int) (int, error) {
	return r.count(ctx, "count critical resources",
		`SELECT COUNT(*) FROM resource WHERE quantity <= $1`, threshold)
}

func (r *repoPG) PriorityBreakdown(ctx context.Context, from, to time.Time) ([]Count, error) {
	query, args, err := db.PSQL.Select("priority", "COUNT(*)").From("consultation").
		Where("consulted_at >= ? AND consulted_at < ?", from, to).
		GroupBy("priority").
		OrderBy("priority").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.grouped(ctx, "priority breakdown", query, args...)
}

func (r *repoPG) ResourcesByStatus(ctx context.Context) ([]Count, error) {
	query, args, err := db.PSQL.Select("COALESCE(status, '')", "COUNT(*)").From("resource").
		GroupBy("COALESCE(status, '')").
		OrderBy("COUNT(*) DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.grouped(ctx, "resources by status", query, args...)
}

func (r *repoPG) grouped(ctx context.Context, what, query string, args ...any) ([]Count, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromDB(err, what)
	}
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Count, error) {
		var c Count
		err := row.Scan(&c.Label, &c.Total)
		return c, err
	})
	if err != nil {
		return nil, apperr.FromDB(err, what)
	}
	return counts, nil
}
