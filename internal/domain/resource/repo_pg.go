package resource

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/guardia/guardia/internal/platform/apperr"
	"github.com/guardia/guardia/internal/platform/db"
	"github.com/guardia/guardia/pkg/pagination"
)

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository { return &repoPG{q: q} }

const resourceCols = `id, kind, name, quantity, status, created_at, updated_at`

var searchCols = []string{"kind", "name"}

func scanResource(row pgx.Row) (*Resource, error) {
	var r Resource
	err := row.Scan(&r.ID, &r.Kind, &r.Name, &r.Quantity, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return &r, err
}

func (p *repoPG) Create(ctx context.Context, r *Resource) error {
	r.ID = uuid.New()
	err := p.q.QueryRow(ctx, `
		INSERT INTO resource (id, kind, name, quantity, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		r.ID, r.Kind, r.Name, r.Quantity, r.Status).Scan(&r.CreatedAt, &r.UpdatedAt)
	return apperr.FromDB(err, "resource")
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Resource, error) {
	r, err := scanResource(p.q.QueryRow(ctx, `SELECT `+resourceCols+` FROM resource WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromDB(err, "resource")
	}
	return r, nil
}

func (p *repoPG) Update(ctx context.Context, r *Resource) error {
	err := p.q.QueryRow(ctx, `
		UPDATE resource SET kind=$2, name=$3, quantity=$4, status=$5, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		r.ID, r.Kind, r.Name, r.Quantity, r.Status).Scan(&r.CreatedAt, &r.UpdatedAt)
	return apperr.FromDB(err, "resource")
}

func (p *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.q.Exec(ctx, `DELETE FROM resource WHERE id = $1`, id)
	if err != nil {
		return apperr.FromDB(err, "resource")
	}
	if tag.RowsAffected() == 0 {
		return apperr.FromDB(pgx.ErrNoRows, "resource")
	}
	return nil
}

func (p *repoPG) List(ctx context.Context, limit, offset int) ([]*Resource, int, error) {
	return p.find(ctx, nil, pagination.Params{Limit: limit, Offset: offset})
}

func (p *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Resource, int, error) {
	return p.find(ctx, db.ContainsFold(query, searchCols...), pagination.Params{Limit: limit, Offset: offset})
}

func (p *repoPG) Critical(ctx context.Context, threshold int) ([]*Resource, error) {
	sel := db.PSQL.Select(resourceCols).From("resource").
		Where(sq.LtOrEq{"quantity": threshold}).
		OrderBy("quantity", "kind", "name")
	return p.query(ctx, sel)
}

func (p *repoPG) CountCritical(ctx context.Context, threshold int) (int, error) {
	var n int
	err := p.q.QueryRow(ctx, `SELECT COUNT(*) FROM resource WHERE quantity <= $1`, threshold).Scan(&n)
	if err != nil {
		return 0, apperr.FromDB(err, "count critical resources")
	}
	return n, nil
}

func (p *repoPG) find(ctx context.Context, where sq.Sqlizer, pg pagination.Params) ([]*Resource, int, error) {
	count := db.PSQL.Select("COUNT(*)").From("resource")
	sel := db.PSQL.Select(resourceCols).From("resource").
		OrderBy("kind", "name")
	if where != nil {
		count = count.Where(where)
		sel = sel.Where(where)
	}
	sel = pg.Apply(sel)

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := p.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperr.FromDB(err, "count resources")
	}

	items, err := p.query(ctx, sel)
	return items, total, err
}

func (p *repoPG) query(ctx context.Context, sel sq.SelectBuilder) ([]*Resource, error) {
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := p.q.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromDB(err, "list resources")
	}
	defer rows.Close()

	var items []*Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
