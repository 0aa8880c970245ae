package staff

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

const staffCols = `id, first_name, last_name, specialty, license_number, shift, status,
	created_at, updated_at`

var searchCols = []string{"first_name", "last_name", "license_number"}

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Specialty, &m.LicenseNumber,
		&m.Shift, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Member) error {
	m.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO staff (id, first_name, last_name, specialty, license_number, shift, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		m.ID, m.FirstName, m.LastName, m.Specialty, m.LicenseNumber, m.Shift, m.Status).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	return apperr.FromDB(err, "staff member")
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	m, err := scanMember(r.q.QueryRow(ctx, `SELECT `+staffCols+` FROM staff WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromDB(err, "staff member")
	}
	return m, nil
}

func (r *repoPG) Update(ctx context.Context, m *Member) error {
	err := r.q.QueryRow(ctx, `
		UPDATE staff SET first_name=$2, last_name=$3, specialty=$4, license_number=$5,
			shift=$6, status=$7, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		m.ID, m.FirstName, m.LastName, m.Specialty, m.LicenseNumber, m.Shift, m.Status).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	return apperr.FromDB(err, "staff member")
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return apperr.FromDB(err, "staff member")
	}
	if tag.RowsAffected() == 0 {
		return apperr.FromDB(pgx.ErrNoRows, "staff member")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	return r.find(ctx, nil, pagination.Params{Limit: limit, Offset: offset})
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Member, int, error) {
	return r.find(ctx, db.ContainsFold(query, searchCols...), pagination.Params{Limit: limit, Offset: offset})
}

func (r *repoPG) Roster(ctx context.Context) ([]*Member, error) {
	sel := db.PSQL.Select(staffCols).From("staff").
		OrderBy("shift NULLS LAST", "last_name", "first_name")
	return r.query(ctx, sel)
}

func (r *repoPG) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM staff WHERE lower(status) = lower($1)`, StatusActive).Scan(&n)
	if err != nil {
		return 0, apperr.FromDB(err, "count active staff")
	}
	return n, nil
}

func (r *repoPG) find(ctx context.Context, where sq.Sqlizer, pg pagination.Params) ([]*Member, int, error) {
	count := db.PSQL.Select("COUNT(*)").From("staff")
	sel := db.PSQL.Select(staffCols).From("staff").
		OrderBy("last_name", "first_name")
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
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperr.FromDB(err, "count staff")
	}

	items, err := r.query(ctx, sel)
	return items, total, err
}

func (r *repoPG) query(ctx context.Context, sel sq.SelectBuilder) ([]*Member, error) {
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromDB(err, "list staff")
	}
	defer rows.Close()

	var items []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
