package patient

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

const patientCols = `id, first_name, last_name, dni, age, gender, phone, email,
	address, insurer, member_number, registered_at, updated_at`

var searchCols = []string{"first_name", "last_name", "dni"}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DNI, &p.Age, &p.Gender, &p.Phone, &p.Email,
		&p.Address, &p.Insurer, &p.MemberNumber, &p.RegisteredAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO patient (id, first_name, last_name, dni, age, gender, phone, email,
			address, insurer, member_number)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING registered_at, updated_at`,
		p.ID, p.FirstName, p.LastName, p.DNI, p.Age, p.Gender, p.Phone, p.Email,
		p.Address, p.Insurer, p.MemberNumber).Scan(&p.RegisteredAt, &p.UpdatedAt)
	return apperr.FromDB(err, "patient")
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.q.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromDB(err, "patient")
	}
	return p, nil
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	err := r.q.QueryRow(ctx, `
		UPDATE patient SET first_name=$2, last_name=$3, dni=$4, age=$5, gender=$6, phone=$7,
			email=$8, address=$9, insurer=$10, member_number=$11, updated_at=NOW()
		WHERE id = $1
		RETURNING registered_at, updated_at`,
		p.ID, p.FirstName, p.LastName, p.DNI, p.Age, p.Gender, p.Phone,
		p.Email, p.Address, p.Insurer, p.MemberNumber).Scan(&p.RegisteredAt, &p.UpdatedAt)
	return apperr.FromDB(err, "patient")
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return apperr.FromDB(err, "patient")
	}
	if tag.RowsAffected() == 0 {
		return apperr.FromDB(pgx.ErrNoRows, "patient")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return r.find(ctx, nil, pagination.Params{Limit: limit, Offset: offset})
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	return r.find(ctx, db.ContainsFold(query, searchCols...), pagination.Params{Limit: limit, Offset: offset})
}

func (r *repoPG) find(ctx context.Context, where sq.Sqlizer, pg pagination.Params) ([]*Patient, int, error) {
	count := db.PSQL.Select("COUNT(*)").From("patient")
	sel := db.PSQL.Select(patientCols).From("patient").
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
		return nil, 0, apperr.FromDB(err, "count patients")
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.FromDB(err, "list patients")
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
