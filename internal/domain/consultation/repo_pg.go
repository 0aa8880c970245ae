package consultation

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/guardia/guardia/internal/domain/triage"
	"github.com/guardia/guardia/internal/platform/apperr"
	"github.com/guardia/guardia/internal/platform/db"
	"github.com/guardia/guardia/pkg/pagination"
)

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository { return &repoPG{q: q} }

const (
	consultationCols = `c.id, c.patient_id, p.first_name || ' ' || p.last_name, c.consulted_at,
	c.reason, c.diagnosis, c.treatment, c.physician, c.status, c.priority,
	c.suggested_priority, c.created_at, c.updated_at`
	consultationFrom = `consultation c JOIN patient p ON p.id = c.patient_id`
)

var searchCols = []string{"p.first_name", "p.last_name", "c.reason", "c.physician"}

// priorityRank orders stored literals High, Medium, Low; anything else last.
var priorityRank = func() string {
	var b strings.Builder
	b.WriteString("CASE c.priority")
	for _, p := range triage.Priorities() {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", p, p.Rank())
	}
	fmt.Fprintf(&b, " ELSE %d END", triage.RankOf(""))
	return b.String()
}()

func scanConsultation(row pgx.Row) (*Consultation, error) {
	var c Consultation
	var status string
	err := row.Scan(&c.ID, &c.PatientID, &c.PatientName, &c.ConsultedAt,
		&c.Reason, &c.Diagnosis, &c.Treatment, &c.Physician, &status, &c.Priority,
		&c.SuggestedPriority, &c.CreatedAt, &c.UpdatedAt)
	c.Status = Status(status)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Consultation) error {
	c.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO consultation (id, patient_id, consulted_at, reason, diagnosis, treatment,
			physician, status, priority, suggested_priority)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		c.ID, c.PatientID, c.ConsultedAt, c.Reason, c.Diagnosis, c.Treatment,
		c.Physician, string(c.Status), c.Priority, c.SuggestedPriority).Scan(&c.CreatedAt, &c.UpdatedAt)
	return apperr.FromDB(err, "consultation")
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	query, args, err := db.PSQL.Select(consultationCols).From(consultationFrom).
		Where(sq.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	c, err := scanConsultation(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, apperr.FromDB(err, "consultation")
	}
	return c, nil
}

func (r *repoPG) Update(ctx context.Context, c *Consultation) error {
	err := r.q.QueryRow(ctx, `
		UPDATE consultation SET patient_id=$2, consulted_at=$3, reason=$4, diagnosis=$5,
			treatment=$6, physician=$7, status=$8, priority=$9, updated_at=NOW()
		WHERE id = $1
		RETURNING suggested_priority, created_at, updated_at`,
		c.ID, c.PatientID, c.ConsultedAt, c.Reason, c.Diagnosis,
		c.Treatment, c.Physician, string(c.Status), c.Priority).
		Scan(&c.SuggestedPriority, &c.CreatedAt, &c.UpdatedAt)
	return apperr.FromDB(err, "consultation")
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE consultation SET status=$2, updated_at=NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return apperr.FromDB(err, "consultation")
	}
	if tag.RowsAffected() == 0 {
		return apperr.FromDB(pgx.ErrNoRows, "consultation")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM consultation WHERE id = $1`, id)
	if err != nil {
		return apperr.FromDB(err, "consultation")
	}
	if tag.RowsAffected() == 0 {
		return apperr.FromDB(pgx.ErrNoRows, "consultation")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Consultation, int, error) {
	return r.find(ctx, nil, pagination.Params{Limit: limit, Offset: offset})
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Consultation, int, error) {
	return r.find(ctx, db.ContainsFold(query, searchCols...), pagination.Params{Limit: limit, Offset: offset})
}

func (r *repoPG) Recent(ctx context.Context, n int) ([]*Consultation, error) {
	items, _, err := r.find(ctx, nil, pagination.Params{Limit: n})
	return items, err
}

func (r *repoPG) WaitingList(ctx context.Context) ([]*Consultation, error) {
	sel := db.PSQL.Select(consultationCols).From(consultationFrom).
		Where(sq.Eq{"c.status": string(StatusWaiting)}).
		OrderBy(priorityRank, "c.consulted_at ASC")
	return r.query(ctx, sel)
}

// find lists newest first.
func (r *repoPG) find(ctx context.Context, where sq.Sqlizer, pg pagination.Params) ([]*Consultation, int, error) {
	count := db.PSQL.Select("COUNT(*)").From(consultationFrom)
	sel := db.PSQL.Select(consultationCols).From(consultationFrom).
		OrderBy("c.consulted_at DESC")
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
		return nil, 0, apperr.FromDB(err, "count consultations")
	}

	items, err := r.query(ctx, sel)
	return items, total, err
}

func (r *repoPG) query(ctx context.Context, sel sq.SelectBuilder) ([]*Consultation, error) {
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromDB(err, "list consultations")
	}
	defer rows.Close()

	var items []*Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
