package db

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// PSQL builds statements with Postgres $n placeholders.
var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ContainsFold matches rows where any of cols contains q, ignoring case.
// strpos keeps % and _ in q literal, unlike LIKE.
func ContainsFold(q string, cols ...string) sq.Or {
	q = strings.ToLower(strings.TrimSpace(q))
	or := make(sq.Or, 0, len(cols))
	for _, col := range cols {
		or = append(or, sq.Expr("strpos(lower(coalesce("+col+", '')), ?) > 0", q))
	}
	return or
}
