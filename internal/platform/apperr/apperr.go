// Package apperr holds the error sentinels shared by the desk services and
// their mapping to HTTP status codes.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/guardia/guardia/internal/platform/db"
)

var (
	ErrInvalid  = errors.New("invalid input")
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Invalid builds a validation error; the message is what the client sees.
func Invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

type validationError struct{ msg string }

func (e *validationError) Error() string        { return e.msg }
func (e *validationError) Is(target error) bool { return target == ErrInvalid }

// dbError carries a client-safe message. The driver error stays reachable
// through errors.As and is attached to the HTTP error for logging only.
type dbError struct {
	msg      string
	sentinel error
	cause    error
}

func (e *dbError) Error() string   { return e.msg }
func (e *dbError) Unwrap() []error { return []error{e.sentinel, e.cause} }

// FromDB translates driver errors into the sentinels above. Constraint and
// table names never reach Error(); the original is kept in the chain.
func FromDB(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s %w", what, ErrNotFound)
	case db.IsUniqueViolation(err):
		return &dbError{msg: what + " already exists", sentinel: ErrConflict, cause: err}
	case db.IsForeignKeyViolation(err):
		return &dbError{msg: what + " references a missing record", sentinel: ErrInvalid, cause: err}
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// ToHTTP maps a service error to an echo error. Unknown errors become 500
// without leaking the underlying message.
func ToHTTP(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalid):
		return clientError(http.StatusBadRequest, err)
	case errors.Is(err, ErrNotFound):
		return clientError(http.StatusNotFound, err)
	case errors.Is(err, ErrConflict):
		return clientError(http.StatusConflict, err)
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "request timed out")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}

func clientError(code int, err error) *echo.HTTPError {
	he := echo.NewHTTPError(code, err.Error())
	var de *dbError
	if errors.As(err, &de) {
		he.SetInternal(de.cause)
	}
	return he
}
