package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert patient: %w", &pgconn.PgError{Code: "23505"})
	if !IsUniqueViolation(err) {
		t.Error("expected wrapped 23505 to be a unique violation")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Error("plain error is not a unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key error is not a unique violation")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("expected 23503 to be a foreign key violation")
	}
	if IsForeignKeyViolation(nil) {
		t.Error("nil is not a foreign key violation")
	}
}

func TestNewPool_InvalidURL(t *testing.T) {
	if _, err := NewPool(context.Background(), "://not a url", 2, 1); err == nil {
		t.Fatal("expected parse error")
	}
}
