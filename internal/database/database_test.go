package database

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"pgx match", &pgconn.PgError{Code: "23505", ConstraintName: "orders_payment_reference_key"}, "orders_payment_reference_key", true},
		{"pgx wrapped", fmt.Errorf("insert order: %w", &pgconn.PgError{Code: "23505"}), "", true},
		{"pgx other constraint", &pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key"}, "orders_payment_reference_key", false},
		{"pgx other code", &pgconn.PgError{Code: "23503"}, "", false},
		{"pq match", &pq.Error{Code: "23505", Constraint: "users_email_key"}, "users_email_key", true},
		{"pq other code", &pq.Error{Code: "40001"}, "", false},
		{"plain error", errors.New("duplicate"), "", false},
		{"nil", nil, "", false},
	}
	for _, tc := range cases {
		if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
			t.Errorf("%s: expected %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestOpen_RequiresURL(t *testing.T) {
	if _, err := Open("pgx", ""); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	if ups == 0 || ups != downs {
		t.Fatalf("expected paired up/down migrations, got %d up and %d down", ups, downs)
	}
}
