package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPostgresCreate_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("ana@example.com", "hash", "Ana", "Lima", "").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err = repo.Create(context.Background(), User{Email: " Ana@Example.com ", Password: "hash", FirstName: "Ana", LastName: "Lima"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreateAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "created_at", "updated_at"}).AddRow(11, now, now))
	created, err := repo.Create(context.Background(), User{Email: "ana@example.com", Password: "hash"})
	if err != nil || created.ID != 11 {
		t.Fatalf("unexpected create result %+v %v", created, err)
	}

	cols := []string{"user_id", "email", "password", "first_name", "last_name", "phone", "created_at", "updated_at"}
	mock.ExpectQuery("FROM users").WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(11, "ana@example.com", "hash", "Ana", "Lima", "", now, now))
	u, err := repo.GetByEmail(context.Background(), "ANA@example.com")
	if err != nil || u.FirstName != "Ana" {
		t.Fatalf("unexpected get result %+v %v", u, err)
	}

	mock.ExpectQuery("FROM users").WithArgs(99).WillReturnRows(sqlmock.NewRows(cols))
	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
