package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/repository"
)

func newUserRepoMock(t *testing.T) (pgxmock.PgxPoolIface, *UserRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock, NewUserRepository(mock)
}

func sampleUser() domain.User {
	phone := "+52 993 123 4567"
	return domain.User{
		ID:           "8e7e1a8a-23cf-4f0b-9f6a-4f6b0f1dd001",
		Email:        "maria@example.com",
		PasswordHash: "argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Name:         "Maria",
		Surname:      "Torres",
		Phone:        &phone,
		RoleID:       2,
		Active:       true,
		RegisteredAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

func userColumns() []string {
	return []string{"id", "email", "password_hash", "name", "surname", "phone", "role_id", "active", "registered_at", "last_access_at"}
}

func TestUserRepositoryCreate(t *testing.T) {
	mock, repo := newUserRepoMock(t)
	user := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.PasswordHash, user.Name, user.Surname, *user.Phone, user.RoleID, user.Active, user.RegisteredAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryCreateUniqueViolation(t *testing.T) {
	mock, repo := newUserRepoMock(t)
	user := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.PasswordHash, user.Name, user.Surname, *user.Phone, user.RoleID, user.Active, user.RegisteredAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_idx"})

	if err := repo.Create(context.Background(), user); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserRepositoryGetByID(t *testing.T) {
	mock, repo := newUserRepoMock(t)
	user := sampleUser()

	rows := pgxmock.NewRows(userColumns()).
		AddRow(user.ID, user.Email, user.PasswordHash, user.Name, user.Surname, *user.Phone, user.RoleID, user.Active, user.RegisteredAt, nil)

	mock.ExpectQuery("SELECT id, email, password_hash, name, surname, phone, role_id, active, registered_at, last_access_at FROM users").
		WithArgs(user.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	if got.Email != user.Email {
		t.Fatalf("unexpected email: %s", got.Email)
	}
	if got.Phone == nil || *got.Phone != *user.Phone {
		t.Fatalf("unexpected phone: %v", got.Phone)
	}
	if got.LastAccessAt != nil {
		t.Fatalf("expected nil last access, got %v", got.LastAccessAt)
	}
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectQuery("SELECT id, email, password_hash, name, surname, phone, role_id, active, registered_at, last_access_at FROM users").
		WithArgs("missing-id").
		WillReturnRows(pgxmock.NewRows(userColumns()))

	if _, err := repo.GetByID(context.Background(), "missing-id"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepositoryGetActiveByEmailNotFound(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectQuery("SELECT id, email, password_hash, name, surname, phone, role_id, active, registered_at, last_access_at FROM users").
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns()))

	if _, err := repo.GetActiveByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepositoryExistsByEmail(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectQuery("SELECT 1 FROM users").
		WithArgs("maria@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "maria@example.com")
	if err != nil {
		t.Fatalf("ExistsByEmail returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected email to exist")
	}

	mock.ExpectQuery("SELECT 1 FROM users").
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}))

	exists, err = repo.ExistsByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("ExistsByEmail returned error: %v", err)
	}
	if exists {
		t.Fatal("expected email to be absent")
	}
}

func TestUserRepositoryTouchLastAccess(t *testing.T) {
	mock, repo := newUserRepoMock(t)
	at := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE users SET last_access_at").
		WithArgs(at, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.TouchLastAccess(context.Background(), "user-1", at); err != nil {
		t.Fatalf("TouchLastAccess returned error: %v", err)
	}

	mock.ExpectExec("UPDATE users SET last_access_at").
		WithArgs(at, "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.TouchLastAccess(context.Background(), "missing-id", at); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
