package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/port"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/repository"
)

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(exec pgExecutor) *UserRepository {
	return &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new user row. A unique violation on the email index is
// reported as repository.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	var phoneValue any
	if user.Phone != nil && *user.Phone != "" {
		phoneValue = *user.Phone
	}

	query := r.builder.Insert("users").
		Columns(
			"id",
			"email",
			"password_hash",
			"name",
			"surname",
			"phone",
			"role_id",
			"active",
			"registered_at",
		).
		Values(
			user.ID,
			user.Email,
			user.PasswordHash,
			user.Name,
			user.Surname,
			phoneValue,
			user.RoleID,
			user.Active,
			user.RegisteredAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.selectUsers().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// GetActiveByEmail retrieves an active user by normalized email.
func (r *UserRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt, args, err := r.selectUsers().
		Where(squirrel.Expr("lower(email) = lower(?)", email)).
		Where(squirrel.Eq{"active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by email sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// ExistsByEmail reports whether any user row holds the given email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From("users").
		Where(squirrel.Expr("lower(email) = lower(?)", email)).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build user exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("scan user exists: %w", err)
	}

	return true, nil
}

// TouchLastAccess records the moment of a successful login.
func (r *UserRepository) TouchLastAccess(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("users").
		Set("last_access_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch last access sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("touch last access: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) selectUsers() squirrel.SelectBuilder {
	return r.builder.Select(
		"id",
		"email",
		"password_hash",
		"name",
		"surname",
		"phone",
		"role_id",
		"active",
		"registered_at",
		"last_access_at",
	).From("users")
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user       domain.User
		phone      sql.NullString
		lastAccess *time.Time
	)

	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Surname,
		&phone,
		&user.RoleID,
		&user.Active,
		&user.RegisteredAt,
		&lastAccess,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if phone.Valid {
		val := phone.String
		user.Phone = &val
	}
	user.LastAccessAt = lastAccess

	return &user, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
