package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/port"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/repository"
)

// RanchRepository implements port.RanchRepository using PostgreSQL.
type RanchRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRanchRepository constructs a PostgreSQL-backed ranch repository.
func NewRanchRepository(exec pgExecutor) *RanchRepository {
	return &RanchRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new ranch row.
func (r *RanchRepository) Create(ctx context.Context, ranch domain.Ranch) error {
	stmt, args, err := r.builder.Insert("ranches").
		Columns("id", "name", "location", "owner_id", "hectares", "created_at", "updated_at").
		Values(ranch.ID, ranch.Name, ranch.Location, ranch.OwnerID, ranch.Hectares, ranch.CreatedAt, ranch.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert ranch sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert ranch: %w", err)
	}

	return nil
}

// GetByID retrieves a ranch by identifier.
func (r *RanchRepository) GetByID(ctx context.Context, id string) (*domain.Ranch, error) {
	stmt, args, err := r.selectRanches().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select ranch sql: %w", err)
	}

	var ranch domain.Ranch
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&ranch.ID,
		&ranch.Name,
		&ranch.Location,
		&ranch.OwnerID,
		&ranch.Hectares,
		&ranch.CreatedAt,
		&ranch.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan ranch: %w", err)
	}

	return &ranch, nil
}

// List returns all ranches ordered by creation time.
func (r *RanchRepository) List(ctx context.Context) ([]domain.Ranch, error) {
	stmt, args, err := r.selectRanches().
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list ranches sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query ranches: %w", err)
	}
	defer rows.Close()

	ranches := make([]domain.Ranch, 0)
	for rows.Next() {
		var ranch domain.Ranch
		if err := rows.Scan(
			&ranch.ID,
			&ranch.Name,
			&ranch.Location,
			&ranch.OwnerID,
			&ranch.Hectares,
			&ranch.CreatedAt,
			&ranch.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ranch: %w", err)
		}
		ranches = append(ranches, ranch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranches: %w", err)
	}

	return ranches, nil
}

// Update modifies an existing ranch.
func (r *RanchRepository) Update(ctx context.Context, ranch domain.Ranch) error {
	stmt, args, err := r.builder.Update("ranches").
		Set("name", ranch.Name).
		Set("location", ranch.Location).
		Set("hectares", ranch.Hectares).
		Set("updated_at", ranch.UpdatedAt).
		Where(squirrel.Eq{"id": ranch.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update ranch sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update ranch: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a ranch and, via cascade, its animals.
func (r *RanchRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("ranches").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete ranch sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete ranch: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *RanchRepository) selectRanches() squirrel.SelectBuilder {
	return r.builder.Select(
		"id",
		"name",
		"location",
		"owner_id",
		"hectares",
		"created_at",
		"updated_at",
	).From("ranches")
}

var _ port.RanchRepository = (*RanchRepository)(nil)
