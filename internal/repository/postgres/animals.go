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

// AnimalRepository implements port.AnimalRepository using PostgreSQL.
type AnimalRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAnimalRepository constructs a PostgreSQL-backed animal repository.
func NewAnimalRepository(exec pgExecutor) *AnimalRepository {
	return &AnimalRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new animal row. Duplicate ear tags within a ranch are
// reported as repository.ErrDuplicate.
func (r *AnimalRepository) Create(ctx context.Context, animal domain.Animal) error {
	var nameValue any
	if animal.Name != nil && *animal.Name != "" {
		nameValue = *animal.Name
	}

	stmt, args, err := r.builder.Insert("animals").
		Columns(
			"id",
			"ranch_id",
			"ear_tag",
			"name",
			"breed",
			"sex",
			"birth_date",
			"weight_kg",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			animal.ID,
			animal.RanchID,
			animal.EarTag,
			nameValue,
			animal.Breed,
			animal.Sex,
			animal.BirthDate,
			animal.WeightKg,
			animal.Status,
			animal.CreatedAt,
			animal.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert animal sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert animal: %w", err)
	}

	return nil
}

// GetByID retrieves an animal by identifier.
func (r *AnimalRepository) GetByID(ctx context.Context, id string) (*domain.Animal, error) {
	stmt, args, err := r.selectAnimals().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select animal sql: %w", err)
	}

	return r.scanAnimal(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns animals matching the filter, newest first.
func (r *AnimalRepository) List(ctx context.Context, filter port.AnimalFilter) ([]domain.Animal, error) {
	query := r.selectAnimals().OrderBy("created_at DESC")

	if filter.RanchID != "" {
		query = query.Where(squirrel.Eq{"ranch_id": filter.RanchID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list animals sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query animals: %w", err)
	}
	defer rows.Close()

	animals := make([]domain.Animal, 0)
	for rows.Next() {
		animal, err := r.scanAnimalRow(rows)
		if err != nil {
			return nil, err
		}
		animals = append(animals, *animal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate animals: %w", err)
	}

	return animals, nil
}

// Update modifies an existing animal.
func (r *AnimalRepository) Update(ctx context.Context, animal domain.Animal) error {
	var nameValue any
	if animal.Name != nil && *animal.Name != "" {
		nameValue = *animal.Name
	}

	stmt, args, err := r.builder.Update("animals").
		Set("ear_tag", animal.EarTag).
		Set("name", nameValue).
		Set("breed", animal.Breed).
		Set("sex", animal.Sex).
		Set("birth_date", animal.BirthDate).
		Set("weight_kg", animal.WeightKg).
		Set("status", animal.Status).
		Set("updated_at", animal.UpdatedAt).
		Where(squirrel.Eq{"id": animal.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update animal sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("update animal: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes an animal row.
func (r *AnimalRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("animals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete animal sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete animal: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *AnimalRepository) selectAnimals() squirrel.SelectBuilder {
	return r.builder.Select(
		"id",
		"ranch_id",
		"ear_tag",
		"name",
		"breed",
		"sex",
		"birth_date",
		"weight_kg",
		"status",
		"created_at",
		"updated_at",
	).From("animals")
}

func (r *AnimalRepository) scanAnimal(row pgx.Row) (*domain.Animal, error) {
	animal, err := r.scanAnimalRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return animal, nil
}

func (r *AnimalRepository) scanAnimalRow(row pgx.Row) (*domain.Animal, error) {
	var (
		animal    domain.Animal
		name      sql.NullString
		birthDate *time.Time
		weight    *float64
	)

	if err := row.Scan(
		&animal.ID,
		&animal.RanchID,
		&animal.EarTag,
		&name,
		&animal.Breed,
		&animal.Sex,
		&birthDate,
		&weight,
		&animal.Status,
		&animal.CreatedAt,
		&animal.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan animal: %w", err)
	}

	if name.Valid {
		val := name.String
		animal.Name = &val
	}
	animal.BirthDate = birthDate
	animal.WeightKg = weight

	return &animal, nil
}

var _ port.AnimalRepository = (*AnimalRepository)(nil)
