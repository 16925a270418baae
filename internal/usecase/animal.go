package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/port"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/repository"
)

var (
	// ErrAnimalNotFound indicates the animal does not exist.
	ErrAnimalNotFound = errors.New("animal not found")
	// ErrEarTagTaken indicates the ear tag is already used within the ranch.
	ErrEarTagTaken = errors.New("ear tag already registered in ranch")
)

// AnimalService manages herd records.
type AnimalService struct {
	animals port.AnimalRepository
	ranches port.RanchRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnimalService constructs an AnimalService.
func NewAnimalService(animals port.AnimalRepository, ranches port.RanchRepository, log *zap.Logger) *AnimalService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnimalService{animals: animals, ranches: ranches, logger: log, now: time.Now}
}

// AnimalInput carries the writable fields of an animal.
type AnimalInput struct {
	RanchID   string
	EarTag    string
	Name      string
	Breed     string
	Sex       string
	BirthDate *time.Time
	WeightKg  *float64
	Status    string
}

func (in AnimalInput) validate() error {
	if strings.TrimSpace(in.RanchID) == "" {
		return &ValidationError{Field: "ranchId", Message: "ranchId is required"}
	}
	if strings.TrimSpace(in.EarTag) == "" {
		return &ValidationError{Field: "earTag", Message: "earTag is required"}
	}
	if strings.TrimSpace(in.Breed) == "" {
		return &ValidationError{Field: "breed", Message: "breed is required"}
	}
	switch in.Sex {
	case "male", "female":
	default:
		return &ValidationError{Field: "sex", Message: "sex must be 'male' or 'female'"}
	}
	if in.WeightKg != nil && *in.WeightKg <= 0 {
		return &ValidationError{Field: "weightKg", Message: "weightKg must be positive"}
	}
	if in.Status != "" && !domain.AnimalStatus(in.Status).Valid() {
		return &ValidationError{Field: "status", Message: "status must be active, sold, or deceased"}
	}
	return nil
}

// Create registers a new animal within a ranch.
func (s *AnimalService) Create(ctx context.Context, input AnimalInput) (domain.Animal, error) {
	if err := input.validate(); err != nil {
		return domain.Animal{}, err
	}

	if _, err := s.ranches.GetByID(ctx, input.RanchID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Animal{}, ErrRanchNotFound
		}
		return domain.Animal{}, fmt.Errorf("lookup ranch: %w", err)
	}

	status := domain.AnimalStatus(input.Status)
	if input.Status == "" {
		status = domain.AnimalStatusActive
	}

	now := s.now().UTC()
	animal := domain.Animal{
		ID:        uuid.NewString(),
		RanchID:   input.RanchID,
		EarTag:    strings.TrimSpace(input.EarTag),
		Breed:     strings.TrimSpace(input.Breed),
		Sex:       input.Sex,
		BirthDate: input.BirthDate,
		WeightKg:  input.WeightKg,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		animal.Name = &name
	}

	if err := s.animals.Create(ctx, animal); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Animal{}, ErrEarTagTaken
		}
		return domain.Animal{}, fmt.Errorf("create animal: %w", err)
	}

	s.logger.Info("animal registered",
		zap.String("animal_id", animal.ID),
		zap.String("ranch_id", animal.RanchID),
		zap.String("ear_tag", animal.EarTag),
	)

	return animal, nil
}

// Get returns an animal by id.
func (s *AnimalService) Get(ctx context.Context, id string) (domain.Animal, error) {
	animal, err := s.animals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Animal{}, ErrAnimalNotFound
		}
		return domain.Animal{}, fmt.Errorf("lookup animal: %w", err)
	}
	return *animal, nil
}

// List returns animals matching the filter.
func (s *AnimalService) List(ctx context.Context, filter port.AnimalFilter) ([]domain.Animal, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "status must be active, sold, or deceased"}
	}

	animals, err := s.animals.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	return animals, nil
}

// Update modifies an existing animal.
func (s *AnimalService) Update(ctx context.Context, id string, input AnimalInput) (domain.Animal, error) {
	current, err := s.animals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Animal{}, ErrAnimalNotFound
		}
		return domain.Animal{}, fmt.Errorf("lookup animal: %w", err)
	}

	// The ranch binding is immutable; validate against the stored one.
	input.RanchID = current.RanchID
	if err := input.validate(); err != nil {
		return domain.Animal{}, err
	}

	current.EarTag = strings.TrimSpace(input.EarTag)
	current.Breed = strings.TrimSpace(input.Breed)
	current.Sex = input.Sex
	current.BirthDate = input.BirthDate
	current.WeightKg = input.WeightKg
	current.Name = nil
	if name := strings.TrimSpace(input.Name); name != "" {
		current.Name = &name
	}
	if input.Status != "" {
		current.Status = domain.AnimalStatus(input.Status)
	}
	current.UpdatedAt = s.now().UTC()

	if err := s.animals.Update(ctx, *current); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return domain.Animal{}, ErrEarTagTaken
		case errors.Is(err, repository.ErrNotFound):
			return domain.Animal{}, ErrAnimalNotFound
		}
		return domain.Animal{}, fmt.Errorf("update animal: %w", err)
	}

	return *current, nil
}

// Delete removes an animal record.
func (s *AnimalService) Delete(ctx context.Context, id string) error {
	if err := s.animals.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAnimalNotFound
		}
		return fmt.Errorf("delete animal: %w", err)
	}

	s.logger.Info("animal deleted", zap.String("animal_id", id))
	return nil
}
