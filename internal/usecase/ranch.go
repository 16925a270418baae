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

// ErrRanchNotFound indicates the ranch does not exist.
var ErrRanchNotFound = errors.New("ranch not found")

// RanchService manages ranch records.
type RanchService struct {
	ranches port.RanchRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewRanchService constructs a RanchService.
func NewRanchService(ranches port.RanchRepository, log *zap.Logger) *RanchService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RanchService{ranches: ranches, logger: log, now: time.Now}
}

// RanchInput carries the writable fields of a ranch.
type RanchInput struct {
	Name     string
	Location string
	Hectares float64
}

func (in RanchInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(in.Location) == "" {
		return &ValidationError{Field: "location", Message: "location is required"}
	}
	if in.Hectares < 0 {
		return &ValidationError{Field: "hectares", Message: "hectares must not be negative"}
	}
	return nil
}

// Create registers a new ranch owned by the given user.
func (s *RanchService) Create(ctx context.Context, ownerID string, input RanchInput) (domain.Ranch, error) {
	if err := input.validate(); err != nil {
		return domain.Ranch{}, err
	}

	now := s.now().UTC()
	ranch := domain.Ranch{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Location:  strings.TrimSpace(input.Location),
		OwnerID:   ownerID,
		Hectares:  input.Hectares,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ranches.Create(ctx, ranch); err != nil {
		return domain.Ranch{}, fmt.Errorf("create ranch: %w", err)
	}

	s.logger.Info("ranch created",
		zap.String("ranch_id", ranch.ID),
		zap.String("owner_id", ownerID),
	)

	return ranch, nil
}

// Get returns a ranch by id.
func (s *RanchService) Get(ctx context.Context, id string) (domain.Ranch, error) {
	ranch, err := s.ranches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Ranch{}, ErrRanchNotFound
		}
		return domain.Ranch{}, fmt.Errorf("lookup ranch: %w", err)
	}
	return *ranch, nil
}

// List returns all ranches.
func (s *RanchService) List(ctx context.Context) ([]domain.Ranch, error) {
	ranches, err := s.ranches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ranches: %w", err)
	}
	return ranches, nil
}

// Update modifies an existing ranch.
func (s *RanchService) Update(ctx context.Context, id string, input RanchInput) (domain.Ranch, error) {
	if err := input.validate(); err != nil {
		return domain.Ranch{}, err
	}

	current, err := s.ranches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Ranch{}, ErrRanchNotFound
		}
		return domain.Ranch{}, fmt.Errorf("lookup ranch: %w", err)
	}

	current.Name = strings.TrimSpace(input.Name)
	current.Location = strings.TrimSpace(input.Location)
	current.Hectares = input.Hectares
	current.UpdatedAt = s.now().UTC()

	if err := s.ranches.Update(ctx, *current); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Ranch{}, ErrRanchNotFound
		}
		return domain.Ranch{}, fmt.Errorf("update ranch: %w", err)
	}

	return *current, nil
}

// Delete removes a ranch and its animals.
func (s *RanchService) Delete(ctx context.Context, id string) error {
	if err := s.ranches.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRanchNotFound
		}
		return fmt.Errorf("delete ranch: %w", err)
	}

	s.logger.Info("ranch deleted", zap.String("ranch_id", id))
	return nil
}
