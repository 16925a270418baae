package port

import (
	"context"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
)

// RanchRepository exposes persistence behavior for ranches.
type RanchRepository interface {
	Create(ctx context.Context, ranch domain.Ranch) error
	GetByID(ctx context.Context, id string) (*domain.Ranch, error)
	List(ctx context.Context) ([]domain.Ranch, error)
	Update(ctx context.Context, ranch domain.Ranch) error
	Delete(ctx context.Context, id string) error
}

// AnimalFilter narrows animal listings.
type AnimalFilter struct {
	RanchID string
	Status  domain.AnimalStatus
	Limit   int
	Offset  int
}

// AnimalRepository exposes persistence behavior for animals.
type AnimalRepository interface {
	Create(ctx context.Context, animal domain.Animal) error
	GetByID(ctx context.Context, id string) (*domain.Animal, error)
	List(ctx context.Context, filter AnimalFilter) ([]domain.Animal, error)
	Update(ctx context.Context, animal domain.Animal) error
	Delete(ctx context.Context, id string) error
}
