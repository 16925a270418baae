package port

import (
	"context"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
)

// RoleRepository exposes read access to the seeded roles catalogue.
type RoleRepository interface {
	GetByID(ctx context.Context, id int) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
}
