package port

import (
	"context"
	"time"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
)

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetActiveByEmail looks up an active user by normalized email.
	// Inactive accounts are reported as not found.
	GetActiveByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	TouchLastAccess(ctx context.Context, id string, at time.Time) error
}
