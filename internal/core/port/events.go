package port

import (
	"context"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
)

// EventPublisher emits audit events about account activity.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserLoggedIn(ctx context.Context, event domain.UserLoggedInEvent) error
}
