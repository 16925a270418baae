package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/port"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/infra/logger"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(log *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: log}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"email":         logger.MaskEmail(event.Email),
		"role_id":       event.RoleID,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent(eventUserRegistered, event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishUserLoggedIn logs user.logged_in events.
func (p *StubPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	payload := map[string]any{
		"user_id":      event.UserID,
		"email":        logger.MaskEmail(event.Email),
		"role":         event.Role,
		"ip":           logger.MaskIP(event.IP),
		"logged_in_at": event.LoggedInAt,
	}
	p.logEvent(eventUserLoggedIn, event.UserID, event.LoggedInAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
