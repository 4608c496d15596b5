package service

import (
	"context"
	"time"

	"vidhub/internal/domain/entity"
)

// AccountEvent describes an account lifecycle transition for downstream consumers.
type AccountEvent struct {
	ID         string                  `json:"id"`
	RequestID  string                  `json:"request_id,omitempty"` // For distributed tracing
	Type       entity.AccountEventType `json:"type"`
	UserID     string                  `json:"user_id"`
	Username   string                  `json:"username"`
	OccurredAt time.Time               `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAccountEvent publishes an account event for async processing
	PublishAccountEvent(ctx context.Context, event *AccountEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
