package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/domain/entity"
	"vidhub/internal/domain/service"

	"github.com/google/uuid"
)

// publishAccountEvent logs publishing failures and never returns them.
func publishAccountEvent(ctx context.Context, publisher service.EventPublisher, logger *slog.Logger, eventType entity.AccountEventType, user *entity.User) {
	if publisher == nil || user == nil {
		return
	}

	event := &service.AccountEvent{
		ID:         uuid.NewString(),
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		UserID:     user.ID.String(),
		Username:   user.Username,
		OccurredAt: time.Now().UTC(),
	}

	if err := publisher.PublishAccountEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish account event",
			slog.String("event_type", eventType.String()),
			slog.String("user_id", event.UserID),
			slog.Any("error", err),
		)
	}
}
