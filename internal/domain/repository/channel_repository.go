package repository

import (
	"context"

	"vidhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ChannelRepository serves the read-only channel and history views.
type ChannelRepository interface {
	// FindChannelProfile aggregates the subscription counters of the channel owned by
	// username. IsSubscribed is computed for viewerID; uuid.Nil means anonymous.
	FindChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*entity.ChannelProfile, error)

	// FindWatchHistory returns the user's watched videos with their owners, oldest first.
	FindWatchHistory(ctx context.Context, userID uuid.UUID) ([]*entity.WatchHistoryEntry, error)
}
