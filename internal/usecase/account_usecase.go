package usecase

import (
	"context"

	"vidhub/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateAccountInput defines the editable profile fields.
type UpdateAccountInput struct {
	FullName string
	Email    string
}

// AccountUsecase defines profile and channel operations for authenticated users.
type AccountUsecase interface {
	CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.PublicUser, error)
	UpdateAccount(ctx context.Context, userID uuid.UUID, input *UpdateAccountInput) (*entity.PublicUser, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (*entity.PublicUser, error)
	UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (*entity.PublicUser, error)
	GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*entity.ChannelProfile, error)
	GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]*entity.WatchHistoryEntry, error)

	// ChannelQRCode returns a PNG linking to the channel page.
	ChannelQRCode(ctx context.Context, username string) ([]byte, error)
}
