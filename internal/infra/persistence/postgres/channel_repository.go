package postgres

import (
	"context"
	"time"

	"vidhub/internal/domain/entity"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/domain/repository"
	"vidhub/internal/errors"
	"vidhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

const channelProfileSelect = `users.id, users.username, users.full_name, users.email, users.avatar, users.cover_image,
	(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = users.id) AS subscribers_count,
	(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = users.id) AS channels_subscribed_to_count,
	EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = users.id AND s.subscriber_id = ?) AS is_subscribed`

const watchHistorySelect = `v.id AS video_id, v.title, v.description, v.thumbnail, v.video_file, v.duration, v.views,
	wh.watched_at, u.id AS owner_id, u.username AS owner_username, u.full_name AS owner_full_name, u.avatar AS owner_avatar`

// channelRepository serves the aggregation views. Queries go to the read replicas.
type channelRepository struct {
	db *gorm.DB
}

type channelProfileRow struct {
	ID                        uuid.UUID
	Username                  string
	FullName                  string
	Email                     string
	Avatar                    string
	CoverImage                string
	SubscribersCount          int64
	ChannelsSubscribedToCount int64
	IsSubscribed              bool
}

type watchHistoryRow struct {
	VideoID       uuid.UUID
	Title         string
	Description   string
	Thumbnail     string
	VideoFile     string
	Duration      float64
	Views         int64
	WatchedAt     time.Time
	OwnerID       uuid.UUID
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
}

// NewChannelRepository is the constructor for channelRepository.
func NewChannelRepository(db *gorm.DB) repository.ChannelRepository {
	return &channelRepository{db: db}
}

func (repo *channelRepository) FindChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*entity.ChannelProfile, error) {
	var row channelProfileRow
	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Model(&model.UserModel{}).
		Select(channelProfileSelect, viewerID).
		Where("users.username = ?", username).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrChannelNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load channel profile")
	}

	return &entity.ChannelProfile{
		ID:                        row.ID,
		Username:                  row.Username,
		FullName:                  row.FullName,
		Email:                     row.Email,
		Avatar:                    row.Avatar,
		CoverImage:                row.CoverImage,
		SubscribersCount:          row.SubscribersCount,
		ChannelsSubscribedToCount: row.ChannelsSubscribedToCount,
		IsSubscribed:              row.IsSubscribed,
	}, nil
}

func (repo *channelRepository) FindWatchHistory(ctx context.Context, userID uuid.UUID) ([]*entity.WatchHistoryEntry, error) {
	var rows []watchHistoryRow
	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Table(model.WatchHistoryModel{}.TableName()+" AS wh").
		Select(watchHistorySelect).
		Joins("JOIN videos v ON v.id = wh.video_id").
		Joins("JOIN users u ON u.id = v.owner_id").
		Where("wh.user_id = ?", userID).
		Order("wh.position ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load watch history")
	}

	entries := make([]*entity.WatchHistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &entity.WatchHistoryEntry{
			VideoID:     row.VideoID,
			Title:       row.Title,
			Description: row.Description,
			Thumbnail:   row.Thumbnail,
			VideoFile:   row.VideoFile,
			Duration:    row.Duration,
			Views:       row.Views,
			WatchedAt:   row.WatchedAt,
			Owner: entity.VideoOwner{
				ID:       row.OwnerID,
				Username: row.OwnerUsername,
				FullName: row.OwnerFullName,
				Avatar:   row.OwnerAvatar,
			},
		})
	}

	return entries, nil
}
