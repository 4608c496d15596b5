// Package model holds the GORM persistence structs.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via gen_random_uuid().
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName     string    `gorm:"type:varchar(100);not null;index"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(72);not null"`
	Avatar       string    `gorm:"type:text;not null"`
	CoverImage   string    `gorm:"type:text;not null;default:''"`
	// SHA-256 hex digest of the current refresh token.
	RefreshTokenHash *string `gorm:"column:refresh_token_hash;type:char(64)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	WatchHistory []WatchHistoryModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// WatchHistoryModel mirrors the 'watch_history' table. Position keeps the watch order.
type WatchHistoryModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey"`
	VideoID   uuid.UUID `gorm:"type:uuid;not null;index"`
	WatchedAt time.Time `gorm:"not null;default:now()"`
}

// TableName explicitly sets the table name for GORM.
func (WatchHistoryModel) TableName() string {
	return "watch_history"
}

// All lists the models in dependency order for schema migration.
func All() []any {
	return []any{
		&UserModel{},
		&VideoModel{},
		&SubscriptionModel{},
		&WatchHistoryModel{},
	}
}
