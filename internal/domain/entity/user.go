// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the account record. PasswordHash and RefreshTokenHash never leave the
// service; responses are built from PublicUser.
type User struct {
	ID               uuid.UUID   // The Global Unique Identifier (GUID) for the user.
	Username         string      // Unique handle, always stored lowercased.
	Email            string      // Unique contact email, also accepted as a login identifier.
	FullName         string      // The user's display name.
	PasswordHash     string      // bcrypt hash of the password.
	Avatar           string      // Public URL of the avatar image. Required.
	CoverImage       string      // Public URL of the cover image. Empty when not set.
	RefreshTokenHash *string     // Digest of the single active refresh token, nil when logged out.
	WatchHistory     []uuid.UUID // Watched video IDs in order.
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PublicUser is the sanitized view of a User.
type PublicUser struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	FullName     string      `json:"fullName"`
	Avatar       string      `json:"avatar"`
	CoverImage   string      `json:"coverImage"`
	WatchHistory []uuid.UUID `json:"watchHistory"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Sanitize drops the password hash and refresh token.
func (u *User) Sanitize() *PublicUser {
	if u == nil {
		return nil
	}

	history := u.WatchHistory
	if history == nil {
		history = []uuid.UUID{}
	}

	return &PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		Avatar:       u.Avatar,
		CoverImage:   u.CoverImage,
		WatchHistory: history,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// HasActiveSession reports whether a refresh token is currently stored.
func (u *User) HasActiveSession() bool {
	return u.RefreshTokenHash != nil && *u.RefreshTokenHash != ""
}
