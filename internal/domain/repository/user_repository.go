// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"vidhub/internal/domain/entity"

	"github.com/google/uuid"
)

// UserRepository defines the standard operations for user persistence.
// Lookups return domain ErrUserNotFound when no row matches.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByIdentifier retrieves the user whose username or email matches.
	// Empty arguments are ignored; at least one must be set.
	FindByIdentifier(ctx context.Context, username, email string) (*entity.User, error)

	// ExistsByUsernameOrEmail reports whether any user already holds the username or the email.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// Create persists a new user. ID and timestamps are filled in on success.
	Create(ctx context.Context, user *entity.User) error

	// SetRefreshToken stores the refresh token digest, or clears it when digest is nil.
	SetRefreshToken(ctx context.Context, id uuid.UUID, digest *string) error

	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// UpdateAccount changes the full name and email and returns the updated user.
	UpdateAccount(ctx context.Context, id uuid.UUID, fullName, email string) (*entity.User, error)

	UpdateAvatar(ctx context.Context, id uuid.UUID, url string) (*entity.User, error)

	UpdateCoverImage(ctx context.Context, id uuid.UUID, url string) (*entity.User, error)
}
