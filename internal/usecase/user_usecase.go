// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"vidhub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
// AvatarPath and CoverImagePath point at files staged on local disk.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// LoginInput accepts either the username or the email together with the password.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// ChangePasswordInput defines the data required to change a password.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// --- Output DTOs ---

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresIn  time.Duration
	RefreshTokenExpiresIn time.Duration
	User                  *entity.PublicUser
}

// RefreshOutput carries the new access token. The refresh token is the one presented.
type RefreshOutput struct {
	AccessToken          string
	RefreshToken         string
	AccessTokenExpiresIn time.Duration
}

// UserUsecase defines the session lifecycle operations.
type UserUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*entity.PublicUser, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	RefreshAccessToken(ctx context.Context, refreshToken string) (*RefreshOutput, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input *ChangePasswordInput) error

	// Authenticate resolves an access token to the sanitized user it was issued for.
	Authenticate(ctx context.Context, accessToken string) (*entity.PublicUser, error)
}
