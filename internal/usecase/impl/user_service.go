// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/domain/entity"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/domain/repository"
	"vidhub/internal/domain/service"
	"vidhub/internal/errors"
	"vidhub/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager      repository.TransactionManager
	userRepo       repository.UserRepository
	hasher         service.PasswordHasher
	tokenService   service.TokenService
	mediaUploader  service.MediaUploader
	eventPublisher service.EventPublisher
	validate       *validator.Validate
	logger         *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	Hasher         service.PasswordHasher
	TokenService   service.TokenService
	MediaUploader  service.MediaUploader
	EventPublisher service.EventPublisher
	Logger         *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:      params.TxManager,
		userRepo:       params.UserRepo,
		hasher:         params.Hasher,
		tokenService:   params.TokenService,
		mediaUploader:  params.MediaUploader,
		eventPublisher: params.EventPublisher,
		validate:       validator.New(),
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the input, uploads the media and creates the user.
// Nothing is written before the uniqueness check and the avatar upload have succeeded.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.PublicUser, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := normalizeIdentifier(input.Email)
	username := normalizeIdentifier(input.Username)
	password := input.Password

	if fullName == "" || email == "" || username == "" || strings.TrimSpace(password) == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "register input incomplete")
	}

	srv.log(ctx).Info("Starting registration", slog.String("username", username), slog.String("email", email))

	// A taken username or email is reported before any format or strength problem.
	exists, err := srv.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existing user")
	}
	if exists {
		return nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "username or email taken")
	}

	if err := srv.validateRegistration(fullName, email, username); err != nil {
		return nil, errors.Wrap(err, "register input malformed")
	}

	if err := srv.hasher.ValidatePasswordStrength(password); err != nil {
		return nil, errors.Wrap(err, "password does not meet security requirements")
	}

	if input.AvatarPath == "" {
		return nil, errors.Wrap(domainerrors.ErrAvatarRequired, "register without avatar")
	}

	avatar, err := srv.mediaUploader.Upload(ctx, input.AvatarPath)
	if err != nil {
		srv.log(ctx).Warn("Avatar upload failed during registration", slog.Any("error", err))

		return nil, errors.Wrap(uploadFailure(err), "failed to upload avatar")
	}

	var coverImage string
	if input.CoverImagePath != "" {
		cover, err := srv.mediaUploader.Upload(ctx, input.CoverImagePath)
		if err != nil {
			srv.log(ctx).Warn("Cover image upload failed, continuing without it", slog.Any("error", err))
		} else {
			coverImage = cover.URL
		}
	}

	hashedPassword, err := srv.hasher.Hash(password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	var created *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		newUser := &entity.User{
			Username:     username,
			Email:        email,
			FullName:     fullName,
			PasswordHash: hashedPassword,
			Avatar:       avatar.URL,
			CoverImage:   coverImage,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		stored, err := userRepo.FindByID(ctx, newUser.ID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserCreationFailed, "created user not found")
			}

			return errors.Wrap(err, "failed to reload created user")
		}
		created = stored

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("username", username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	srv.publish(ctx, entity.AccountEventRegistered, created)
	srv.log(ctx).Info("Registration completed", slog.Any("user_id", created.ID))

	return created.Sanitize(), nil
}

// Login verifies the credentials, issues both tokens and stores the refresh token digest.
// A previous refresh token of the same user stops working.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	username := normalizeIdentifier(input.Username)
	email := normalizeIdentifier(input.Email)

	if username == "" && email == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("username or email is required"), "login without identifier")
	}
	if input.Password == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("password is required"), "login without password")
	}

	user, err := srv.userRepo.FindByIdentifier(ctx, username, email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user for login")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch during login", slog.Any("user_id", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	accessToken, refreshToken, err := srv.issueTokens(user.ID)
	if err != nil {
		return nil, err
	}

	digest := srv.tokenService.HashToken(refreshToken)
	if err := srv.userRepo.SetRefreshToken(ctx, user.ID, &digest); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}
	user.RefreshTokenHash = &digest

	srv.publish(ctx, entity.AccountEventLoggedIn, user)
	srv.log(ctx).Info("User logged in", slog.Any("user_id", user.ID))

	return &usecase.LoginOutput{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresIn:  srv.tokenService.AccessTokenTTL(),
		RefreshTokenExpiresIn: srv.tokenService.RefreshTokenTTL(),
		User:                  user.Sanitize(),
	}, nil
}

// Logout clears the stored refresh token.
func (srv *userService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := srv.userRepo.SetRefreshToken(ctx, userID, nil); err != nil {
		return errors.Wrap(err, "failed to clear refresh token")
	}

	srv.publish(ctx, entity.AccountEventLoggedOut, &entity.User{ID: userID})
	srv.log(ctx).Info("User logged out", slog.Any("user_id", userID))

	return nil
}

// RefreshAccessToken issues a new access token for a refresh token that matches the stored one.
// The refresh token itself is not rotated.
func (srv *userService) RefreshAccessToken(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	if refreshToken == "" {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenMissing, "refresh without token")
	}

	claims, err := srv.tokenService.VerifyRefreshToken(refreshToken)
	if err != nil {
		srv.log(ctx).Warn("Refresh token rejected", slog.String("reason", tokenFailureReason(err)))

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token verification failed")
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token subject")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrRefreshTokenReused, "refresh token subject no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load user for refresh")
	}

	if !srv.matchesStoredToken(user, refreshToken) {
		srv.log(ctx).Warn("Refresh token does not match the stored one", slog.Any("user_id", user.ID))

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenReused, "refresh token mismatch")
	}

	accessToken, err := srv.tokenService.IssueAccessToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	return &usecase.RefreshOutput{
		AccessToken:          accessToken,
		RefreshToken:         refreshToken,
		AccessTokenExpiresIn: srv.tokenService.AccessTokenTTL(),
	}, nil
}

// ChangePassword replaces the password hash. Issued tokens remain valid.
func (srv *userService) ChangePassword(ctx context.Context, userID uuid.UUID, input *usecase.ChangePasswordInput) error {
	if input.OldPassword == "" || input.NewPassword == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "change password input incomplete")
	}

	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		found, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to find user")
		}

		if !srv.hasher.Check(input.OldPassword, found.PasswordHash) {
			return errors.Wrap(domainerrors.ErrInvalidOldPassword, "old password mismatch")
		}

		if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
			return errors.Wrap(err, "new password does not meet security requirements")
		}

		hashed, err := srv.hasher.Hash(input.NewPassword)
		if err != nil {
			return errors.Wrap(err, "failed to hash new password")
		}

		if err := userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
			return errors.Wrap(err, "failed to update password")
		}
		user = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to change password", slog.Any("user_id", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to change password")
	}

	srv.publish(ctx, entity.AccountEventPasswordChanged, user)
	srv.log(ctx).Info("Password changed", slog.Any("user_id", userID))

	return nil
}

// Authenticate never tells the caller why a token was refused.
func (srv *userService) Authenticate(ctx context.Context, accessToken string) (*entity.PublicUser, error) {
	if accessToken == "" {
		return nil, errors.Wrap(domainerrors.ErrUnauthorized, "access token missing")
	}

	claims, err := srv.tokenService.VerifyAccessToken(accessToken)
	if err != nil {
		srv.log(ctx).Debug("Access token rejected", slog.String("reason", tokenFailureReason(err)))

		return nil, errors.Wrap(domainerrors.ErrUnauthorized, "access token verification failed")
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUnauthorized, "access token subject")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUnauthorized, "access token subject no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load user for access token")
	}

	return user.Sanitize(), nil
}

func (srv *userService) issueTokens(userID uuid.UUID) (accessToken, refreshToken string, err error) {
	accessToken, err = srv.tokenService.IssueAccessToken(userID)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err = srv.tokenService.IssueRefreshToken(userID)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to issue refresh token")
	}

	return accessToken, refreshToken, nil
}

func (srv *userService) matchesStoredToken(user *entity.User, refreshToken string) bool {
	if !user.HasActiveSession() {
		return false
	}

	presented := srv.tokenService.HashToken(refreshToken)

	return subtle.ConstantTimeCompare([]byte(presented), []byte(*user.RefreshTokenHash)) == 1
}

func (srv *userService) publish(ctx context.Context, eventType entity.AccountEventType, user *entity.User) {
	publishAccountEvent(ctx, srv.eventPublisher, srv.log(ctx), eventType, user)
}

func (srv *userService) validateRegistration(fullName, email, username string) error {
	var problems []string
	if srv.validate.Var(fullName, "max=100") != nil {
		problems = append(problems, "fullName must be at most 100 characters")
	}
	if srv.validate.Var(email, "email") != nil {
		problems = append(problems, "email must be a valid email address")
	}
	if srv.validate.Var(username, "max=50") != nil {
		problems = append(problems, "username must be at most 50 characters")
	}
	if len(problems) > 0 {
		return domainerrors.ErrValidationFailed.WithDetails(strings.Join(problems, "; "))
	}

	return nil
}

func normalizeIdentifier(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// uploadFailure keeps client-side upload errors and turns everything else into ErrMediaUploadFailed.
func uploadFailure(err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) && appErr.HTTPCode() < 500 {
		return err
	}

	return domainerrors.ErrMediaUploadFailed.WrapMessage(err.Error())
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		return "expired"
	case errors.Is(err, service.ErrTokenSignatureInvalid):
		return "signature"
	default:
		return "malformed"
	}
}
