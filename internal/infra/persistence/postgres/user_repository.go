package postgres

import (
	"context"
	"strings"

	"vidhub/internal/domain/entity"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/domain/repository"
	"vidhub/internal/errors"
	"vidhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// userRepository implements the repository.UserRepository interface using GORM.
// Every read is pinned to the primary so that a write is visible to the next request.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) primary(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).Clauses(dbresolver.Write)
}

func orderedHistory(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID retrieves a single user by their unique ID together with the watch history.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.primary(ctx).
		Preload("WatchHistory", orderedHistory).
		Where("id = ?", id).
		Take(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByIdentifier matches on whichever of username and email is non-empty.
func (repo *userRepository) FindByIdentifier(ctx context.Context, username, email string) (*entity.User, error) {
	query := repo.primary(ctx).Preload("WatchHistory", orderedHistory)

	switch {
	case username != "" && email != "":
		query = query.Where("username = ? OR email = ?", username, email)
	case username != "":
		query = query.Where("username = ?", username)
	case email != "":
		query = query.Where("email = ?", email)
	default:
		return nil, domainerrors.ErrUserNotFound
	}

	var userM model.UserModel
	if err := query.Take(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by identifier")
	}

	return toUserDomain(&userM), nil
}

// ExistsByUsernameOrEmail reports whether either value is already taken.
func (repo *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := repo.primary(ctx).
		Model(&model.UserModel{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check user existence")
	}

	return count > 0, nil
}

// Create persists a new user and copies the generated ID and timestamps back.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Omit("WatchHistory").Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage(violatedConstraint(err))
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// SetRefreshToken overwrites the refresh token slot; a nil digest clears it.
func (repo *userRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, digest *string) error {
	var value any
	if digest != nil {
		value = *digest
	}

	return repo.updateColumns(ctx, id, map[string]any{"refresh_token_hash": value}, "failed to set refresh token")
}

func (repo *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return repo.updateColumns(ctx, id, map[string]any{"password_hash": passwordHash}, "failed to update password")
}

func (repo *userRepository) UpdateAccount(ctx context.Context, id uuid.UUID, fullName, email string) (*entity.User, error) {
	columns := map[string]any{
		"full_name": fullName,
		"email":     email,
	}
	if err := repo.updateColumns(ctx, id, columns, "failed to update account"); err != nil {
		return nil, err
	}

	return repo.FindByID(ctx, id)
}

func (repo *userRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) (*entity.User, error) {
	if err := repo.updateColumns(ctx, id, map[string]any{"avatar": url}, "failed to update avatar"); err != nil {
		return nil, err
	}

	return repo.FindByID(ctx, id)
}

func (repo *userRepository) UpdateCoverImage(ctx context.Context, id uuid.UUID, url string) (*entity.User, error) {
	if err := repo.updateColumns(ctx, id, map[string]any{"cover_image": url}, "failed to update cover image"); err != nil {
		return nil, err
	}

	return repo.FindByID(ctx, id)
}

func (repo *userRepository) updateColumns(ctx context.Context, id uuid.UUID, columns map[string]any, details string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(columns)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage(violatedConstraint(result.Error))
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, details)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	history := make([]uuid.UUID, 0, len(data.WatchHistory))
	for _, item := range data.WatchHistory {
		history = append(history, item.VideoID)
	}

	return &entity.User{
		ID:               data.ID,
		Username:         data.Username,
		Email:            data.Email,
		FullName:         data.FullName,
		PasswordHash:     data.PasswordHash,
		Avatar:           data.Avatar,
		CoverImage:       data.CoverImage,
		RefreshTokenHash: data.RefreshTokenHash,
		WatchHistory:     history,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:               data.ID,
		Username:         strings.ToLower(data.Username),
		Email:            strings.ToLower(data.Email),
		FullName:         data.FullName,
		PasswordHash:     data.PasswordHash,
		Avatar:           data.Avatar,
		CoverImage:       data.CoverImage,
		RefreshTokenHash: data.RefreshTokenHash,
	}
}
