package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/domain/entity"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/domain/repository"
	"vidhub/internal/domain/service"
	"vidhub/internal/errors"
	"vidhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo      repository.UserRepository
	channelRepo   repository.ChannelRepository
	mediaUploader service.MediaUploader
	qrCodeService service.QRCodeService
	logger        *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo      repository.UserRepository
	ChannelRepo   repository.ChannelRepository
	MediaUploader service.MediaUploader
	QRCodeService service.QRCodeService
	Logger        *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		userRepo:      params.UserRepo,
		channelRepo:   params.ChannelRepo,
		mediaUploader: params.MediaUploader,
		qrCodeService: params.QRCodeService,
		logger:        params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *accountService) CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.PublicUser, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load current user")
	}

	return user.Sanitize(), nil
}

// UpdateAccount changes the full name and email. The email must not belong to another user.
func (srv *accountService) UpdateAccount(ctx context.Context, userID uuid.UUID, input *usecase.UpdateAccountInput) (*entity.PublicUser, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := normalizeIdentifier(input.Email)
	if fullName == "" || email == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "full name and email are required")
	}

	owner, err := srv.userRepo.FindByIdentifier(ctx, "", email)
	switch {
	case err == nil && owner.ID != userID:
		return nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "email belongs to another user")
	case err != nil && !errors.Is(err, domainerrors.ErrUserNotFound):
		return nil, errors.Wrap(err, "failed to check email owner")
	}

	user, err := srv.userRepo.UpdateAccount(ctx, userID, fullName, email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update account")
	}

	srv.log(ctx).Info("Account updated", slog.Any("user_id", userID))

	return user.Sanitize(), nil
}

func (srv *accountService) UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (*entity.PublicUser, error) {
	if localPath == "" {
		return nil, errors.Wrap(domainerrors.ErrAvatarRequired, "update avatar without file")
	}

	result, err := srv.mediaUploader.Upload(ctx, localPath)
	if err != nil {
		return nil, errors.Wrap(uploadFailure(err), "failed to upload avatar")
	}

	user, err := srv.userRepo.UpdateAvatar(ctx, userID, result.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update avatar")
	}

	return user.Sanitize(), nil
}

func (srv *accountService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (*entity.PublicUser, error) {
	if localPath == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("cover image file is required"), "update cover without file")
	}

	result, err := srv.mediaUploader.Upload(ctx, localPath)
	if err != nil {
		return nil, errors.Wrap(uploadFailure(err), "failed to upload cover image")
	}

	user, err := srv.userRepo.UpdateCoverImage(ctx, userID, result.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update cover image")
	}

	return user.Sanitize(), nil
}

func (srv *accountService) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*entity.ChannelProfile, error) {
	username = normalizeIdentifier(username)
	if username == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("username is missing"), "channel profile without username")
	}

	profile, err := srv.channelRepo.FindChannelProfile(ctx, username, viewerID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load channel %s", username)
	}

	return profile, nil
}

func (srv *accountService) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]*entity.WatchHistoryEntry, error) {
	entries, err := srv.channelRepo.FindWatchHistory(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load watch history")
	}

	return entries, nil
}

func (srv *accountService) ChannelQRCode(ctx context.Context, username string) ([]byte, error) {
	username = normalizeIdentifier(username)
	if username == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("username is missing"), "channel qr without username")
	}

	if _, err := srv.userRepo.FindByIdentifier(ctx, username, ""); err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrChannelNotFound, username)
		}

		return nil, errors.Wrap(err, "failed to find channel owner")
	}

	png, err := srv.qrCodeService.GenerateChannelQR(username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate channel qr code")
	}

	return png, nil
}
