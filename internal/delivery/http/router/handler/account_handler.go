package handler

import (
	"context"
	"log/slog"
	"net/http"

	"vidhub/config"
	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/delivery/http/response"
	"vidhub/internal/domain/entity"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/errors"
	"vidhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type updateAccountRequest struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

// AccountHandler serves the profile and channel endpoints of signed-in users.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
	stager *fileStager
}

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	AccountUsecase usecase.AccountUsecase
	Config         *config.Config
	Logger         *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler.
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		uc:     params.AccountUsecase,
		logger: params.Logger,
		stager: newFileStager(params.Config.Media),
	}
}

func (h *AccountHandler) CurrentUser(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	user, err := h.uc.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Current user fetched successfully")
}

func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("invalid account input"), err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.UpdateAccount(c.Request().Context(), userID, &usecase.UpdateAccountInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Account details updated successfully")
}

func (h *AccountHandler) UpdateAvatar(c echo.Context) error {
	return h.replaceImage(c, "avatar", h.uc.UpdateAvatar, "Avatar image updated successfully")
}

func (h *AccountHandler) UpdateCoverImage(c echo.Context) error {
	return h.replaceImage(c, "coverImage", h.uc.UpdateCoverImage, "Cover image updated successfully")
}

type imageUpdate func(ctx context.Context, userID uuid.UUID, localPath string) (*entity.PublicUser, error)

func (h *AccountHandler) replaceImage(c echo.Context, field string, update imageUpdate, message string) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	path, err := h.stager.stage(c, field)
	if err != nil {
		return err
	}
	defer discard(path)

	user, err := update(c.Request().Context(), userID, path)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, message)
}

// ChannelProfile returns the channel with subscription counters as seen by the caller.
func (h *AccountHandler) ChannelProfile(c echo.Context) error {
	viewerID, _ := deliverycontext.GetUserID(c)

	profile, err := h.uc.GetChannelProfile(c.Request().Context(), c.Param("username"), viewerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "User channel fetched successfully")
}

// ChannelQRCode returns a PNG linking to the channel.
func (h *AccountHandler) ChannelQRCode(c echo.Context) error {
	png, err := h.uc.ChannelQRCode(c.Request().Context(), c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=3600")

	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *AccountHandler) WatchHistory(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	entries, err := h.uc.GetWatchHistory(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, entries, "Watch history fetched successfully")
}
