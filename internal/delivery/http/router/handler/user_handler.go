// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"vidhub/config"
	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/delivery/http/response"
	"vidhub/internal/domain/entity"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/errors"
	"vidhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type registerRequest struct {
	FullName string `form:"fullName" validate:"required"`
	Email    string `form:"email" validate:"required"`
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type loginResponse struct {
	User         *entity.PublicUser `json:"user"`
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserHandler holds dependencies for session handlers.
type UserHandler struct {
	uc      usecase.UserUsecase
	logger  *slog.Logger
	cookies *sessionCookies
	stager  *fileStager
}

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUsecase usecase.UserUsecase
	Config      *config.Config
	Logger      *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		uc:      params.UserUsecase,
		logger:  params.Logger,
		cookies: newSessionCookies(params.Config.Cookie),
		stager:  newFileStager(params.Config.Media),
	}
}

// Register handles the multipart registration form.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("invalid registration form"), err.Error())
	}

	avatarPath, err := h.stager.stage(c, "avatar")
	if err != nil {
		return err
	}
	defer discard(avatarPath)

	coverPath, err := h.stager.stage(c, "coverImage")
	if err != nil {
		return err
	}
	defer discard(coverPath)

	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, user, "User registered successfully")
}

// Login sets both session cookies and returns the tokens in the body as well.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("invalid login input"), err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.cookies.setAccess(c, output.AccessToken, output.AccessTokenExpiresIn)
	h.cookies.setRefresh(c, output.RefreshToken, output.RefreshTokenExpiresIn)

	return response.Success(c, http.StatusOK, loginResponse{
		User:         output.User,
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	}, "User logged in successfully")
}

// Logout clears the stored refresh token and both cookies.
func (h *UserHandler) Logout(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	if err := h.uc.Logout(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	h.cookies.clear(c)

	return response.Success(c, http.StatusOK, struct{}{}, "User logged out")
}

// RefreshToken issues a new access token for the refresh token sent as cookie or body.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err != nil {
			return errors.Wrap(domainerrors.ErrRefreshTokenMissing, err.Error())
		}
		token = req.RefreshToken
	}

	output, err := h.uc.RefreshAccessToken(c.Request().Context(), token)
	if err != nil {
		return errors.WithStack(err)
	}

	h.cookies.setAccess(c, output.AccessToken, output.AccessTokenExpiresIn)

	return response.Success(c, http.StatusOK, refreshResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	}, "Access token refreshed")
}

// ChangePassword handles the password change of the signed-in user.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("invalid change password input"), err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.uc.ChangePassword(c.Request().Context(), userID, &usecase.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, struct{}{}, "Password changed successfully")
}
