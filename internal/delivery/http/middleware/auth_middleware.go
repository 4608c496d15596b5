package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "vidhub/internal/delivery/context"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/errors"
	"vidhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AccessTokenCookie is the cookie carrying the access token.
const AccessTokenCookie = "accessToken"

// AuthMiddleware guards routes that need a signed-in user.
type AuthMiddleware struct {
	userUsecase usecase.UserUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(userUsecase usecase.UserUsecase) *AuthMiddleware {
	return &AuthMiddleware{userUsecase: userUsecase}
}

// Authenticate reads the access token from the accessToken cookie or the
// Authorization header. Every failure is answered with the same 401.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := accessTokenFrom(c)
		if token == "" {
			return domainerrors.ErrUnauthorized
		}

		ctx := c.Request().Context()
		user, err := m.userUsecase.Authenticate(ctx, token)
		if err != nil {
			if errors.Is(err, domainerrors.ErrUnauthorized) {
				return domainerrors.ErrUnauthorized
			}

			return errors.Wrap(err, "authenticate request")
		}

		deliverycontext.SetAuthUser(c, user)

		if logger := deliverycontext.GetLogger(ctx); logger != nil {
			ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("user_id", user.ID.String())))
			c.SetRequest(c.Request().WithContext(ctx))
		}

		return next(c)
	}
}

func accessTokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
