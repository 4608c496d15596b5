// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"vidhub/internal/delivery/http/middleware"
	"vidhub/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const usersPrefix = "/api/v1/users"

type RouterParams struct {
	fx.In

	UserHandler         *handler.UserHandler
	AccountHandler      *handler.AccountHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	accountHandler *handler.AccountHandler
	authMiddleware *middleware.AuthMiddleware
	rateLimit      *middleware.RateLimitMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		accountHandler: params.AccountHandler,
		authMiddleware: params.AuthMiddleware,
		rateLimit:      params.RateLimitMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	auth := r.authMiddleware.Authenticate
	users := e.Group(usersPrefix)

	// Session routes
	users.POST("/register", r.userHandler.Register, r.rateLimit.Limit)
	users.POST("/login", r.userHandler.Login, r.rateLimit.Limit)
	users.POST("/refresh-token", r.userHandler.RefreshToken)
	users.POST("/logout", r.userHandler.Logout, auth)
	users.POST("/change-password", r.userHandler.ChangePassword, auth)

	// Account routes
	users.GET("/current-user", r.accountHandler.CurrentUser, auth)
	users.PATCH("/update-account", r.accountHandler.UpdateAccount, auth)
	users.PATCH("/update-avatar", r.accountHandler.UpdateAvatar, auth)
	users.PATCH("/update-cover-image", r.accountHandler.UpdateCoverImage, auth)
	users.GET("/c/:username", r.accountHandler.ChannelProfile, auth)
	users.GET("/c/:username/qr", r.accountHandler.ChannelQRCode, auth)
	users.GET("/watch-history", r.accountHandler.WatchHistory, auth)
}
