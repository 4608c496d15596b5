package handler

import (
	"net/http"
	"strings"
	"time"

	"vidhub/config"
	"vidhub/internal/delivery/http/middleware"

	"github.com/labstack/echo/v4"
)

// RefreshTokenCookie is the cookie carrying the refresh token.
const RefreshTokenCookie = "refreshToken"

// sessionCookies writes the accessToken and refreshToken cookies.
type sessionCookies struct {
	secure   bool
	sameSite http.SameSite
	domain   string
}

func newSessionCookies(cfg config.CookieConfig) *sessionCookies {
	return &sessionCookies{
		secure:   cfg.Secure,
		sameSite: parseSameSite(cfg.SameSite),
		domain:   cfg.Domain,
	}
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (s *sessionCookies) setAccess(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(s.build(middleware.AccessTokenCookie, token, ttl))
}

func (s *sessionCookies) setRefresh(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(s.build(RefreshTokenCookie, token, ttl))
}

func (s *sessionCookies) clear(c echo.Context) {
	for _, name := range []string{middleware.AccessTokenCookie, RefreshTokenCookie} {
		cookie := s.build(name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		c.SetCookie(cookie)
	}
}

func (s *sessionCookies) build(name, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.domain,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
		cookie.Expires = time.Now().Add(ttl)
	}

	return cookie
}
