package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vidhub/config"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func callLimited(t *testing.T, e *echo.Echo, mw *RateLimitMiddleware, ip string) error {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
	req.RemoteAddr = ip + ":5555"
	c := e.NewContext(req, httptest.NewRecorder())

	return mw.Limit(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
}

func TestRateLimitMiddleware_RejectsBurst(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	mw := newRateLimitMiddleware(config.RateLimitConfig{
		Enabled:  true,
		Requests: 1,
		Window:   time.Minute,
		Burst:    2,
		TTL:      time.Hour,
	}, clock.Now)
	e := echo.New()

	require.NoError(t, callLimited(t, e, mw, "10.0.0.1"))
	require.NoError(t, callLimited(t, e, mw, "10.0.0.1"))

	err := callLimited(t, e, mw, "10.0.0.1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTooManyRequests))

	// Other clients have their own budget.
	assert.NoError(t, callLimited(t, e, mw, "10.0.0.2"))

	clock.now = clock.now.Add(time.Minute)
	assert.NoError(t, callLimited(t, e, mw, "10.0.0.1"))
}

func TestRateLimitMiddleware_EvictsIdleClients(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	mw := newRateLimitMiddleware(config.RateLimitConfig{Enabled: true, TTL: time.Minute}, clock.Now)

	mw.allow("10.0.0.1")
	clock.now = clock.now.Add(2 * time.Minute)
	mw.allow("10.0.0.2")

	mw.mu.Lock()
	defer mw.mu.Unlock()
	assert.Len(t, mw.visitors, 1)
	assert.Contains(t, mw.visitors, "10.0.0.2")
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	mw := NewRateLimitMiddleware(&config.Config{})
	e := echo.New()

	for range 50 {
		require.NoError(t, callLimited(t, e, mw, "10.0.0.1"))
	}
}
