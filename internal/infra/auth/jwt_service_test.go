package auth

import (
	"testing"
	"time"

	"vidhub/config"
	"vidhub/internal/domain/service"
	"vidhub/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestJWTService(t *testing.T) (*jwtService, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	cfg := &config.Config{
		SecretKey: config.SecretKeyConfig{Access: "access-secret", Refresh: "refresh-secret"},
	}
	srv, err := newJWTService(cfg, clock.Now)
	require.NoError(t, err)

	return srv, clock
}

func TestNewJWTService_SecretValidation(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)

	_, err = NewJWTService(&config.Config{SecretKey: config.SecretKeyConfig{Access: "a"}})
	assert.Error(t, err)

	_, err = NewJWTService(&config.Config{SecretKey: config.SecretKeyConfig{Access: "same", Refresh: "same"}})
	assert.Error(t, err)

	srv, err := NewJWTService(&config.Config{SecretKey: config.SecretKeyConfig{Access: "a", Refresh: "b"}})
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, srv.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, srv.RefreshTokenTTL())
}

func TestNewJWTService_ConfiguredTTL(t *testing.T) {
	srv, err := NewJWTService(&config.Config{
		SecretKey: config.SecretKeyConfig{Access: "a", Refresh: "b"},
		Auth:      &config.AuthConfig{AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, srv.AccessTokenTTL())
	assert.Equal(t, time.Hour, srv.RefreshTokenTTL())
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	srv, clock := newTestJWTService(t)
	userID := uuid.New()

	access, err := srv.IssueAccessToken(userID)
	require.NoError(t, err)
	refresh, err := srv.IssueRefreshToken(userID)
	require.NoError(t, err)

	claims, err := srv.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, service.TokenTypeAccess, claims.Type)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, clock.now.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, clock.now.Unix(), claims.IssuedAt.Unix())
	assert.NotEmpty(t, claims.ID)

	claims, err = srv.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, service.TokenTypeRefresh, claims.Type)
	assert.Equal(t, clock.now.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, id)
}

func TestJWTService_TokensIssuedTogetherDiffer(t *testing.T) {
	srv, _ := newTestJWTService(t)
	userID := uuid.New()

	first, err := srv.IssueRefreshToken(userID)
	require.NoError(t, err)
	second, err := srv.IssueRefreshToken(userID)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWTService_RejectsTokenFromOtherSecret(t *testing.T) {
	srv, _ := newTestJWTService(t)
	userID := uuid.New()

	access, err := srv.IssueAccessToken(userID)
	require.NoError(t, err)
	refresh, err := srv.IssueRefreshToken(userID)
	require.NoError(t, err)

	_, err = srv.VerifyRefreshToken(access)
	assert.True(t, errors.Is(err, service.ErrTokenSignatureInvalid))

	_, err = srv.VerifyAccessToken(refresh)
	assert.True(t, errors.Is(err, service.ErrTokenSignatureInvalid))
}

func TestJWTService_RejectsWrongTypeWithRightSecret(t *testing.T) {
	srv, clock := newTestJWTService(t)

	claims := service.Claims{
		Type: service.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = srv.VerifyAccessToken(token)
	assert.True(t, errors.Is(err, service.ErrTokenMalformed))
}

func TestJWTService_RejectsExpired(t *testing.T) {
	srv, clock := newTestJWTService(t)

	access, err := srv.IssueAccessToken(uuid.New())
	require.NoError(t, err)

	clock.now = clock.now.Add(16 * time.Minute)
	_, err = srv.VerifyAccessToken(access)
	assert.True(t, errors.Is(err, service.ErrTokenExpired))
}

func TestJWTService_RejectsMissingExpiry(t *testing.T) {
	srv, _ := newTestJWTService(t)

	claims := service.Claims{
		Type:             service.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = srv.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsAlgNone(t *testing.T) {
	srv, clock := newTestJWTService(t)

	claims := service.Claims{
		Type: service.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = srv.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	srv, _ := newTestJWTService(t)

	_, err := srv.VerifyAccessToken("not-a-jwt")
	assert.True(t, errors.Is(err, service.ErrTokenMalformed))

	_, err = srv.VerifyRefreshToken("")
	assert.True(t, errors.Is(err, service.ErrTokenMalformed))
}

func TestJWTService_HashToken(t *testing.T) {
	srv, _ := newTestJWTService(t)

	digest := srv.HashToken("token")
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, srv.HashToken("token"))
	assert.NotEqual(t, digest, srv.HashToken("token2"))
}
