package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Verification failures. Callers must not expose which one occurred.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	Type TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenService defines the interface for issuing and verifying JWTs.
type TokenService interface {
	IssueAccessToken(userID uuid.UUID) (string, error)
	IssueRefreshToken(userID uuid.UUID) (string, error)

	// VerifyAccessToken checks signature, expiry and token type against the access secret.
	VerifyAccessToken(token string) (*Claims, error)

	// VerifyRefreshToken checks signature, expiry and token type against the refresh secret.
	VerifyRefreshToken(token string) (*Claims, error)

	// HashToken returns the hex SHA-256 digest under which a refresh token is stored.
	HashToken(token string) string

	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}
