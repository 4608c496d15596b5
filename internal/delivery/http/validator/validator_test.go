package validator

import (
	"testing"

	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&loginForm{Username: "alice", Password: "secret"}))
	require.NoError(t, v.Validate(&loginForm{Email: "alice@example.com", Password: "secret"}))

	err := v.Validate(&loginForm{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details(), "username or email is required")
	assert.Contains(t, appErr.Details(), "password is required")

	err = v.Validate(&loginForm{Email: "not-an-email", Password: "secret"})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "email must be a valid email", appErr.Details())
}
