package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("Maria", "maria@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, ROLE_USER, u.Role)
	assert.Equal(t, STATUS_ACTIVE, u.Status)
	assert.False(t, u.IsSubscriber)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("ab", "maria@example.com", "secret123")
	assert.Error(t, err, "name below minimum length")

	_, err = CreateUser("Maria", "not-an-email", "secret123")
	assert.Error(t, err)

	_, err = CreateUser("Maria", "maria@example.com", "short")
	assert.Error(t, err, "password below minimum length")
}

func TestSetPassword(t *testing.T) {
	u, err := CreateUser("Maria", "maria@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, u.SetPassword("another456"))
	assert.True(t, u.CheckPassword("another456"))
	assert.False(t, u.CheckPassword("secret123"))
}

func TestResetTokenLifecycle(t *testing.T) {
	u := &User{}

	assert.False(t, u.IsResetTokenValid("anything"))

	require.NoError(t, u.GenerateResetToken())
	require.NotEmpty(t, u.ResetToken)
	require.NotNil(t, u.ResetSentAt)

	assert.True(t, u.IsResetTokenValid(u.ResetToken))
	assert.False(t, u.IsResetTokenValid("wrong-token"))

	expired := time.Now().Add(-25 * time.Hour)
	u.ResetSentAt = &expired
	assert.False(t, u.IsResetTokenValid(u.ResetToken))

	u.ClearResetToken()
	assert.Empty(t, u.ResetToken)
	assert.Nil(t, u.ResetSentAt)
}
