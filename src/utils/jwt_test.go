package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateJWT(secret, "u1", models.RoleUser, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, models.Caller{SubjectID: "u1", Role: models.RoleUser}, claims.Caller())
}

func TestParseJWTRejects(t *testing.T) {
	secret := []byte("test-secret")

	_, err := ParseJWT(secret, "")
	assert.Error(t, err)

	expired, err := GenerateJWT(secret, "u1", models.RoleUser, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(secret, expired)
	assert.Error(t, err)

	badRole, err := GenerateJWT(secret, "u1", models.Role("ROOT"), time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(secret, badRole)
	assert.Error(t, err)

	other, err := GenerateJWT([]byte("other"), "u1", models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(secret, other)
	assert.Error(t, err)
}
