package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebivilapaula_backend/internals/configs"
	"ebivilapaula_backend/internals/constants"
	"ebivilapaula_backend/internals/features/users/model"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3nha-segura")
	require.NoError(t, err)
	assert.NotEqual(t, "s3nha-segura", hash)

	assert.True(t, CheckPassword(hash, "s3nha-segura"))
	assert.False(t, CheckPassword(hash, "outra-senha"))
	assert.False(t, CheckPassword("not-a-hash", "s3nha-segura"))
}

func TestCreateAccessToken(t *testing.T) {
	prev := configs.JWTSecret
	configs.JWTSecret = "test-secret"
	t.Cleanup(func() { configs.JWTSecret = prev })

	user := &model.UserModel{
		UserID:       uuid.New(),
		UserFullName: "Maria Coordenadora",
		UserRole:     constants.RoleCoordenadora,
	}

	tokenStr, err := CreateAccessToken(user)
	require.NoError(t, err)

	parsed, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.UserID.String(), claims["sub"])
	assert.Equal(t, constants.RoleCoordenadora, claims["role"])
	assert.Equal(t, "Maria Coordenadora", claims["user_name"])
}

func TestCreateAccessToken_RequiresSecret(t *testing.T) {
	prev := configs.JWTSecret
	configs.JWTSecret = ""
	t.Cleanup(func() { configs.JWTSecret = prev })

	_, err := CreateAccessToken(&model.UserModel{UserID: uuid.New()})
	require.Error(t, err)
}
