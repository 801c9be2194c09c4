package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"ebivilapaula_backend/internals/configs"
	"ebivilapaula_backend/internals/features/users/model"
)

const accessTokenTTL = 12 * time.Hour

// CreateAccessToken issues the JWT the auth middleware later validates.
func CreateAccessToken(user *model.UserModel) (string, error) {
	secret := configs.JWTSecret
	if secret == "" {
		return "", errors.New("JWT secret is not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       user.UserID.String(),
		"role":      user.UserRole,
		"user_name": user.UserFullName,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
