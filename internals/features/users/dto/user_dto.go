package dto

import (
	"time"

	"github.com/google/uuid"

	"ebivilapaula_backend/internals/features/users/model"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Role        string    `json:"role"`
	GroupNumber int       `json:"group_number"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToUserResponse(m *model.UserModel) UserResponse {
	return UserResponse{
		UserID:      m.UserID,
		FullName:    m.UserFullName,
		Email:       m.UserEmail,
		Phone:       m.UserPhone,
		Role:        m.UserRole,
		GroupNumber: m.UserGroupNumber,
		IsActive:    m.UserIsActive,
		CreatedAt:   m.UserCreatedAt,
	}
}

func ToUserResponses(ms []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToUserResponse(&ms[i]))
	}
	return out
}
