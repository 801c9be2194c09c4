package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ebivilapaula_backend/internals/features/users/dto"
	"ebivilapaula_backend/internals/features/users/repository"
	"ebivilapaula_backend/internals/features/users/service"
	helper "ebivilapaula_backend/internals/helpers"
)

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Validate: validator.New()}
}

// POST /api/auth/login
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := repository.GetUserByEmail(ctrl.DB, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Internal server error")
	}
	if !user.UserIsActive {
		return helper.Error(c, fiber.StatusForbidden, "Account is deactivated")
	}
	if !service.CheckPassword(user.UserPasswordHash, req.Password) {
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := service.CreateAccessToken(user)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not issue token")
	}

	return helper.Success(c, "Login successful", dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        dto.ToUserResponse(user),
	})
}
