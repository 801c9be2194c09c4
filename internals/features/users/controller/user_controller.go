package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ebivilapaula_backend/internals/features/users/dto"
	"ebivilapaula_backend/internals/features/users/repository"
	helper "ebivilapaula_backend/internals/helpers"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GET /api/u/users?search=&page=&per_page=
// Picker source for coordinator/collaborator selection.
func (ctrl *UserController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, helper.DefaultOpts)
	search := c.Query("search")

	users, total, err := repository.ListUsers(ctrl.DB, search, p.Limit(), p.Offset())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list users")
	}

	return helper.Success(c, "OK", fiber.Map{
		"items": dto.ToUserResponses(users),
		"meta":  helper.BuildMeta(total, p),
	})
}

// GET /api/u/users/:id
func (ctrl *UserController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid user id")
	}

	user, err := repository.GetUserByID(ctrl.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "User not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return helper.Success(c, "OK", dto.ToUserResponse(user))
}
