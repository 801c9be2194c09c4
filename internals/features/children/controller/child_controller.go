package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ebivilapaula_backend/internals/features/children/dto"
	"ebivilapaula_backend/internals/features/children/repository"
	helper "ebivilapaula_backend/internals/helpers"
)

type ChildController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewChildController(db *gorm.DB) *ChildController {
	return &ChildController{DB: db, Validate: validator.New()}
}

// POST /api/u/children
func (ctrl *ChildController) Create(c *fiber.Ctx) error {
	var req dto.CreateChildRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	child := req.ToModel()
	if err := repository.CreateChild(ctrl.DB, child); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to register child")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Child registered", dto.ToChildResponse(child))
}

// GET /api/u/children?search=&page=&per_page=
func (ctrl *ChildController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, helper.DefaultOpts)
	search := c.Query("search")

	children, total, err := repository.ListChildren(ctrl.DB, search, p.Limit(), p.Offset())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list children")
	}

	return helper.Success(c, "OK", fiber.Map{
		"items": dto.ToChildResponses(children),
		"meta":  helper.BuildMeta(total, p),
	})
}

// GET /api/u/children/:id
func (ctrl *ChildController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid child id")
	}

	child, err := repository.GetChildWithGuardians(ctrl.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Child not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return helper.Success(c, "OK", dto.ToChildResponse(child))
}
