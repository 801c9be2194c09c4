package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ebivilapaula_backend/internals/features/ebi/dto"
	"ebivilapaula_backend/internals/features/ebi/service"
	helper "ebivilapaula_backend/internals/helpers"
)

type EbiController struct {
	Service  *service.EbiService
	Validate *validator.Validate
}

func NewEbiController(db *gorm.DB, notifier service.PinNotifier) *EbiController {
	return &EbiController{
		Service:  service.NewEbiService(db, notifier),
		Validate: validator.New(),
	}
}

/* ===================== SESSIONS ===================== */

// GET /api/u/ebi?search=&page=&per_page=
func (ctrl *EbiController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, helper.DefaultOpts)
	search := c.Query("search")

	items, total, err := ctrl.Service.List(search, p.Limit(), p.Offset())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list EBI sessions")
	}

	return helper.Success(c, "OK", fiber.Map{
		"items": dto.ToEbiResponses(items),
		"meta":  helper.BuildMeta(total, p),
	})
}

// POST /api/u/ebi
func (ctrl *EbiController) Create(c *fiber.Ctx) error {
	var req dto.CreateEbiRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ebi, err := ctrl.Service.Create(&req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "EBI created", dto.ToEbiResponse(ebi))
}

// GET /api/u/ebi/:id
func (ctrl *EbiController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid EBI id")
	}

	ebi, childNames, err := ctrl.Service.GetDetail(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", dto.ToEbiDetailResponse(ebi, childNames))
}

// PUT /api/u/ebi/:id
func (ctrl *EbiController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid EBI id")
	}

	var req dto.UpdateEbiRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ebi, err := ctrl.Service.Update(id, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "EBI updated", dto.ToEbiResponse(ebi))
}

// POST /api/u/ebi/:id/close
func (ctrl *EbiController) Close(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid EBI id")
	}

	ebi, err := ctrl.Service.Close(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "EBI closed", dto.ToEbiResponse(ebi))
}

// POST /api/u/ebi/:id/reopen
func (ctrl *EbiController) Reopen(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid EBI id")
	}

	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	ebi, err := ctrl.Service.Reopen(id, actorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "EBI reopened", dto.ToEbiResponse(ebi))
}

/* ===================== PRESENCES ===================== */

// POST /api/u/ebi/:id/presence
// The only response that ever carries the PIN.
func (ctrl *EbiController) AddPresence(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid EBI id")
	}

	var req dto.AddPresenceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	presence, childName, err := ctrl.Service.AddPresence(id, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	resp := dto.ToPresenceResponse(presence, childName)
	resp.PinCode = presence.EbiPresencePinCode
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Presence registered", resp)
}

// POST /api/u/ebi/presence/:id/checkout
func (ctrl *EbiController) Checkout(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid presence id")
	}

	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	presence, err := ctrl.Service.Checkout(id, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Checkout done", dto.ToPresenceResponse(presence, ""))
}
