package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ebivilapaula_backend/internals/constants"
	ebiCtrl "ebivilapaula_backend/internals/features/ebi/controller"
	"ebivilapaula_backend/internals/features/ebi/service"
	authMw "ebivilapaula_backend/internals/middlewares/auth"
)

func EbiRoutes(r fiber.Router, db *gorm.DB, notifier service.PinNotifier) {
	controller := ebiCtrl.NewEbiController(db, notifier)

	onlyCoordinators := authMw.OnlyRoles(
		constants.RoleErrorCoordinator("EBI session management"),
		constants.CoordinatorAndAbove...,
	)

	g := r.Group("/ebi")

	// =====================
	// Sessions
	// =====================
	g.Get("/", controller.List)
	g.Get("/:id", controller.GetByID)
	g.Post("/", onlyCoordinators, controller.Create)
	g.Put("/:id", onlyCoordinators, controller.Update)
	g.Post("/:id/close", onlyCoordinators, controller.Close)
	g.Post("/:id/reopen", onlyCoordinators, controller.Reopen)

	// =====================
	// Presences
	// =====================
	g.Post("/:id/presence", controller.AddPresence)
	g.Post("/presence/:id/checkout", controller.Checkout)
}
