package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ebivilapaula_backend/internals/constants"
	childCtrl "ebivilapaula_backend/internals/features/children/controller"
	authMw "ebivilapaula_backend/internals/middlewares/auth"
)

func ChildRoutes(r fiber.Router, db *gorm.DB) {
	childController := childCtrl.NewChildController(db)

	g := r.Group("/children")
	g.Get("/", childController.List)
	g.Get("/:id", childController.GetByID)
	g.Post("/",
		authMw.OnlyRoles(constants.RoleErrorCoordinator("child registration"), constants.CoordinatorAndAbove...),
		childController.Create,
	)
}
