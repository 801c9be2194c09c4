package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userCtrl "ebivilapaula_backend/internals/features/users/controller"
	"ebivilapaula_backend/internals/middlewares"
)

// AuthRoutes: public, rate-limited
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := userCtrl.NewAuthController(db)

	g := app.Group("/api/auth")
	g.Post("/login", middlewares.LoginRateLimiter(), authController.Login)
}

// UserRoutes: authenticated read-only directory
func UserRoutes(r fiber.Router, db *gorm.DB) {
	userController := userCtrl.NewUserController(db)

	g := r.Group("/users")
	g.Get("/", userController.List)
	g.Get("/:id", userController.GetByID)
}
