// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	childRoute "ebivilapaula_backend/internals/features/children/route"
	ebiRoute "ebivilapaula_backend/internals/features/ebi/route"
	ebiService "ebivilapaula_backend/internals/features/ebi/service"
	userRoute "ebivilapaula_backend/internals/features/users/route"
	authMw "ebivilapaula_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, notifier ebiService.PinNotifier) {
	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	userRoute.AuthRoutes(app, db)

	// ===================== PRIVATE =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u", authMw.AuthMiddleware())

	log.Println("[INFO] Setting up UserRoutes...")
	userRoute.UserRoutes(private, db)

	log.Println("[INFO] Setting up ChildRoutes...")
	childRoute.ChildRoutes(private, db)

	log.Println("[INFO] Setting up EbiRoutes...")
	ebiRoute.EbiRoutes(private, db, notifier)
}
