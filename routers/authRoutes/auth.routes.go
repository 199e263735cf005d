package authRoutes

import (
	controllers "certify/controllers/auth"
	validators "certify/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up dashboard authentication routes
func SetupAuthRoutes(app *fiber.App) {
	group := app.Group("/auth")

	group.Post("/login", validators.Login(), controllers.Login)
}
