package postRoutes

import (
	controllers "certify/controllers/post"
	"certify/middleware"
	validators "certify/validators/post"

	"github.com/gofiber/fiber/v2"
)

// SetupPostRoutes sets up the JWT-protected post-scheduling dashboard routes
func SetupPostRoutes(app *fiber.App) {
	group := app.Group("/posts")

	group.Post("/", middleware.JWTMiddleware, validators.CreatePost(), controllers.CreatePost)
	group.Get("/", middleware.JWTMiddleware, controllers.GetPosts)
	group.Get("/:id", middleware.JWTMiddleware, controllers.GetPost)
	group.Put("/:id", middleware.JWTMiddleware, validators.UpdatePost(), controllers.UpdatePost)
	group.Delete("/:id", middleware.JWTMiddleware, controllers.DeletePost)
	group.Post("/:id/publish", middleware.JWTMiddleware, controllers.PublishPost)
}
