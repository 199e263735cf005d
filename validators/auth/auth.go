package authValidator

import (
	"certify/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LoginRequest is the validated login payload handed to the controller
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates the dashboard login request
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		if reqData.Email == "" {
			errors["email"] = "Email is required!"
		}
		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}
