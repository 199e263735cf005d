package postValidator

import (
	"certify/middleware"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

var allowedPlatforms = map[string]bool{
	"TWITTER":   true,
	"FACEBOOK":  true,
	"INSTAGRAM": true,
	"LINKEDIN":  true,
}

// CreatePostRequest is the validated post payload handed to the controller
type CreatePostRequest struct {
	Platform    string     `json:"platform"`
	Content     string     `json:"content"`
	ImageURL    string     `json:"image_url"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Draft       bool       `json:"draft"`
}

// CreatePost validates a scheduled-post creation request
func CreatePost() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreatePostRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Platform = strings.ToUpper(strings.TrimSpace(reqData.Platform))
		reqData.Content = strings.TrimSpace(reqData.Content)

		if reqData.Platform == "" {
			errors["platform"] = "Platform is required!"
		} else if !allowedPlatforms[reqData.Platform] {
			errors["platform"] = "Platform must be one of TWITTER, FACEBOOK, INSTAGRAM, LINKEDIN!"
		}

		if reqData.Content == "" {
			errors["content"] = "Content is required!"
		} else if len(reqData.Content) > 5000 {
			errors["content"] = "Content must be at most 5000 characters!"
		}

		if !reqData.Draft {
			if reqData.ScheduledAt == nil {
				errors["scheduled_at"] = "Scheduled time is required unless the post is a draft!"
			} else if reqData.ScheduledAt.Before(time.Now()) {
				errors["scheduled_at"] = "Scheduled time must be in the future!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPost", reqData)
		return c.Next()
	}
}

// UpdatePostRequest is the validated partial post update
type UpdatePostRequest struct {
	Platform    *string    `json:"platform"`
	Content     *string    `json:"content"`
	ImageURL    *string    `json:"image_url"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// UpdatePost validates a scheduled-post update request
func UpdatePost() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdatePostRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Platform != nil {
			platform := strings.ToUpper(strings.TrimSpace(*reqData.Platform))
			if !allowedPlatforms[platform] {
				errors["platform"] = "Platform must be one of TWITTER, FACEBOOK, INSTAGRAM, LINKEDIN!"
			}
			*reqData.Platform = platform
		}
		if reqData.Content != nil {
			content := strings.TrimSpace(*reqData.Content)
			if content == "" {
				errors["content"] = "Content cannot be empty!"
			}
			*reqData.Content = content
		}
		if reqData.ScheduledAt != nil && reqData.ScheduledAt.Before(time.Now()) {
			errors["scheduled_at"] = "Scheduled time must be in the future!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPostUpdate", reqData)
		return c.Next()
	}
}
