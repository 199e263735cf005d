package certificateValidator

import (
	"certify/middleware"
	"certify/models"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9 \-()]{7,20}$`)
)

// CreateCertificate validates certificate creation request
func CreateCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			RecipientName     string `json:"recipient_name"`
			CertificateNumber string `json:"certificate_number"`
			AwardReraNumber   string `json:"award_rera_number"`
			Description       string `json:"description"`
			PhoneNumber       string `json:"phone_number"`
			Email             string `json:"email"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.RecipientName = strings.TrimSpace(reqData.RecipientName)
		reqData.CertificateNumber = strings.TrimSpace(reqData.CertificateNumber)
		reqData.AwardReraNumber = strings.TrimSpace(reqData.AwardReraNumber)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.PhoneNumber = strings.TrimSpace(reqData.PhoneNumber)
		reqData.Email = strings.TrimSpace(reqData.Email)

		if reqData.RecipientName == "" {
			errors["recipient_name"] = "Recipient name is required!"
		} else if matched, _ := regexp.MatchString(`[<>{}]`, reqData.RecipientName); matched {
			errors["recipient_name"] = "Recipient name contains invalid characters!"
		}

		if reqData.CertificateNumber == "" {
			errors["certificate_number"] = "Certificate number is required!"
		}

		if reqData.PhoneNumber != "" && !phoneRegex.MatchString(reqData.PhoneNumber) {
			errors["phone_number"] = "Invalid phone number!"
		}

		if reqData.Email != "" && !emailRegex.MatchString(reqData.Email) {
			errors["email"] = "Invalid email address!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCertificate", &models.Certificate{
			RecipientName:     reqData.RecipientName,
			CertificateNumber: reqData.CertificateNumber,
			AwardReraNumber:   reqData.AwardReraNumber,
			Description:       reqData.Description,
			PhoneNumber:       reqData.PhoneNumber,
			Email:             reqData.Email,
		})
		return c.Next()
	}
}

// UpdateCertificate validates a partial certificate patch
func UpdateCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			RecipientName     *string `json:"recipient_name"`
			CertificateNumber *string `json:"certificate_number"`
			AwardReraNumber   *string `json:"award_rera_number"`
			Description       *string `json:"description"`
			PhoneNumber       *string `json:"phone_number"`
			Email             *string `json:"email"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		fields := make(map[string]interface{})

		if reqData.RecipientName != nil {
			name := strings.TrimSpace(*reqData.RecipientName)
			if name == "" {
				errors["recipient_name"] = "Recipient name cannot be empty!"
			} else {
				fields["recipient_name"] = name
			}
		}
		if reqData.CertificateNumber != nil {
			number := strings.TrimSpace(*reqData.CertificateNumber)
			if number == "" {
				errors["certificate_number"] = "Certificate number cannot be empty!"
			} else {
				fields["certificate_number"] = number
			}
		}
		if reqData.AwardReraNumber != nil {
			fields["award_rera_number"] = strings.TrimSpace(*reqData.AwardReraNumber)
		}
		if reqData.Description != nil {
			fields["description"] = strings.TrimSpace(*reqData.Description)
		}
		if reqData.PhoneNumber != nil {
			phone := strings.TrimSpace(*reqData.PhoneNumber)
			if phone != "" && !phoneRegex.MatchString(phone) {
				errors["phone_number"] = "Invalid phone number!"
			} else {
				fields["phone_number"] = phone
			}
		}
		if reqData.Email != nil {
			email := strings.TrimSpace(*reqData.Email)
			if email != "" && !emailRegex.MatchString(email) {
				errors["email"] = "Invalid email address!"
			} else {
				fields["email"] = email
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		if len(fields) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update!", nil)
		}

		c.Locals("validatedPatch", fields)
		return c.Next()
	}
}

// SendWhatsApp validates the optional phone override for a WhatsApp dispatch
func SendWhatsApp() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PhoneNumber string `json:"phone_number"`
		})

		// Body is optional for dispatch requests
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		phone := strings.TrimSpace(reqData.PhoneNumber)
		if phone != "" && !phoneRegex.MatchString(phone) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"phone_number": "Invalid phone number!",
			})
		}

		c.Locals("overridePhone", phone)
		return c.Next()
	}
}

// SendEmail validates the optional email override for an email dispatch
func SendEmail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email string `json:"email"`
		})

		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		email := strings.TrimSpace(reqData.Email)
		if email != "" && !emailRegex.MatchString(email) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"email": "Invalid email address!",
			})
		}

		c.Locals("overrideEmail", email)
		return c.Next()
	}
}
