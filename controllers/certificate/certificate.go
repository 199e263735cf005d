package controllers

import (
	"certify/middleware"
	"certify/models"
	"certify/utils"
	"errors"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// WhatsAppDispatcher and EmailDispatcher are the capability sets the
// controller needs from the delivery services; tests substitute stubs.
type WhatsAppDispatcher interface {
	IsConfigured() bool
	SendCertificate(phone string, cert *models.Certificate, documentURL string) (*utils.DeliveryReceipt, error)
}

type EmailDispatcher interface {
	IsConfigured() bool
	SendCertificate(email string, cert *models.Certificate, pdfPath string) (*utils.DeliveryReceipt, error)
}

// Controller orchestrates the certificate lifecycle: validate, render,
// persist, dispatch. Services are injected once at startup.
type Controller struct {
	Store         *models.CertificateStore
	Renderer      *utils.CertificateRenderer
	WhatsApp      WhatsAppDispatcher
	Email         EmailDispatcher
	PublicBaseURL string
}

// CreateCertificate handles POST /certificates. The PDF is rendered before
// the row is written, so a render failure never leaves a record without a
// document.
func (ctrl *Controller) CreateCertificate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCertificate").(*models.Certificate)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	// Explicit duplicate check before doing any expensive work; the unique
	// index in the store is the safety net if a concurrent create races us.
	if _, err := ctrl.Store.GetByNumber(reqData.CertificateNumber); err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate number already exists!", nil)
	} else if !errors.Is(err, models.ErrNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check certificate number!", nil)
	}

	reqData.ID = uuid.NewString()
	reqData.IssueYear = time.Now().Year()

	pdfPath, err := ctrl.Renderer.Render(reqData)
	if err != nil {
		log.Printf("Certificate render failed for %s: %v", reqData.CertificateNumber, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate PDF!", nil)
	}
	reqData.PDFPath = pdfPath

	if err := ctrl.Store.Insert(reqData); err != nil {
		// Don't leave the rendered file behind when the row never landed
		if rmErr := os.Remove(pdfPath); rmErr != nil {
			log.Printf("Failed to clean up certificate PDF %s: %v", pdfPath, rmErr)
		}
		if errors.Is(err, models.ErrDuplicateNumber) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate number already exists!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate created successfully!", reqData)
}

// GetCertificates handles GET /certificates with limit/offset pagination
func (ctrl *Controller) GetCertificates(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	certs, total, err := ctrl.Store.ListPage(limit, offset)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"data": certs,
		"pagination": fiber.Map{
			"total":   total,
			"limit":   limit,
			"offset":  offset,
			"hasMore": int64(offset+limit) < total,
		},
	})
}

// GetCertificate handles GET /certificates/:id
func (ctrl *Controller) GetCertificate(c *fiber.Ctx) error {
	cert, err := ctrl.Store.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", cert)
}

// UpdateCertificate handles PUT/PATCH /certificates/:id with a partial patch
func (ctrl *Controller) UpdateCertificate(c *fiber.Ctx) error {
	fields, ok := c.Locals("validatedPatch").(map[string]interface{})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	id := c.Params("id")
	if number, exists := fields["certificate_number"]; exists {
		existing, err := ctrl.Store.GetByNumber(number.(string))
		if err == nil && existing.ID != id {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate number already exists!", nil)
		}
	}

	cert, err := ctrl.Store.Patch(id, fields)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		}
		if errors.Is(err, models.ErrDuplicateNumber) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate number already exists!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update certificate!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate updated successfully!", cert)
}

// DeleteCertificate handles DELETE /certificates/:id. Deletion is two-step:
// drop the row, then best-effort remove the backing PDF so no orphan file is
// leaked (log-and-continue if the file removal fails).
func (ctrl *Controller) DeleteCertificate(c *fiber.Ctx) error {
	id := c.Params("id")

	cert, err := ctrl.Store.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate!", nil)
	}

	removed, err := ctrl.Store.Remove(id)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete certificate!", nil)
	}
	if !removed {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if cert.PDFPath != "" {
		if rmErr := os.Remove(cert.PDFPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Printf("Failed to remove certificate PDF %s: %v", cert.PDFPath, rmErr)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate deleted successfully!", fiber.Map{
		"removed": removed,
	})
}

// DownloadCertificate handles GET /certificates/:id/download
func (ctrl *Controller) DownloadCertificate(c *fiber.Ctx) error {
	cert, err := ctrl.Store.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate!", nil)
	}

	if cert.PDFPath == "" {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate PDF not available!", nil)
	}
	if _, statErr := os.Stat(cert.PDFPath); statErr != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate PDF not available!", nil)
	}

	return c.Download(cert.PDFPath, "certificate-"+cert.CertificateNumber+".pdf")
}

// SendWhatsApp handles POST /certificates/:id/send-whatsapp
func (ctrl *Controller) SendWhatsApp(c *fiber.Ctx) error {
	if !ctrl.WhatsApp.IsConfigured() {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "WhatsApp delivery is not configured!", nil)
	}

	cert, err := ctrl.Store.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate!", nil)
	}

	phone, _ := c.Locals("overridePhone").(string)
	if phone == "" {
		phone = cert.PhoneNumber
	}
	if phone == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No phone number available for this certificate!", nil)
	}

	if cert.PDFPath == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate has no rendered PDF!", nil)
	}

	documentURL := ctrl.Renderer.PublicURL(ctrl.PublicBaseURL, cert)
	receipt, err := ctrl.WhatsApp.SendCertificate(phone, cert, documentURL)
	if err != nil {
		if errors.Is(err, utils.ErrNotConfigured) {
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "WhatsApp delivery is not configured!", nil)
		}
		log.Printf("WhatsApp dispatch failed for certificate %s: %v", cert.ID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "WhatsApp delivery failed!", fiber.Map{
			"error": err.Error(),
		})
	}

	if err := ctrl.Store.MarkDelivered(cert.ID, models.ChannelWhatsApp, true); err != nil {
		log.Printf("Failed to mark certificate %s delivered via whatsapp: %v", cert.ID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate sent via WhatsApp!", receipt)
}

// SendEmail handles POST /certificates/:id/send-email
func (ctrl *Controller) SendEmail(c *fiber.Ctx) error {
	if !ctrl.Email.IsConfigured() {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Email delivery is not configured!", nil)
	}

	cert, err := ctrl.Store.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate!", nil)
	}

	email, _ := c.Locals("overrideEmail").(string)
	if email == "" {
		email = cert.Email
	}
	if email == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No email address available for this certificate!", nil)
	}

	if cert.PDFPath == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate has no rendered PDF!", nil)
	}

	receipt, err := ctrl.Email.SendCertificate(email, cert, cert.PDFPath)
	if err != nil {
		if errors.Is(err, utils.ErrNotConfigured) {
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Email delivery is not configured!", nil)
		}
		log.Printf("Email dispatch failed for certificate %s: %v", cert.ID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Email delivery failed!", fiber.Map{
			"error": err.Error(),
		})
	}

	if err := ctrl.Store.MarkDelivered(cert.ID, models.ChannelEmail, true); err != nil {
		log.Printf("Failed to mark certificate %s delivered via email: %v", cert.ID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate sent via email!", receipt)
}

// GetStats handles GET /certificates/stats
func (ctrl *Controller) GetStats(c *fiber.Ctx) error {
	total, err := ctrl.Store.CountAll()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute statistics!", nil)
	}
	delivered, err := ctrl.Store.CountDelivered()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute statistics!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Statistics fetched successfully!", fiber.Map{
		"total":     total,
		"delivered": delivered,
		"pending":   total - delivered,
	})
}
