package certificateRoutes

import (
	controllers "certify/controllers/certificate"
	validators "certify/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up all certificate lifecycle routes
func SetupCertificateRoutes(app *fiber.App, ctrl *controllers.Controller) {
	group := app.Group("/certificates")

	// Stats before :id so the literal path wins
	group.Get("/stats", ctrl.GetStats)

	group.Post("/", validators.CreateCertificate(), ctrl.CreateCertificate)
	group.Get("/", ctrl.GetCertificates)
	group.Get("/:id", ctrl.GetCertificate)
	group.Put("/:id", validators.UpdateCertificate(), ctrl.UpdateCertificate)
	group.Patch("/:id", validators.UpdateCertificate(), ctrl.UpdateCertificate)
	group.Delete("/:id", ctrl.DeleteCertificate)

	group.Get("/:id/download", ctrl.DownloadCertificate)
	group.Post("/:id/send-whatsapp", validators.SendWhatsApp(), ctrl.SendWhatsApp)
	group.Post("/:id/send-email", validators.SendEmail(), ctrl.SendEmail)
}
