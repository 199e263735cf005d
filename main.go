package main

import (
	"certify/config"
	auth "certify/controllers/auth"
	certificate "certify/controllers/certificate"
	post "certify/controllers/post"
	"certify/database"
	"certify/models"
	authRoutes "certify/routers/authRoutes"
	certificateRoutes "certify/routers/certificateRoutes"
	postRoutes "certify/routers/postRoutes"
	"certify/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"log"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	auth.SeedAdmin()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve rendered certificates from the public folder
	app.Static("/", "./public")

	cfg := config.AppConfig
	ctrl := &certificate.Controller{
		Store:    models.NewCertificateStore(database.Database.Db),
		Renderer: utils.NewCertificateRenderer(cfg.CertificateDir),
		WhatsApp: utils.NewWhatsAppService(utils.WhatsAppConfig{
			Token:         cfg.WhatsAppToken,
			PhoneNumberID: cfg.WhatsAppPhoneNumberID,
			ApiVersion:    cfg.WhatsAppApiVersion,
			CountryCode:   cfg.WhatsAppCountryCode,
		}),
		Email: utils.NewEmailService(utils.EmailConfig{
			ApiKey:   cfg.SendGridApiKey,
			Sender:   cfg.EmailSender,
			FromName: cfg.EmailFromName,
		}),
		PublicBaseURL: cfg.PublicBaseURL,
	}

	post.Publisher = utils.NewPostPublisher(database.Database.Db, cfg.PublishWebhookURL)
	scheduler := utils.StartPostScheduler(post.Publisher)
	defer scheduler.Stop()

	authRoutes.SetupAuthRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app, ctrl)
	postRoutes.SetupPostRoutes(app)

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
