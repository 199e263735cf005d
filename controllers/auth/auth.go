package controllers

import (
	"certify/config"
	"certify/database"
	"certify/middleware"
	"certify/models"
	authValidator "certify/validators/auth"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates a dashboard admin and issues a JWT
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// SeedAdmin creates the dashboard admin account on first boot
func SeedAdmin() {
	if config.AppConfig.AdminPassword == "" {
		return
	}

	var count int64
	if err := database.Database.Db.Model(&models.User{}).Count(&count).Error; err != nil {
		log.Printf("Failed to check admin account: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.AppConfig.AdminPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Name:         "Admin",
		Email:        config.AppConfig.AdminEmail,
		PasswordHash: string(hash),
	}
	if err := database.Database.Db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin account: %v", err)
		return
	}
	log.Printf("Seeded dashboard admin account %s", admin.Email)
}
