package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	PublicBaseURL  string // base URL embedded in delivery links
	CertificateDir string // where rendered certificate PDFs are written

	AdminEmail    string
	AdminPassword string

	// WhatsApp Business Cloud API
	WhatsAppToken         string
	WhatsAppPhoneNumberID string
	WhatsAppApiVersion    string
	WhatsAppCountryCode   string // default country prefix for bare local numbers

	// SendGrid
	SendGridApiKey string
	EmailSender    string
	EmailFromName  string

	// Social post publishing
	PublishWebhookURL string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		CertificateDir: getEnv("CERTIFICATE_DIR", "./public/certificates"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		WhatsAppToken:         getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppApiVersion:    getEnv("WHATSAPP_API_VERSION", "v21.0"),
		WhatsAppCountryCode:   getEnv("WHATSAPP_COUNTRY_CODE", "91"),

		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", ""),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Certificate Desk"),

		PublishWebhookURL: getEnv("PUBLISH_WEBHOOK_URL", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.WhatsAppToken == "" {
		log.Println("Warning: WHATSAPP_ACCESS_TOKEN not set. WhatsApp delivery is disabled.")
	}
	if AppConfig.SendGridApiKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Email delivery is disabled.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
