package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Certificate represents an issued certificate and its delivery state
type Certificate struct {
	ID                string `json:"id" gorm:"type:uuid;primaryKey"`
	RecipientName     string `json:"recipient_name" gorm:"not null"`
	CertificateNumber string `json:"certificate_number" gorm:"uniqueIndex;not null"`
	AwardReraNumber   string `json:"award_rera_number"`
	Description       string `json:"description" gorm:"type:text"`
	PhoneNumber       string `json:"phone_number"`
	Email             string `json:"email"`

	// Set once the PDF has been rendered; never accepted from clients
	PDFPath   string `json:"pdf_path"`
	IssueYear int    `json:"issue_year"`

	WhatsappSent   bool       `json:"whatsapp_sent" gorm:"default:false"`
	WhatsappSentAt *time.Time `json:"whatsapp_sent_at"`
	EmailSent      bool       `json:"email_sent" gorm:"default:false"`
	EmailSentAt    *time.Time `json:"email_sent_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (cert *Certificate) BeforeCreate(tx *gorm.DB) (err error) {
	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	if cert.IssueYear == 0 {
		cert.IssueYear = time.Now().Year()
	}
	return
}
