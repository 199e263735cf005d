package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scheduled post statuses
const (
	PostStatusDraft     = "DRAFT"
	PostStatusScheduled = "SCHEDULED"
	PostStatusPublished = "PUBLISHED"
	PostStatusFailed    = "FAILED"
)

// ScheduledPost is a social-media post queued on the dashboard
type ScheduledPost struct {
	ID           string     `json:"id" gorm:"type:uuid;primaryKey"`
	Platform     string     `json:"platform" gorm:"not null"` // TWITTER, FACEBOOK, INSTAGRAM, LINKEDIN
	Content      string     `json:"content" gorm:"type:text;not null"`
	ImageURL     string     `json:"image_url"`
	ScheduledAt  *time.Time `json:"scheduled_at" gorm:"index"`
	Status       string     `json:"status" gorm:"default:'DRAFT';index"`
	PublishedAt  *time.Time `json:"published_at"`
	PublishError string     `json:"publish_error"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *ScheduledPost) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return
}
