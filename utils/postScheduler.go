package utils

import (
	"certify/models"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[POST-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// PostPublisher publishes due scheduled posts. When WebhookURL is set the
// post is delivered there; otherwise publishing is recorded locally.
type PostPublisher struct {
	DB         *gorm.DB
	WebhookURL string
	client     *resty.Client
}

func NewPostPublisher(db *gorm.DB, webhookURL string) *PostPublisher {
	return &PostPublisher{
		DB:         db,
		WebhookURL: webhookURL,
		client:     resty.New(),
	}
}

// Publish delivers one post and records the outcome on the row
func (p *PostPublisher) Publish(post *models.ScheduledPost) error {
	publishedAt := time.Now()

	if p.WebhookURL != "" {
		resp, err := p.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(post).
			Post(p.WebhookURL)

		if err != nil || resp.IsError() {
			detail := ""
			if err != nil {
				detail = err.Error()
			} else {
				detail = resp.Status()
			}
			p.DB.Model(post).Updates(map[string]interface{}{
				"status":        models.PostStatusFailed,
				"publish_error": detail,
			})
			logScheduler("Post " + post.ID + " publish FAILED: " + detail)
			post.Status = models.PostStatusFailed
			post.PublishError = detail
			return fmt.Errorf("publish webhook failed: %s", detail)
		}
	}

	p.DB.Model(post).Updates(map[string]interface{}{
		"status":        models.PostStatusPublished,
		"published_at":  publishedAt,
		"publish_error": "",
	})
	post.Status = models.PostStatusPublished
	post.PublishedAt = &publishedAt
	post.PublishError = ""
	logScheduler("Post " + post.ID + " published to " + post.Platform)
	return nil
}

// ProcessDuePosts publishes every SCHEDULED post whose time has arrived
// within the current minute window.
func (p *PostPublisher) ProcessDuePosts() {
	windowEnd := now.With(time.Now()).EndOfMinute()

	var posts []models.ScheduledPost
	if err := p.DB.Where("status = ? AND scheduled_at <= ?", models.PostStatusScheduled, windowEnd).
		Order("scheduled_at asc").
		Find(&posts).Error; err != nil {
		logScheduler("Error fetching due posts: " + err.Error())
		return
	}

	for i := range posts {
		_ = p.Publish(&posts[i])
	}
}

// StartPostScheduler runs the publisher every minute
func StartPostScheduler(p *PostPublisher) *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", p.ProcessDuePosts); err != nil {
		log.Fatalf("Failed to start post scheduler: %v", err)
	}
	c.Start()
	logScheduler("Post scheduler started")
	return c
}
