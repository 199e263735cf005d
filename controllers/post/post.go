package controllers

import (
	"certify/database"
	"certify/middleware"
	"certify/models"
	"certify/utils"
	postValidator "certify/validators/post"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Publisher is set at startup; PublishPost uses it to force-publish
var Publisher *utils.PostPublisher

// CreatePost creates a draft or scheduled post
func CreatePost(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPost").(*postValidator.CreatePostRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	status := models.PostStatusScheduled
	if reqData.Draft {
		status = models.PostStatusDraft
	}

	post := models.ScheduledPost{
		Platform:    reqData.Platform,
		Content:     reqData.Content,
		ImageURL:    reqData.ImageURL,
		ScheduledAt: reqData.ScheduledAt,
		Status:      status,
	}

	if err := database.Database.Db.Create(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Post created successfully!", post)
}

// GetPosts lists posts with an optional status filter and pagination
func GetPosts(c *fiber.Ctx) error {
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
	status := c.Query("status") // DRAFT, SCHEDULED, PUBLISHED, FAILED

	db := database.Database.Db.Model(&models.ScheduledPost{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch posts!", nil)
	}

	var posts []models.ScheduledPost
	if err := db.Order("created_at desc, id desc").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch posts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Posts fetched successfully!", fiber.Map{
		"data": posts,
		"pagination": fiber.Map{
			"total":   total,
			"limit":   limit,
			"offset":  offset,
			"hasMore": int64(offset+limit) < total,
		},
	})
}

// GetPost fetches a single post
func GetPost(c *fiber.Ctx) error {
	var post models.ScheduledPost
	if err := database.Database.Db.Where("id = ?", c.Params("id")).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch post!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post fetched successfully!", post)
}

// UpdatePost updates a post that has not yet been published
func UpdatePost(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPostUpdate").(*postValidator.UpdatePostRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var post models.ScheduledPost
	if err := database.Database.Db.Where("id = ?", c.Params("id")).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch post!", nil)
	}

	if post.Status == models.PostStatusPublished {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Published posts cannot be edited!", nil)
	}

	if reqData.Platform != nil {
		post.Platform = *reqData.Platform
	}
	if reqData.Content != nil {
		post.Content = *reqData.Content
	}
	if reqData.ImageURL != nil {
		post.ImageURL = *reqData.ImageURL
	}
	if reqData.ScheduledAt != nil {
		post.ScheduledAt = reqData.ScheduledAt
		if post.Status == models.PostStatusFailed {
			post.Status = models.PostStatusScheduled
			post.PublishError = ""
		}
	}

	if err := database.Database.Db.Save(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post updated successfully!", post)
}

// DeletePost removes a post
func DeletePost(c *fiber.Ctx) error {
	res := database.Database.Db.Where("id = ?", c.Params("id")).Delete(&models.ScheduledPost{})
	if res.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete post!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post deleted successfully!", fiber.Map{
		"removed": true,
	})
}

// PublishPost force-publishes a post immediately
func PublishPost(c *fiber.Ctx) error {
	var post models.ScheduledPost
	if err := database.Database.Db.Where("id = ?", c.Params("id")).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch post!", nil)
	}

	if post.Status == models.PostStatusPublished {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Post is already published!", nil)
	}

	if err := Publisher.Publish(&post); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to publish post!", fiber.Map{
			"error": err.Error(),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post published successfully!", post)
}
