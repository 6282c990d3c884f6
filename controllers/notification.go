package controllers

import (
	"net/http"
	"strconv"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
	"manuscript-review-api/services"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the caller's notifications, newest first.
func GetNotifications(c *gin.Context) {
	identity := currentIdentity(c)
	if identity.UserID == 0 {
		respondError(c, services.Errorf(services.ErrUnauthorized, "Authentication required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := config.DB.Where("user_id = ?", identity.UserID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("create_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to fetch notifications"))
		return
	}

	var unread int64
	config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", identity.UserID, false).
		Count(&unread)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(c *gin.Context) {
	identity := currentIdentity(c)
	if identity.UserID == 0 {
		respondError(c, services.Errorf(services.ErrUnauthorized, "Authentication required"))
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, services.Errorf(services.ErrValidation, "Invalid notification ID"))
		return
	}

	result := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", id, identity.UserID).
		Update("is_read", true)
	if result.Error != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to update notification"))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, services.Errorf(services.ErrNotFound, "Notification not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notification marked as read",
	})
}
