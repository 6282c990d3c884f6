package services

import (
	"log"
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"

	"gorm.io/gorm"
)

// NotifyUser writes an in-app notification row and sends a best-effort
// email. Notification failures never fail the workflow operation that
// triggered them; they are logged and dropped.
func NotifyUser(db *gorm.DB, userID int, title, message, notifType string, manuscriptID *int) {
	notification := models.Notification{
		UserID:   uint(userID),
		Title:    title,
		Message:  message,
		Type:     notifType,
		IsRead:   false,
		CreateAt: time.Now(),
	}
	if manuscriptID != nil {
		related := uint(*manuscriptID)
		notification.RelatedManuscriptID = &related
	}

	if err := db.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to store notification for user %d: %v", userID, err)
		return
	}

	if !config.MailConfigured() {
		return
	}

	var user models.User
	if err := db.Select("email").Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		return
	}
	if err := config.SendMail([]string{user.Email}, title, "<p>"+message+"</p>"); err != nil {
		log.Printf("Warning: failed to email user %d: %v", userID, err)
	}
}
