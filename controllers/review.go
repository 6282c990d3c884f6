package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
	"manuscript-review-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SubmitReview records a reviewer's report for a manuscript. The reviewer
// must have accepted their invitation first. A resubmission snapshots the
// previous content into the revision history and bumps the round.
func SubmitReview(c *gin.Context) {
	identity := currentIdentity(c)
	if err := services.Authorize(identity, services.ActionSubmitReview); err != nil {
		respondError(c, err)
		return
	}

	id, err := manuscriptIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var content models.ReviewContent
	if err := c.ShouldBindJSON(&content); err != nil {
		respondError(c, services.Errorf(services.ErrValidation, "Invalid request body"))
		return
	}
	if err := services.ValidateReviewContent(content); err != nil {
		respondError(c, err)
		return
	}

	manuscript, err := loadManuscript(config.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	entry := manuscript.ReviewerEntry(identity.UserID)
	if err := services.EnsureReviewable(entry); err != nil {
		respondError(c, err)
		return
	}

	var review models.Review
	firstSubmission := false
	err = config.DB.Preload("Revisions").
		Where("manuscript_id = ? AND reviewer_id = ?", manuscript.ManuscriptID, identity.UserID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		firstSubmission = true
		review = models.Review{
			ManuscriptID:       manuscript.ManuscriptID,
			ReviewerID:         identity.UserID,
			InvitationSentAt:   entry.InvitedAt,
			InvitationDeadline: entry.Deadline,
			CurrentRound:       1,
			Status:             models.ReviewInProgress,
		}
	} else if err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to load review"))
		return
	}

	now := time.Now()
	snapshot, err := services.ApplyResubmission(&review, content, now)
	if err != nil {
		respondError(c, err)
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if firstSubmission {
		review.CreateAt = &now
		review.UpdateAt = &now
		if err := tx.Create(&review).Error; err != nil {
			tx.Rollback()
			respondError(c, services.Errorf(services.ErrStorage, "Failed to save review"))
			return
		}
	} else {
		review.UpdateAt = &now
		if err := tx.Save(&review).Error; err != nil {
			tx.Rollback()
			respondError(c, services.Errorf(services.ErrStorage, "Failed to save review"))
			return
		}
	}

	if snapshot != nil {
		if err := tx.Create(snapshot).Error; err != nil {
			tx.Rollback()
			respondError(c, services.Errorf(services.ErrStorage, "Failed to record review revision"))
			return
		}
	}

	// The reviewer entry completes atomically with the review save.
	result := tx.Model(&models.ManuscriptReviewer{}).
		Where("entry_id = ? AND status = ?", entry.EntryID, models.ReviewerAccepted).
		Updates(map[string]interface{}{
			"status":       models.ReviewerCompleted,
			"completed_at": now,
		})
	if result.Error != nil {
		tx.Rollback()
		respondError(c, services.Errorf(services.ErrStorage, "Failed to complete reviewer assignment"))
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		respondError(c, services.Errorf(services.ErrConflict, "Reviewer assignment changed, please retry"))
		return
	}

	if err := tx.Model(&models.User{}).
		Where("user_id = ?", identity.UserID).
		Update("review_count", gorm.Expr("review_count + 1")).Error; err != nil {
		tx.Rollback()
		respondError(c, services.Errorf(services.ErrStorage, "Failed to update reviewer stats"))
		return
	}

	if err := services.AppendTimelineEvent(tx, manuscript.ManuscriptID, identity.UserID, "Review submitted"); err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to submit review"))
		return
	}

	if manuscript.AssignedEditorID != nil {
		manuscriptID := manuscript.ManuscriptID
		services.NotifyUser(config.DB, *manuscript.AssignedEditorID,
			"Review submitted",
			fmt.Sprintf("A review has been submitted for %q.", manuscript.Title),
			"info", &manuscriptID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review submitted successfully",
		"review": gin.H{
			"id":            review.ReviewID,
			"status":        review.Status,
			"current_round": review.CurrentRound,
		},
	})
}

// GetManuscriptReviews returns all reviews of a manuscript with the
// aggregate summary. Editors only; confidential comments stay visible here.
func GetManuscriptReviews(c *gin.Context) {
	identity := currentIdentity(c)
	if err := services.Authorize(identity, services.ActionListReviews); err != nil {
		respondError(c, err)
		return
	}

	id, err := manuscriptIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := loadManuscript(config.DB, id); err != nil {
		respondError(c, err)
		return
	}

	var reviews []models.Review
	if err := config.DB.Preload("Reviewer").
		Preload("Revisions").
		Where("manuscript_id = ?", id).
		Order("create_at ASC").
		Find(&reviews).Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to fetch reviews"))
		return
	}

	summary, err := services.Summarize(reviews)
	if err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to summarize reviews"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"summary": summary,
	})
}

// GetMyReview returns the calling reviewer's own review of a manuscript,
// revision history included.
func GetMyReview(c *gin.Context) {
	identity := currentIdentity(c)
	if err := services.Authorize(identity, services.ActionSubmitReview); err != nil {
		respondError(c, err)
		return
	}

	id, err := manuscriptIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var review models.Review
	err = config.DB.Preload("Revisions").
		Where("manuscript_id = ? AND reviewer_id = ?", id, identity.UserID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, services.Errorf(services.ErrNotFound, "Review not found"))
		return
	}
	if err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to load review"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"review":  review,
	})
}
