package controllers

import (
	"fmt"
	"net/http"
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
	"manuscript-review-api/services"

	"github.com/gin-gonic/gin"
)

// SubmitDecision records an editorial decision: the status transition, the
// append-only decision log entry and the timeline event commit together.
// The deciding editor becomes the assigned editor if none is set yet.
func SubmitDecision(c *gin.Context) {
	identity := currentIdentity(c)
	if err := services.Authorize(identity, services.ActionDecide); err != nil {
		respondError(c, err)
		return
	}

	id, err := manuscriptIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req services.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.Errorf(services.ErrValidation, "Invalid request body"))
		return
	}

	manuscript, err := loadManuscript(config.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}

	outcome, err := services.PlanDecision(manuscript.Status, req)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.TransitionStatus(tx, manuscript.ManuscriptID, manuscript.Status, outcome.NewStatus); err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	if manuscript.AssignedEditorID == nil {
		if err := tx.Model(&models.Manuscript{}).
			Where("manuscript_id = ? AND assigned_editor_id IS NULL", manuscript.ManuscriptID).
			Update("assigned_editor_id", identity.UserID).Error; err != nil {
			tx.Rollback()
			respondError(c, services.Errorf(services.ErrStorage, "Failed to assign editor"))
			return
		}
	}

	decision := models.EditorialDecision{
		ManuscriptID: manuscript.ManuscriptID,
		EditorID:     identity.UserID,
		Decision:     outcome.Normalized,
		RevisionType: outcome.RevisionType,
		Comments:     req.Feedback,
		CreateAt:     now,
	}
	if err := tx.Create(&decision).Error; err != nil {
		tx.Rollback()
		respondError(c, services.Errorf(services.ErrStorage, "Failed to record decision"))
		return
	}

	if err := services.AppendTimelineEvent(tx, manuscript.ManuscriptID, identity.UserID, outcome.TimelineEvent); err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to submit decision"))
		return
	}

	manuscriptID := manuscript.ManuscriptID
	services.NotifyUser(config.DB, manuscript.SubmittedBy,
		"Editorial decision",
		fmt.Sprintf("A decision has been made on your manuscript %q: %s.", manuscript.Title, req.Decision),
		"info", &manuscriptID)

	updated, err := loadManuscript(config.DB, manuscript.ManuscriptID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Decision submitted successfully",
		"manuscript": updated,
	})
}
