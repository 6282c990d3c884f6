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

// InviteReviewers lets an editor invite one or more reviewers to a
// manuscript. Duplicate invitees are skipped; the first successful batch on
// a submitted or revision_required manuscript moves it under review.
func InviteReviewers(c *gin.Context) {
	identity := currentIdentity(c)
	if err := services.Authorize(identity, services.ActionInviteReviewers); err != nil {
		respondError(c, err)
		return
	}

	id, err := manuscriptIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Reviewers []services.InviteRequest `json:"reviewers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.Errorf(services.ErrValidation, "Invalid request body"))
		return
	}

	manuscript, err := loadManuscript(config.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	plan, err := services.PlanInvitations(manuscript, req.Reviewers, now)
	if err != nil {
		respondError(c, err)
		return
	}

	// Every invitee must be a real reviewer-capable account.
	inviteeIDs := make([]int, 0, len(plan.NewEntries))
	for _, entry := range plan.NewEntries {
		inviteeIDs = append(inviteeIDs, entry.ReviewerID)
	}
	var invitees []models.User
	if err := config.DB.Where("user_id IN ? AND delete_at IS NULL", inviteeIDs).
		Find(&invitees).Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to look up reviewers"))
		return
	}
	if len(invitees) != len(inviteeIDs) {
		respondError(c, services.Errorf(services.ErrNotFound, "One or more reviewers not found"))
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for i := range plan.NewEntries {
		if err := tx.Create(&plan.NewEntries[i]).Error; err != nil {
			tx.Rollback()
			respondError(c, services.Errorf(services.ErrStorage, "Failed to save reviewer invitation"))
			return
		}
	}

	if plan.NextStatus != "" {
		if err := services.TransitionStatus(tx, manuscript.ManuscriptID, manuscript.Status, plan.NextStatus); err != nil {
			tx.Rollback()
			respondError(c, err)
			return
		}
	}

	event := fmt.Sprintf("%d reviewer(s) invited", len(plan.NewEntries))
	if err := services.AppendTimelineEvent(tx, manuscript.ManuscriptID, identity.UserID, event); err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to invite reviewers"))
		return
	}

	manuscriptID := manuscript.ManuscriptID
	for _, invitee := range invitees {
		services.NotifyUser(config.DB, invitee.UserID,
			"Review invitation",
			fmt.Sprintf("You have been invited to review %q.", manuscript.Title),
			"info", &manuscriptID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         fmt.Sprintf("%d reviewer(s) invited successfully", len(plan.NewEntries)),
		"invited":         inviteeIDs,
		"already_invited": plan.AlreadyInvited,
	})
}

// RespondInvitation records a reviewer's accept or decline on their own
// invitation. The update is guarded on the invited status so a double
// response loses cleanly.
func RespondInvitation(c *gin.Context) {
	identity := currentIdentity(c)
	if err := services.Authorize(identity, services.ActionRespondInvitation); err != nil {
		respondError(c, err)
		return
	}

	id, err := manuscriptIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.Errorf(services.ErrValidation, "Invalid request body"))
		return
	}

	manuscript, err := loadManuscript(config.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	entry := manuscript.ReviewerEntry(identity.UserID)
	if entry == nil {
		respondError(c, services.Errorf(services.ErrNotFound, "You are not invited to review this manuscript"))
		return
	}

	now := time.Now()
	if err := services.ApplyInvitationResponse(entry, req.Action, now); err != nil {
		respondError(c, err)
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	result := tx.Model(&models.ManuscriptReviewer{}).
		Where("entry_id = ? AND status = ?", entry.EntryID, models.ReviewerInvited).
		Updates(map[string]interface{}{
			"status":       entry.Status,
			"responded_at": entry.RespondedAt,
		})
	if result.Error != nil {
		tx.Rollback()
		respondError(c, services.Errorf(services.ErrStorage, "Failed to record response"))
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		respondError(c, services.Errorf(services.ErrConflict, "You have already responded to this invitation"))
		return
	}

	event := fmt.Sprintf("Reviewer %s the invitation", entry.Status)
	if err := services.AppendTimelineEvent(tx, manuscript.ManuscriptID, identity.UserID, event); err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to record response"))
		return
	}

	if manuscript.AssignedEditorID != nil {
		manuscriptID := manuscript.ManuscriptID
		services.NotifyUser(config.DB, *manuscript.AssignedEditorID,
			"Reviewer responded",
			fmt.Sprintf("A reviewer has %s the invitation for %q.", entry.Status, manuscript.Title),
			"info", &manuscriptID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Invitation %s successfully", entry.Status),
		"status":  entry.Status,
	})
}
