package controllers

import (
	"net/http"
	"os"
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
	"manuscript-review-api/services"

	"github.com/gin-gonic/gin"
)

// UploadDocument attaches a file to a manuscript's live file record. Only
// the owning author may upload, and only while the manuscript is still
// author-editable (draft or revision_required).
func UploadDocument(c *gin.Context) {
	identity := currentIdentity(c)
	if err := services.Authorize(identity, services.ActionUploadDocument); err != nil {
		respondError(c, err)
		return
	}

	id, err := manuscriptIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	manuscript, err := loadManuscript(config.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if manuscript.SubmittedBy != identity.UserID && identity.Role != models.RoleAdmin {
		respondError(c, services.Errorf(services.ErrForbidden, "You can only upload files to your own manuscripts"))
		return
	}
	if manuscript.Status != models.StatusDraft && manuscript.Status != models.StatusRevisionRequired {
		respondError(c, services.Errorf(services.ErrConflict, "Files cannot be changed while the manuscript is %s", manuscript.Status))
		return
	}

	role := c.DefaultPostForm("role", models.DocumentManuscript)
	if !models.ValidDocumentRole(role) {
		respondError(c, services.Errorf(services.ErrValidation, "Unknown document role"))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, services.Errorf(services.ErrValidation, "No file provided"))
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	storedPath, err := storeUploadedFile(c, tx, manuscript, header, role, identity.UserID)
	if err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	if err := tx.Model(&models.Manuscript{}).
		Where("manuscript_id = ?", manuscript.ManuscriptID).
		Update("update_at", time.Now()).Error; err != nil {
		tx.Rollback()
		os.Remove(storedPath)
		respondError(c, services.Errorf(services.ErrStorage, "Failed to save file info"))
		return
	}

	if err := tx.Commit().Error; err != nil {
		os.Remove(storedPath)
		respondError(c, services.Errorf(services.ErrStorage, "Failed to save file"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "File uploaded successfully",
		"files":   liveFileSet(manuscript),
	})
}
