package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
	"manuscript-review-api/services"
	"manuscript-review-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newManuscriptNumber builds the public manuscript reference, e.g. MS-3F2A91C4.
func newManuscriptNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "MS-" + id[:8]
}

// loadManuscript fetches one manuscript with the standard preloads, mapping
// storage errors onto the workflow error kinds.
func loadManuscript(db *gorm.DB, id int) (*models.Manuscript, error) {
	var manuscript models.Manuscript
	err := db.Preload("Submitter").
		Preload("AssignedEditor").
		Preload("Authors").
		Preload("Reviewers").
		Preload("Reviewers.Reviewer").
		Preload("Versions").
		Preload("EditorialDecisions").
		Preload("EditorialDecisions.Editor").
		Preload("Timeline").
		Preload("Documents").
		Preload("Documents.File").
		Where("manuscript_id = ? AND delete_at IS NULL", id).
		First(&manuscript).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.Errorf(services.ErrNotFound, "Manuscript not found")
		}
		return nil, services.Errorf(services.ErrStorage, "Failed to load manuscript")
	}
	return &manuscript, nil
}

func manuscriptIDParam(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, services.Errorf(services.ErrValidation, "Invalid manuscript ID")
	}
	return id, nil
}

// liveFileSet assembles the manuscript's current file record from its
// document rows.
func liveFileSet(m *models.Manuscript) models.FileSet {
	fileSet := models.FileSet{Supplementary: []models.FileDescriptor{}}
	for i := range m.Documents {
		doc := &m.Documents[i]
		if doc.File == nil {
			continue
		}
		descriptor := doc.File.Descriptor()
		switch doc.DocumentRole {
		case models.DocumentManuscript:
			fileSet.Manuscript = &descriptor
		case models.DocumentCoverLetter:
			fileSet.CoverLetter = &descriptor
		case models.DocumentSupplementary:
			fileSet.Supplementary = append(fileSet.Supplementary, descriptor)
		}
	}
	return fileSet
}

// snapshotVersion appends an immutable file-set snapshot for the given
// version number.
func snapshotVersion(tx *gorm.DB, m *models.Manuscript, version int) error {
	encoded, err := json.Marshal(liveFileSet(m))
	if err != nil {
		return services.Errorf(services.ErrStorage, "Failed to encode file snapshot")
	}
	snapshot := models.ManuscriptVersion{
		ManuscriptID: m.ManuscriptID,
		Version:      version,
		Files:        encoded,
		CreateAt:     time.Now(),
	}
	if err := tx.Create(&snapshot).Error; err != nil {
		return services.Errorf(services.ErrStorage, "Failed to record manuscript version")
	}
	return nil
}

// storeUploadedFile saves one multipart file to disk and records the
// FileUpload and ManuscriptDocument rows. Returns the stored path so the
// caller can clean up on rollback.
func storeUploadedFile(c *gin.Context, tx *gorm.DB, m *models.Manuscript, header *multipart.FileHeader, role string, userID int) (string, error) {
	const maxSize = 10 * 1024 * 1024
	if header.Size > maxSize {
		return "", services.Errorf(services.ErrValidation, "File %s exceeds the 10MB limit", header.Filename)
	}
	if !utils.AllowedDocumentExt(header.Filename) {
		return "", services.Errorf(services.ErrValidation, "File type of %s is not allowed", header.Filename)
	}

	folder, err := utils.ManuscriptFolder(m.ManuscriptNumber)
	if err != nil {
		return "", services.Errorf(services.ErrStorage, "Failed to create upload directory")
	}

	stored := utils.StoredFilename(header.Filename)
	fullPath := filepath.Join(folder, stored)
	if err := c.SaveUploadedFile(header, fullPath); err != nil {
		return "", services.Errorf(services.ErrStorage, "Failed to save file")
	}

	now := time.Now()
	fileUpload := models.FileUpload{
		OriginalName: header.Filename,
		StoredPath:   filepath.Join(m.ManuscriptNumber, stored),
		FileSize:     header.Size,
		MimeType:     header.Header.Get("Content-Type"),
		UploadedBy:   userID,
		UploadedAt:   now,
		CreateAt:     now,
		UpdateAt:     now,
	}
	if err := tx.Create(&fileUpload).Error; err != nil {
		os.Remove(fullPath)
		return "", services.Errorf(services.ErrStorage, "Failed to save file info")
	}

	// Replace the previous file for single-slot roles.
	if role != models.DocumentSupplementary {
		if err := tx.Where("manuscript_id = ? AND document_role = ?", m.ManuscriptID, role).
			Delete(&models.ManuscriptDocument{}).Error; err != nil {
			os.Remove(fullPath)
			return "", services.Errorf(services.ErrStorage, "Failed to save file info")
		}
	}

	document := models.ManuscriptDocument{
		ManuscriptID: m.ManuscriptID,
		FileID:       fileUpload.FileID,
		DocumentRole: role,
		UploadedBy:   userID,
		UploadedAt:   &now,
		CreateAt:     &now,
	}
	if err := tx.Create(&document).Error; err != nil {
		os.Remove(fullPath)
		return "", services.Errorf(services.ErrStorage, "Failed to save file info")
	}

	document.File = &fileUpload
	m.Documents = append(m.Documents, document)
	return fullPath, nil
}

// decodeManuscriptPayload reads the submission payload either from a JSON
// body or from the "data" field of a multipart form carrying file blobs.
func decodeManuscriptPayload(c *gin.Context) (*services.ManuscriptInput, *multipart.Form, error) {
	var input services.ManuscriptInput

	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&input); err != nil {
			return nil, nil, services.Errorf(services.ErrValidation, "Invalid request body")
		}
		return &input, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, services.Errorf(services.ErrValidation, "Invalid multipart form")
	}
	values := form.Value["data"]
	if len(values) == 0 {
		return nil, nil, services.Errorf(services.ErrValidation, "Missing manuscript data")
	}
	if err := json.Unmarshal([]byte(values[0]), &input); err != nil {
		return nil, nil, services.Errorf(services.ErrValidation, "Invalid manuscript data")
	}
	return &input, form, nil
}

func formFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	if files := form.File[field]; len(files) > 0 {
		return files[0]
	}
	return nil
}

// CreateManuscript handles both save-draft and direct submission. The
// payload is validated in full before anything is written; a submission
// additionally requires a manuscript file.
func CreateManuscript(c *gin.Context) {
	identity := currentIdentity(c)
	if err := services.Authorize(identity, services.ActionCreateManuscript); err != nil {
		respondError(c, err)
		return
	}

	input, form, err := decodeManuscriptPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	status := input.Status
	if status == "" {
		status = models.StatusDraft
	}

	manuscriptFile := formFile(form, "manuscript")
	if err := services.ValidateManuscriptInput(*input, status == models.StatusSubmitted, manuscriptFile != nil); err != nil {
		respondError(c, err)
		return
	}

	keywords, err := json.Marshal(input.Keywords)
	if err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to encode keywords"))
		return
	}
	var suggested json.RawMessage
	if len(input.SuggestedReviewers) > 0 {
		suggested, err = json.Marshal(input.SuggestedReviewers)
		if err != nil {
			respondError(c, services.Errorf(services.ErrStorage, "Failed to encode suggested reviewers"))
			return
		}
	}

	now := time.Now()
	manuscript := models.Manuscript{
		ManuscriptNumber:   newManuscriptNumber(),
		Title:              utils.SanitizeInput(input.Title),
		Abstract:           strings.TrimSpace(input.Abstract),
		ManuscriptType:     input.ManuscriptType,
		Status:             models.StatusDraft,
		Keywords:           keywords,
		SuggestedReviewers: suggested,
		SubmittedBy:        identity.UserID,
		CurrentVersion:     1,
		CreateAt:           &now,
		UpdateAt:           &now,
	}
	if category := strings.TrimSpace(input.Category); category != "" {
		manuscript.Category = &category
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var storedPaths []string
	cleanup := func() {
		tx.Rollback()
		for _, path := range storedPaths {
			os.Remove(path)
		}
	}

	if err := tx.Create(&manuscript).Error; err != nil {
		cleanup()
		respondError(c, services.Errorf(services.ErrStorage, "Failed to create manuscript"))
		return
	}

	for i, author := range input.Authors {
		row := models.ManuscriptAuthor{
			ManuscriptID:  manuscript.ManuscriptID,
			Name:          utils.SanitizeInput(author.Name),
			Email:         strings.ToLower(strings.TrimSpace(author.Email)),
			Corresponding: author.Corresponding,
			AuthorOrder:   i + 1,
		}
		if affiliation := strings.TrimSpace(author.Affiliation); affiliation != "" {
			row.Affiliation = &affiliation
		}
		if err := tx.Create(&row).Error; err != nil {
			cleanup()
			respondError(c, services.Errorf(services.ErrStorage, "Failed to save authors"))
			return
		}
	}

	if manuscriptFile != nil {
		path, err := storeUploadedFile(c, tx, &manuscript, manuscriptFile, models.DocumentManuscript, identity.UserID)
		if err != nil {
			cleanup()
			respondError(c, err)
			return
		}
		storedPaths = append(storedPaths, path)
	}
	if coverLetter := formFile(form, "coverLetter"); coverLetter != nil {
		path, err := storeUploadedFile(c, tx, &manuscript, coverLetter, models.DocumentCoverLetter, identity.UserID)
		if err != nil {
			cleanup()
			respondError(c, err)
			return
		}
		storedPaths = append(storedPaths, path)
	}
	if form != nil {
		for field, files := range form.File {
			if !strings.HasPrefix(field, "supplementary_") || len(files) == 0 {
				continue
			}
			path, err := storeUploadedFile(c, tx, &manuscript, files[0], models.DocumentSupplementary, identity.UserID)
			if err != nil {
				cleanup()
				respondError(c, err)
				return
			}
			storedPaths = append(storedPaths, path)
		}
	}

	event := "Draft created"
	message := "Draft saved successfully"
	if status == models.StatusSubmitted {
		event = "Manuscript submitted"
		message = "Manuscript submitted successfully"

		if err := services.TransitionStatus(tx, manuscript.ManuscriptID, models.StatusDraft, models.StatusSubmitted); err != nil {
			cleanup()
			respondError(c, err)
			return
		}
		manuscript.Status = models.StatusSubmitted
		if err := tx.Model(&models.Manuscript{}).
			Where("manuscript_id = ?", manuscript.ManuscriptID).
			Update("submitted_at", now).Error; err != nil {
			cleanup()
			respondError(c, services.Errorf(services.ErrStorage, "Failed to stamp submission time"))
			return
		}

		if err := snapshotVersion(tx, &manuscript, 1); err != nil {
			cleanup()
			respondError(c, err)
			return
		}

		if err := tx.Model(&models.User{}).
			Where("user_id = ?", identity.UserID).
			Update("submission_count", gorm.Expr("submission_count + 1")).Error; err != nil {
			cleanup()
			respondError(c, services.Errorf(services.ErrStorage, "Failed to update author stats"))
			return
		}
	}

	if err := services.AppendTimelineEvent(tx, manuscript.ManuscriptID, identity.UserID, event); err != nil {
		cleanup()
		respondError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		for _, path := range storedPaths {
			os.Remove(path)
		}
		respondError(c, services.Errorf(services.ErrStorage, "Failed to save manuscript"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"manuscript": gin.H{
			"id":                manuscript.ManuscriptID,
			"manuscript_number": manuscript.ManuscriptNumber,
			"title":             manuscript.Title,
			"status":            manuscript.Status,
		},
	})
}

// UpdateManuscript lets the owning author rework a draft in place. Only
// drafts are author-mutable; everything later belongs to the workflow.
func UpdateManuscript(c *gin.Context) {
	identity := currentIdentity(c)
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
	if err := services.CanEditManuscript(identity, manuscript); err != nil {
		respondError(c, err)
		return
	}
	if manuscript.Status != models.StatusDraft {
		respondError(c, services.Errorf(services.ErrConflict, "Only draft manuscripts can be edited"))
		return
	}

	input, _, err := decodeManuscriptPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := services.ValidateManuscriptInput(*input, false, false); err != nil {
		respondError(c, err)
		return
	}

	keywords, err := json.Marshal(input.Keywords)
	if err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to encode keywords"))
		return
	}
	var suggested json.RawMessage
	if len(input.SuggestedReviewers) > 0 {
		suggested, err = json.Marshal(input.SuggestedReviewers)
		if err != nil {
			respondError(c, services.Errorf(services.ErrStorage, "Failed to encode suggested reviewers"))
			return
		}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"title":               utils.SanitizeInput(input.Title),
		"abstract":            strings.TrimSpace(input.Abstract),
		"manuscript_type":     input.ManuscriptType,
		"keywords":            keywords,
		"suggested_reviewers": suggested,
		"update_at":           now,
	}
	if category := strings.TrimSpace(input.Category); category != "" {
		updates["category"] = category
	} else {
		updates["category"] = nil
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&models.Manuscript{}).
		Where("manuscript_id = ? AND status = ?", manuscript.ManuscriptID, models.StatusDraft).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		respondError(c, services.Errorf(services.ErrStorage, "Failed to update manuscript"))
		return
	}

	if err := tx.Where("manuscript_id = ?", manuscript.ManuscriptID).
		Delete(&models.ManuscriptAuthor{}).Error; err != nil {
		tx.Rollback()
		respondError(c, services.Errorf(services.ErrStorage, "Failed to update authors"))
		return
	}
	for i, author := range input.Authors {
		row := models.ManuscriptAuthor{
			ManuscriptID:  manuscript.ManuscriptID,
			Name:          utils.SanitizeInput(author.Name),
			Email:         strings.ToLower(strings.TrimSpace(author.Email)),
			Corresponding: author.Corresponding,
			AuthorOrder:   i + 1,
		}
		if affiliation := strings.TrimSpace(author.Affiliation); affiliation != "" {
			row.Affiliation = &affiliation
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			respondError(c, services.Errorf(services.ErrStorage, "Failed to update authors"))
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to update manuscript"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Draft saved successfully",
	})
}

// SubmitManuscript performs the explicit draft → submitted transition,
// validating the full manuscript and snapshotting the file set.
func SubmitManuscript(c *gin.Context) {
	identity := currentIdentity(c)
	if err := services.Authorize(identity, services.ActionSubmitManuscript); err != nil {
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
	if err := services.CanEditManuscript(identity, manuscript); err != nil {
		respondError(c, err)
		return
	}

	input := manuscriptInputFromModel(manuscript)
	fileSet := liveFileSet(manuscript)
	if err := services.ValidateManuscriptInput(input, true, fileSet.Manuscript != nil); err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	version := len(manuscript.Versions) + 1

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.TransitionStatus(tx, manuscript.ManuscriptID, manuscript.Status, models.StatusSubmitted); err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}
	if err := tx.Model(&models.Manuscript{}).
		Where("manuscript_id = ?", manuscript.ManuscriptID).
		Updates(map[string]interface{}{
			"submitted_at":    now,
			"current_version": version,
		}).Error; err != nil {
		tx.Rollback()
		respondError(c, services.Errorf(services.ErrStorage, "Failed to stamp submission"))
		return
	}

	if err := snapshotVersion(tx, manuscript, version); err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}
	if err := services.AppendTimelineEvent(tx, manuscript.ManuscriptID, identity.UserID, "Manuscript submitted"); err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}
	if err := tx.Model(&models.User{}).
		Where("user_id = ?", identity.UserID).
		Update("submission_count", gorm.Expr("submission_count + 1")).Error; err != nil {
		tx.Rollback()
		respondError(c, services.Errorf(services.ErrStorage, "Failed to update author stats"))
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to submit manuscript"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Manuscript submitted successfully",
		"manuscript": gin.H{
			"id":     manuscript.ManuscriptID,
			"title":  manuscript.Title,
			"status": models.StatusSubmitted,
		},
	})
}

// manuscriptInputFromModel rebuilds the validation input from persisted
// state so submission revalidates exactly what will go under review.
func manuscriptInputFromModel(m *models.Manuscript) services.ManuscriptInput {
	input := services.ManuscriptInput{
		Title:          m.Title,
		Abstract:       m.Abstract,
		ManuscriptType: m.ManuscriptType,
		Keywords:       m.KeywordList(),
	}
	if m.Category != nil {
		input.Category = *m.Category
	}
	for _, author := range m.Authors {
		entry := services.AuthorInput{
			Name:          author.Name,
			Email:         author.Email,
			Corresponding: author.Corresponding,
		}
		if author.Affiliation != nil {
			entry.Affiliation = *author.Affiliation
		}
		input.Authors = append(input.Authors, entry)
	}
	return input
}

// GetManuscripts lists manuscripts scoped by role: authors see their own,
// reviewers their assignments, editors everything past draft.
func GetManuscripts(c *gin.Context) {
	identity := currentIdentity(c)
	if err := services.Authorize(identity, services.ActionReadManuscript); err != nil {
		respondError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if skip < 0 {
		skip = 0
	}

	query := config.DB.Model(&models.Manuscript{}).Where("delete_at IS NULL")

	switch identity.Role {
	case models.RoleAuthor:
		query = query.Where("submitted_by = ?", identity.UserID)
	case models.RoleReviewer:
		query = query.Where(
			"manuscript_id IN (?)",
			config.DB.Model(&models.ManuscriptReviewer{}).
				Select("manuscript_id").
				Where("reviewer_id = ?", identity.UserID),
		)
	case models.RoleEditor:
		query = query.Where("status IN ?", []string{
			models.StatusSubmitted, models.StatusUnderReview, models.StatusRevisionRequired,
		})
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to fetch manuscripts"))
		return
	}

	var manuscripts []models.Manuscript
	if err := query.Preload("Submitter").
		Preload("Authors").
		Order("create_at DESC").
		Limit(limit).
		Offset(skip).
		Find(&manuscripts).Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to fetch manuscripts"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"manuscripts": manuscripts,
		"pagination": gin.H{
			"total":    total,
			"limit":    limit,
			"skip":     skip,
			"has_more": total > int64(skip+limit),
		},
	})
}

// GetManuscript returns one manuscript with its full workflow state,
// guarded by the role scoping rules.
func GetManuscript(c *gin.Context) {
	identity := currentIdentity(c)
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
	if err := services.CanReadManuscript(identity, manuscript); err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"success":    true,
		"manuscript": manuscript,
		"files":      liveFileSet(manuscript),
	}

	// Once a decision round has run, the owning author sees the reviews with
	// the confidential comments stripped.
	if identity.Role == models.RoleAuthor && decisionVisible(manuscript.Status) {
		reviews, err := authorVisibleReviews(manuscript.ManuscriptID)
		if err != nil {
			respondError(c, err)
			return
		}
		response["reviews"] = reviews
	}

	c.JSON(http.StatusOK, response)
}

func decisionVisible(status string) bool {
	switch status {
	case models.StatusRevisionRequired, models.StatusAccepted,
		models.StatusRejected, models.StatusPublished:
		return true
	}
	return false
}

// authorVisibleReviews loads the submitted reviews of a manuscript with the
// confidential comments removed. Reviewer identities are not exposed.
func authorVisibleReviews(manuscriptID int) ([]gin.H, error) {
	var reviews []models.Review
	if err := config.DB.Where("manuscript_id = ? AND status = ?", manuscriptID, models.ReviewCompleted).
		Order("create_at ASC").
		Find(&reviews).Error; err != nil {
		return nil, services.Errorf(services.ErrStorage, "Failed to fetch reviews")
	}

	visible := make([]gin.H, 0, len(reviews))
	for i := range reviews {
		content, err := reviews[i].SanitizedContent()
		if err != nil {
			return nil, services.Errorf(services.ErrStorage, "Corrupt review content for review %d", reviews[i].ReviewID)
		}
		if content == nil {
			continue
		}
		visible = append(visible, gin.H{
			"current_round": reviews[i].CurrentRound,
			"submitted_at":  reviews[i].SubmittedAt,
			"content":       content,
		})
	}
	return visible, nil
}

// PublishManuscript performs the manual accepted → published transition and
// stamps the publication metadata.
func PublishManuscript(c *gin.Context) {
	identity := currentIdentity(c)
	if err := services.Authorize(identity, services.ActionPublish); err != nil {
		respondError(c, err)
		return
	}

	id, err := manuscriptIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		DOI    string `json:"doi"`
		Volume string `json:"volume"`
		Issue  string `json:"issue"`
		Pages  string `json:"pages"`
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
	if err := services.PlanPublish(manuscript.Status); err != nil {
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

	if err := services.TransitionStatus(tx, manuscript.ManuscriptID, models.StatusAccepted, models.StatusPublished); err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	updates := map[string]interface{}{"published_at": now}
	if req.DOI != "" {
		updates["doi"] = req.DOI
	}
	if req.Volume != "" {
		updates["volume"] = req.Volume
	}
	if req.Issue != "" {
		updates["issue"] = req.Issue
	}
	if req.Pages != "" {
		updates["pages"] = req.Pages
	}
	if err := tx.Model(&models.Manuscript{}).
		Where("manuscript_id = ?", manuscript.ManuscriptID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		respondError(c, services.Errorf(services.ErrStorage, "Failed to stamp publication metadata"))
		return
	}

	if err := services.AppendTimelineEvent(tx, manuscript.ManuscriptID, identity.UserID, "Manuscript published"); err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to publish manuscript"))
		return
	}

	manuscriptID := manuscript.ManuscriptID
	services.NotifyUser(config.DB, manuscript.SubmittedBy,
		"Manuscript published",
		fmt.Sprintf("Your manuscript %q has been published.", manuscript.Title),
		"success", &manuscriptID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Manuscript published successfully",
	})
}

// GetManuscriptStats returns the role-scoped dashboard counters.
func GetManuscriptStats(c *gin.Context) {
	identity := currentIdentity(c)
	if identity.UserID == 0 {
		respondError(c, services.Errorf(services.ErrUnauthorized, "Authentication required"))
		return
	}

	count := func(filters map[string]interface{}) int64 {
		query := config.DB.Model(&models.Manuscript{}).Where("delete_at IS NULL")
		for expr, value := range filters {
			query = query.Where(expr, value)
		}
		var n int64
		query.Count(&n)
		return n
	}

	stats := gin.H{}
	switch identity.Role {
	case models.RoleAuthor:
		stats = gin.H{
			"total_submissions": count(map[string]interface{}{"submitted_by = ?": identity.UserID}),
			"under_review": count(map[string]interface{}{
				"submitted_by = ?": identity.UserID, "status = ?": models.StatusUnderReview}),
			"accepted": count(map[string]interface{}{
				"submitted_by = ?": identity.UserID, "status = ?": models.StatusAccepted}),
			"revision_required": count(map[string]interface{}{
				"submitted_by = ?": identity.UserID, "status = ?": models.StatusRevisionRequired}),
			"rejected": count(map[string]interface{}{
				"submitted_by = ?": identity.UserID, "status = ?": models.StatusRejected}),
		}
	case models.RoleReviewer:
		reviewerCount := func(statuses []string) int64 {
			query := config.DB.Model(&models.ManuscriptReviewer{}).
				Where("reviewer_id = ?", identity.UserID)
			if len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
			var n int64
			query.Count(&n)
			return n
		}
		stats = gin.H{
			"total_reviews":     reviewerCount(nil),
			"pending_reviews":   reviewerCount([]string{models.ReviewerInvited, models.ReviewerAccepted}),
			"completed_reviews": reviewerCount([]string{models.ReviewerCompleted}),
		}
	case models.RoleEditor, models.RoleAdmin:
		stats = gin.H{
			"new_submissions":   count(map[string]interface{}{"status = ?": models.StatusSubmitted}),
			"under_review":      count(map[string]interface{}{"status = ?": models.StatusUnderReview}),
			"awaiting_decision": count(map[string]interface{}{"status = ?": models.StatusRevisionRequired}),
			"total_managed":     count(map[string]interface{}{"assigned_editor_id = ?": identity.UserID}),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
