package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
	"manuscript-review-api/services"

	"github.com/gin-gonic/gin"
)

// searchTerm reads the free-text search term. The canonical parameter is
// "query"; "q" is accepted as a shorthand.
func searchTerm(c *gin.Context) string {
	if term := strings.TrimSpace(c.Query("query")); term != "" {
		return term
	}
	return strings.TrimSpace(c.Query("q"))
}

// SearchUsers finds candidate reviewers by name, email or affiliation, with
// an optional expertise tag filter. Editors use it to build invitation
// batches.
func SearchUsers(c *gin.Context) {
	identity := currentIdentity(c)
	if err := services.Authorize(identity, services.ActionSearchReviewers); err != nil {
		respondError(c, err)
		return
	}

	role := c.DefaultQuery("role", models.RoleReviewer)
	if !models.ValidRole(role) {
		respondError(c, services.Errorf(services.ErrValidation, "Unknown role"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := config.DB.Model(&models.User{}).
		Where("role = ? AND delete_at IS NULL", role)

	if term := searchTerm(c); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(affiliation) LIKE ?",
			like, like, like,
		)
	}
	if expertise := strings.TrimSpace(c.Query("expertise")); expertise != "" {
		// Expertise is a JSON array of tags; a LIKE over the encoded value
		// keeps the query portable.
		query = query.Where("LOWER(expertise) LIKE ?", "%"+strings.ToLower(expertise)+"%")
	}

	var users []models.User
	if err := query.Order("name ASC").Limit(limit).Find(&users).Error; err != nil {
		respondError(c, services.Errorf(services.ErrStorage, "Failed to search users"))
		return
	}

	results := make([]gin.H, 0, len(users))
	for i := range users {
		user := &users[i]
		results = append(results, gin.H{
			"id":           user.UserID,
			"name":         user.Name,
			"email":        user.Email,
			"affiliation":  user.Affiliation,
			"expertise":    user.ExpertiseTags(),
			"review_count": user.ReviewCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   results,
	})
}
