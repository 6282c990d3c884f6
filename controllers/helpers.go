package controllers

import (
	"errors"
	"net/http"

	"manuscript-review-api/services"

	"github.com/gin-gonic/gin"
)

// currentIdentity pulls the verified identity out of the Gin context. A zero
// identity means the auth middleware did not run.
func currentIdentity(c *gin.Context) services.Identity {
	identity := services.Identity{}
	if userID, exists := c.Get("userID"); exists {
		if id, ok := userID.(int); ok {
			identity.UserID = id
		}
	}
	if role, exists := c.Get("role"); exists {
		if r, ok := role.(string); ok {
			identity.Role = r
		}
	}
	return identity
}

// respondError maps workflow error kinds onto HTTP status codes. Validation
// errors carry their field details.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": verr.Fields,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
