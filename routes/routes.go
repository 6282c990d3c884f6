package routes

import (
	"manuscript-review-api/controllers"
	"manuscript-review-api/middleware"
	"manuscript-review-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Manuscript Review API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)

			// Reviewer search (editors assemble invitation batches here)
			protected.GET("/users/search",
				middleware.RequireRole(models.RoleEditor, models.RoleAdmin),
				controllers.SearchUsers)

			// Manuscripts
			manuscripts := protected.Group("/manuscripts")
			{
				manuscripts.GET("", controllers.GetManuscripts)
				manuscripts.GET("/stats", controllers.GetManuscriptStats)
				manuscripts.GET("/:id", controllers.GetManuscript)

				// Authors create, edit and submit their own work
				manuscripts.POST("",
					middleware.RequireRole(models.RoleAuthor, models.RoleAdmin),
					controllers.CreateManuscript)
				manuscripts.PUT("/:id",
					middleware.RequireRole(models.RoleAuthor, models.RoleAdmin),
					controllers.UpdateManuscript)
				manuscripts.POST("/:id/submit",
					middleware.RequireRole(models.RoleAuthor, models.RoleAdmin),
					controllers.SubmitManuscript)
				manuscripts.POST("/:id/documents",
					middleware.RequireRole(models.RoleAuthor, models.RoleAdmin),
					controllers.UploadDocument)

				// Editor workflow
				manuscripts.POST("/:id/reviewers",
					middleware.RequireRole(models.RoleEditor, models.RoleAdmin),
					controllers.InviteReviewers)
				manuscripts.POST("/:id/decision",
					middleware.RequireRole(models.RoleEditor, models.RoleAdmin),
					controllers.SubmitDecision)
				manuscripts.POST("/:id/publish",
					middleware.RequireRole(models.RoleEditor, models.RoleAdmin),
					controllers.PublishManuscript)
				manuscripts.GET("/:id/reviews",
					middleware.RequireRole(models.RoleEditor, models.RoleAdmin),
					controllers.GetManuscriptReviews)

				// Reviewer workflow
				manuscripts.POST("/:id/invitation",
					middleware.RequireRole(models.RoleReviewer, models.RoleAdmin),
					controllers.RespondInvitation)
				manuscripts.POST("/:id/review",
					middleware.RequireRole(models.RoleReviewer, models.RoleAdmin),
					controllers.SubmitReview)
				manuscripts.GET("/:id/my-review",
					middleware.RequireRole(models.RoleReviewer, models.RoleAdmin),
					controllers.GetMyReview)
			}
		}
	}
}
