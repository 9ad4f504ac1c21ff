package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/emre/uninews/internal/app/controllers"
	"github.com/emre/uninews/internal/app/models/dto"
	"github.com/emre/uninews/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	postController *controllers.PostController,
	moderationController *controllers.ModerationController,
	engagementController *controllers.EngagementController,
	roleController *controllers.RoleController,
	universityController *controllers.UniversityController,
	profileController *controllers.ProfileController,
	assistantController *controllers.AssistantController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// --- Public lookup routes ---
	v1.GET("/universities", universityController.ListUniversities)
	v1.GET("/departments", universityController.ListDepartments)

	// --- Post routes ---
	// Listing and detail are public; the detail route accepts an optional
	// token so staff can see unapproved posts and views get recorded.
	posts := v1.Group("/posts")
	{
		posts.GET("", postController.ListPosts)
		posts.GET("/:id", authMiddleware.OptionalJWTAuth(), postController.GetPost)
		posts.GET("/:id/comments", engagementController.ListComments)

		postsAuth := posts.Group("")
		postsAuth.Use(authMiddleware.JWTAuth())
		{
			postsAuth.POST("", postController.SubmitPost)
			postsAuth.PATCH("/:id", moderationController.Edit)
			postsAuth.POST("/:id/like", engagementController.ToggleLike)
			postsAuth.POST("/:id/view", engagementController.RecordView)
			postsAuth.POST("/:id/comments", engagementController.AddComment)
		}
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		profile := authenticated.Group("/profile")
		{
			profile.GET("", profileController.GetOverview)
			profile.PATCH("", profileController.UpdateSettings)
			profile.POST("/avatar", profileController.UpdateAvatar)
		}

		assistant := authenticated.Group("/assistant")
		{
			assistant.POST("/ask", assistantController.Ask)
			assistant.GET("/history", assistantController.History)
			assistant.DELETE("/history", assistantController.ClearHistory)
		}
	}

	// --- Staff routes ---
	admin := v1.Group("/admin")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.StaffRequired())
	{
		admin.GET("/dashboard", moderationController.Dashboard)

		adminPosts := admin.Group("/posts")
		{
			adminPosts.GET("", moderationController.ListQueue)
			adminPosts.POST("/bulk", moderationController.Bulk)
			adminPosts.POST("/:id/approve", moderationController.Approve)
			adminPosts.POST("/:id/reject", moderationController.Reject)
			adminPosts.POST("/:id/restore", moderationController.Restore)
			adminPosts.DELETE("/:id", moderationController.Delete)
		}

		adminUsers := admin.Group("/users")
		{
			adminUsers.GET("", roleController.ListUsers)
			adminUsers.PUT("/:id/roles", roleController.SetRoles)
			adminUsers.POST("/:id/role", roleController.AssignRole)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
