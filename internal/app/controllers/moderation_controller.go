package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/app/models/dto"
	"github.com/emre/uninews/internal/app/services"
	"github.com/emre/uninews/internal/middleware"
	"github.com/emre/uninews/internal/pkg/filestorage"
	"github.com/emre/uninews/internal/pkg/helpers"
)

// ModerationController handles the staff moderation surface
type ModerationController struct {
	postService *services.PostService
	storage     filestorage.FileStorage
}

// NewModerationController creates a new ModerationController
func NewModerationController(postService *services.PostService, storage filestorage.FileStorage) *ModerationController {
	return &ModerationController{
		postService: postService,
		storage:     storage,
	}
}

// Dashboard returns the moderation dashboard
// @Summary Moderation dashboard
// @Description Returns aggregate stats, the filtered post listing and the latest pending/rejected queues
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search in title and content"
// @Param category query string false "Filter by category" Enums(GUNDEM, ETKINLIK, DUYURU, KULUP)
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED)
// @Param sort query string false "Sort order" Enums(newest, oldest, most_liked, most_viewed, most_commented)
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Staff only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/dashboard [get]
func (c *ModerationController) Dashboard(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	filter := models.PostFilter{
		Query:    ctx.Query("q"),
		Category: models.PostCategory(ctx.Query("category")),
		Status:   models.PostStatus(ctx.Query("status")),
		Sort:     ctx.Query("sort"),
	}

	dashboard, err := c.postService.GetDashboard(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.DashboardResponse{
			Stats:          *dashboard.Stats,
			Posts:          dto.FromPosts(dashboard.Posts),
			Pagination:     helpers.NewPaginationInfo(dashboard.Total, page, size),
			LatestPending:  dto.FromPosts(dashboard.LatestPending),
			LatestRejected: dto.FromPosts(dashboard.LatestRejected),
			LatestComments: dto.FromComments(dashboard.LatestComments),
			LatestUsers:    latestUsersResponse(dashboard.LatestUsers),
		},
		Timestamp: time.Now(),
	})
}

// latestUsersResponse renders the dashboard's newest registrations
func latestUsersResponse(users []models.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, dto.UserResponse{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			IsStaff:     user.IsStaff,
			IsSuperuser: user.IsSuperuser,
			CreatedAt:   user.CreatedAt,
			LastLoginAt: user.LastLoginAt,
		})
	}
	return out
}

// ListQueue returns posts in any moderation state
// @Summary List posts for moderation
// @Description Returns posts in any state with filters, for the review queue
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search in title and content"
// @Param category query string false "Filter by category" Enums(GUNDEM, ETKINLIK, DUYURU, KULUP)
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED)
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PostListResponse} "Posts retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Staff only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/posts [get]
func (c *ModerationController) ListQueue(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	filter := models.PostFilter{
		Query:    ctx.Query("q"),
		Category: models.PostCategory(ctx.Query("category")),
		Status:   models.PostStatus(ctx.Query("status")),
		Sort:     ctx.Query("sort"),
	}

	posts, total, err := c.postService.ListModeration(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PostListResponse{
			Posts:      dto.FromPosts(posts),
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// Approve publishes a post
// @Summary Approve a post
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.SuccessResponse "Post approved"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 403 {object} dto.ErrorResponse "Staff only"
// @Router /admin/posts/{id}/approve [post]
func (c *ModerationController) Approve(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.Approve(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "post approved"})
}

// Reject marks a post as rejected
// @Summary Reject a post
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.SuccessResponse "Post rejected"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 403 {object} dto.ErrorResponse "Staff only"
// @Router /admin/posts/{id}/reject [post]
func (c *ModerationController) Reject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.Reject(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "post rejected"})
}

// Restore sends a post back to the review queue
// @Summary Restore a post to pending
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.SuccessResponse "Post restored"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 403 {object} dto.ErrorResponse "Staff only"
// @Router /admin/posts/{id}/restore [post]
func (c *ModerationController) Restore(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.Restore(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "post restored"})
}

// Delete removes a post permanently
// @Summary Delete a post
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.SuccessResponse "Post deleted"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 403 {object} dto.ErrorResponse "Staff only"
// @Router /admin/posts/{id} [delete]
func (c *ModerationController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "post deleted"})
}

// Bulk applies a moderation action to a set of posts
// @Summary Bulk approve or delete posts
// @Description Applies approve or delete to the selected posts. An empty selection is a no-op.
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkActionRequest true "Action and post ids"
// @Success 200 {object} dto.APIResponse{data=dto.BulkActionResponse} "Action applied"
// @Failure 400 {object} dto.ErrorResponse "Unknown action"
// @Failure 403 {object} dto.ErrorResponse "Staff only"
// @Router /admin/posts/bulk [post]
func (c *ModerationController) Bulk(ctx *gin.Context) {
	var req dto.BulkActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid bulk action data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	result, err := c.postService.Bulk(ctx, models.BulkAction(req.Action), req.PostIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.BulkActionResponse{
			Action:   string(result.Action),
			Affected: result.Affected,
			Message:  result.Message,
		},
		Timestamp: time.Now(),
	})
}

// Edit updates a post's content
// @Summary Edit a post
// @Description Staff edit any post; club admins edit their own club posts. The moderation status is unchanged. Accepts multipart form data with an optional replacement cover image.
// @Tags moderation
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.UpdatePostRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse} "Post updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to edit this post"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [patch]
func (c *ModerationController) Edit(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid edit data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var category *models.PostCategory
	if req.Category != nil {
		cat := models.PostCategory(*req.Category)
		category = &cat
	}

	edit := services.PostEdit{
		Title:    req.Title,
		Summary:  req.Summary,
		Content:  req.Content,
		Category: category,
	}

	if file, err := ctx.FormFile("image"); err == nil && file != nil {
		path, err := c.storage.SaveFileWithPath(file, filestorage.CoversDir)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		edit.ImageURL = &path
	}

	caps := middleware.GetCapabilities(ctx)
	post, err := c.postService.Edit(ctx, caps, id, edit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromPost(post),
		Timestamp: time.Now(),
	})
}
