package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/uninews/internal/app/models/dto"
	"github.com/emre/uninews/internal/app/services"
	"github.com/emre/uninews/internal/middleware"
)

// EngagementController handles likes, comments and views
type EngagementController struct {
	engagementService *services.EngagementService
}

// NewEngagementController creates a new EngagementController
func NewEngagementController(engagementService *services.EngagementService) *EngagementController {
	return &EngagementController{
		engagementService: engagementService,
	}
}

// ToggleLike flips the caller's like on a post
// @Summary Toggle like
// @Description Likes the post, or removes the like if it already exists
// @Tags engagement
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.LikeResponse} "New like state"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/like [post]
func (c *EngagementController) ToggleLike(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	caps := middleware.GetCapabilities(ctx)
	liked, likeCount, err := c.engagementService.ToggleLike(ctx, caps, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.LikeResponse{
			Liked:     liked,
			LikeCount: likeCount,
		},
		Timestamp: time.Now(),
	})
}

// RecordView records that the caller opened a post
// @Summary Record a view
// @Description Records a view for the caller. Repeat views refresh the record instead of inflating the count.
// @Tags engagement
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.ViewResponse} "View recorded"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/view [post]
func (c *EngagementController) RecordView(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	caps := middleware.GetCapabilities(ctx)
	viewCount, err := c.engagementService.RecordView(ctx, caps, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.ViewResponse{ViewCount: viewCount},
		Timestamp: time.Now(),
	})
}

// AddComment adds a comment to a post
// @Summary Add a comment
// @Tags engagement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.AddCommentRequest true "Comment text"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse} "Comment added"
// @Failure 400 {object} dto.ErrorResponse "Empty or too long comment"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/comments [post]
func (c *EngagementController) AddComment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AddCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid comment data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	caps := middleware.GetCapabilities(ctx)
	comment, err := c.engagementService.AddComment(ctx, caps, id, req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromComment(comment),
		Timestamp: time.Now(),
	})
}

// ListComments returns the comments of a post
// @Summary List comments
// @Tags engagement
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CommentResponse} "Comments retrieved"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/comments [get]
func (c *EngagementController) ListComments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	caps := middleware.GetCapabilities(ctx)
	comments, err := c.engagementService.ListComments(ctx, caps, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromComments(comments),
		Timestamp: time.Now(),
	})
}
