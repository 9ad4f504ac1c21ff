package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/app/models/dto"
	"github.com/emre/uninews/internal/app/services"
	"github.com/emre/uninews/internal/middleware"
	"github.com/emre/uninews/internal/pkg/filestorage"
	"github.com/emre/uninews/internal/pkg/helpers"
)

// PostController handles public post operations
type PostController struct {
	postService *services.PostService
	storage     filestorage.FileStorage
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, storage filestorage.FileStorage) *PostController {
	return &PostController{
		postService: postService,
		storage:     storage,
	}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid id").
			WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// ListPosts returns approved posts
// @Summary List published posts
// @Description Returns approved posts with optional text, category and sort filters
// @Tags posts
// @Produce json
// @Param q query string false "Search in title and content"
// @Param category query string false "Filter by category" Enums(GUNDEM, ETKINLIK, DUYURU, KULUP)
// @Param sort query string false "Sort order" Enums(newest, oldest, most_liked, most_viewed, most_commented)
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PostListResponse} "Posts retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts [get]
func (c *PostController) ListPosts(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	filter := models.PostFilter{
		Query:    ctx.Query("q"),
		Category: models.PostCategory(ctx.Query("category")),
		Sort:     ctx.Query("sort"),
	}

	posts, total, err := c.postService.ListPublic(ctx, filter, page, size)
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

// GetPost returns a single post
// @Summary Get post detail
// @Description Returns a post with engagement counts, recording a view for signed-in readers. Unapproved posts are only visible to staff.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse} "Post retrieved"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id} [get]
func (c *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	caps := middleware.GetCapabilities(ctx)
	post, err := c.postService.GetDetail(ctx, caps, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromPost(post),
		Timestamp: time.Now(),
	})
}

// SubmitPost handles post submission
// @Summary Submit a post
// @Description Submits a post for publication. The initial status depends on the caller's live roles; most submissions enter the review queue. Accepts multipart form data with an optional cover image.
// @Tags posts
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param content formData string true "Body text"
// @Param category formData string true "Category" Enums(GUNDEM, ETKINLIK, DUYURU, KULUP)
// @Param eventDate formData string false "Event date for ETKINLIK posts (YYYY-MM-DD)"
// @Param image formData file false "Cover image"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse} "Post submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Category not allowed for caller"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts [post]
func (c *PostController) SubmitPost(ctx *gin.Context) {
	var req dto.CreatePostRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid post data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	post := &models.Post{
		Title:     req.Title,
		Summary:   req.Summary,
		Content:   req.Content,
		Category:  models.PostCategory(req.Category),
		EventDate: req.EventDate,
	}

	if file, err := ctx.FormFile("image"); err == nil && file != nil {
		path, err := c.storage.SaveFileWithPath(file, filestorage.CoversDir)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		post.ImageURL = &path
	}

	caps := middleware.GetCapabilities(ctx)
	if err := c.postService.Submit(ctx, caps, post); err != nil {
		if post.ImageURL != nil {
			_ = c.storage.DeleteFile(*post.ImageURL)
		}
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromPost(post),
		Timestamp: time.Now(),
	})
}
