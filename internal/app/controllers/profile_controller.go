package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appauth "github.com/emre/uninews/internal/app/auth"
	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/app/models/dto"
	"github.com/emre/uninews/internal/app/services"
	"github.com/emre/uninews/internal/middleware"
)

// ProfileController handles the profile page and settings
type ProfileController struct {
	profileService *services.ProfileService
	authService    *services.AuthService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService *services.ProfileService, authService *services.AuthService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		authService:    authService,
	}
}

func profileUserResponse(user *models.User, caps models.Capabilities) dto.UserResponse {
	roles := make([]string, 0, len(caps.Roles))
	for _, name := range models.ManagedRoles {
		if caps.Roles[name] {
			roles = append(roles, name)
		}
	}

	return dto.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		Roles:       roles,
		RoleLabel:   appauth.RoleLabel(caps),
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}

// GetOverview returns the caller's profile page
// @Summary Profile overview
// @Description Returns the caller's account, affiliation, engagement stats, liked posts, recent posts per category and own submissions
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileOverviewResponse} "Profile retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profile [get]
func (c *ProfileController) GetOverview(ctx *gin.Context) {
	caps := middleware.GetCapabilities(ctx)

	user, err := c.authService.GetUser(ctx, caps.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	overview, err := c.profileService.GetOverview(ctx, caps.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ProfileOverviewResponse{
		User:      profileUserResponse(user, caps),
		AvatarURL: overview.Profile.AvatarURL,
		Stats: dto.ProfileStats{
			LikedCount:     overview.LikedCount,
			CommentCount:   overview.CommentCount,
			EventViewCount: overview.EventViewCount,
		},
		LikedPosts:     dto.FromPosts(overview.LikedPosts),
		RecentGundem:   dto.FromPosts(overview.RecentGundem),
		RecentEtkinlik: dto.FromPosts(overview.RecentEtkinlik),
		RecentDuyuru:   dto.FromPosts(overview.RecentDuyuru),
		RecentKulup:    dto.FromPosts(overview.RecentKulup),
		MyPending:      dto.FromPosts(overview.MyPending),
		MyPublished:    dto.FromPosts(overview.MyPublished),
	}
	if overview.Profile.University != nil {
		resp.UniversityName = overview.Profile.University.Name
	}
	if overview.Profile.Department != nil {
		resp.DepartmentName = overview.Profile.Department.Name
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// UpdateSettings changes the caller's affiliation and preferences
// @Summary Update profile settings
// @Description Updates the provided fields only. An empty university name clears the affiliation.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Changed fields"
// @Success 200 {object} dto.SuccessResponse "Settings updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /profile [patch]
func (c *ProfileController) UpdateSettings(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid profile data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	caps := middleware.GetCapabilities(ctx)
	if err := c.profileService.UpdateSettings(ctx, caps.UserID, req.UniversityName, req.DepartmentName, req.NotificationsEnabled); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "profile updated"})
}

// UpdateAvatar replaces the caller's avatar image
// @Summary Upload avatar
// @Tags profile
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} dto.APIResponse{data=map[string]string} "Avatar updated"
// @Failure 400 {object} dto.ErrorResponse "Missing file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /profile/avatar [post]
func (c *ProfileController) UpdateAvatar(ctx *gin.Context) {
	file, err := ctx.FormFile("avatar")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Avatar file is required").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	caps := middleware.GetCapabilities(ctx)
	path, err := c.profileService.UpdateAvatar(ctx, caps.UserID, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      map[string]string{"avatarUrl": path},
		Timestamp: time.Now(),
	})
}
