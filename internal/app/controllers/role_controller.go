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
	"github.com/emre/uninews/internal/pkg/helpers"
)

// RoleController handles the admin role management surface
type RoleController struct {
	roleService *services.RoleService
}

// NewRoleController creates a new RoleController
func NewRoleController(roleService *services.RoleService) *RoleController {
	return &RoleController{
		roleService: roleService,
	}
}

func userRolesResponse(u *models.UserWithStats) dto.UserRolesResponse {
	roles := make([]string, 0, len(u.Roles))
	roleSet := make(map[string]bool, len(u.Roles))
	for _, name := range u.Roles {
		if models.ManagedRole(name) {
			roles = append(roles, name)
		}
		roleSet[name] = true
	}

	label := appauth.RoleLabel(models.Capabilities{
		UserID:      u.ID,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		Roles:       roleSet,
	})

	return dto.UserRolesResponse{
		ID:                    u.ID,
		Username:              u.Username,
		Email:                 u.Email,
		RoleLabel:             label,
		Roles:                 roles,
		IsStaff:               u.IsStaff,
		IsSuperuser:           u.IsSuperuser,
		PostCount:             u.PostCount,
		TotalLikesReceived:    u.TotalLikesReceived,
		TotalCommentsReceived: u.TotalCommentsReceived,
		TotalViewsReceived:    u.TotalViewsReceived,
	}
}

// ListUsers returns users with stats and roles
// @Summary List users with roles
// @Description Returns users annotated with engagement stats, managed roles and the derived role label
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by username or email"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.UserRolesListResponse} "Users retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Staff only"
// @Router /admin/users [get]
func (c *RoleController) ListUsers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	users, total, err := c.roleService.ListUsers(ctx, ctx.Query("q"), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.UserRolesResponse, 0, len(users))
	for i := range users {
		items = append(items, userRolesResponse(&users[i]))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.UserRolesListResponse{
			Users:      items,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// SetRoles replaces a user's managed roles
// @Summary Replace managed roles
// @Description Replaces the user's managed roles with exactly the given set. Unknown role names are rejected.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateRolesRequest true "Role set"
// @Success 200 {object} dto.SuccessResponse "Roles replaced"
// @Failure 400 {object} dto.ErrorResponse "Unknown role name"
// @Failure 403 {object} dto.ErrorResponse "Staff only"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id}/roles [put]
func (c *RoleController) SetRoles(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRolesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid roles data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.roleService.SetRoles(ctx, id, req.Roles); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "roles updated"})
}

// AssignRole gives a user a single managed role
// @Summary Assign a single role
// @Description Gives the user one managed role, clearing the others. An empty role clears all managed roles.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.AssignRoleRequest true "Role"
// @Success 200 {object} dto.SuccessResponse "Role assigned"
// @Failure 400 {object} dto.ErrorResponse "Unknown role name"
// @Failure 403 {object} dto.ErrorResponse "Staff only"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id}/role [post]
func (c *RoleController) AssignRole(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid role data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.roleService.AssignRole(ctx, id, req.Role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "role assigned"})
}
