package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/uninews/internal/app/models/dto"
	"github.com/emre/uninews/internal/app/services"
	"github.com/emre/uninews/internal/middleware"
)

// UniversityController handles university and department lookups
type UniversityController struct {
	universityService *services.UniversityService
}

// NewUniversityController creates a new UniversityController
func NewUniversityController(universityService *services.UniversityService) *UniversityController {
	return &UniversityController{
		universityService: universityService,
	}
}

// ListUniversities returns all known universities
// @Summary List universities
// @Tags universities
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.UniversityResponse} "Universities retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /universities [get]
func (c *UniversityController) ListUniversities(ctx *gin.Context) {
	universities, err := c.universityService.ListUniversities(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.UniversityResponse, 0, len(universities))
	for i := range universities {
		out = append(out, dto.FromUniversity(&universities[i]))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      out,
		Timestamp: time.Now(),
	})
}

// ListDepartments returns the departments of one university
// @Summary List departments
// @Description Returns the departments of a university ordered by name. An absent or unknown university id yields an empty list.
// @Tags universities
// @Produce json
// @Param universityId query int false "University ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.DepartmentResponse} "Departments retrieved"
// @Router /departments [get]
func (c *UniversityController) ListDepartments(ctx *gin.Context) {
	universityID, _ := strconv.ParseInt(ctx.Query("universityId"), 10, 64)

	departments, err := c.universityService.ListDepartments(ctx, universityID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromDepartments(departments),
		Timestamp: time.Now(),
	})
}
