package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/uninews/internal/app/models/dto"
	"github.com/emre/uninews/internal/app/services"
	"github.com/emre/uninews/internal/middleware"
)

// AssistantController handles the AI question box
type AssistantController struct {
	assistantService *services.AssistantService
}

// NewAssistantController creates a new AssistantController
func NewAssistantController(assistantService *services.AssistantService) *AssistantController {
	return &AssistantController{
		assistantService: assistantService,
	}
}

// Ask answers a question and stores the exchange
// @Summary Ask the assistant
// @Description Sends the question to the language model and stores the answered exchange in the caller's history
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AskRequest true "Question"
// @Success 200 {object} dto.APIResponse{data=dto.AskResponse} "Question answered"
// @Failure 400 {object} dto.ErrorResponse "Empty or too long question"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 502 {object} dto.ErrorResponse "Model unavailable"
// @Router /assistant/ask [post]
func (c *AssistantController) Ask(ctx *gin.Context) {
	var req dto.AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid question data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	caps := middleware.GetCapabilities(ctx)
	msg, err := c.assistantService.Ask(ctx, caps.UserID, req.Question)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromAIMessage(msg),
		Timestamp: time.Now(),
	})
}

// History returns the caller's latest exchanges
// @Summary Assistant history
// @Description Returns the caller's latest exchanges in chronological order
// @Tags assistant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.HistoryResponse} "History retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /assistant/history [get]
func (c *AssistantController) History(ctx *gin.Context) {
	caps := middleware.GetCapabilities(ctx)

	messages, err := c.assistantService.History(ctx, caps.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.AskResponse, 0, len(messages))
	for i := range messages {
		out = append(out, dto.FromAIMessage(&messages[i]))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.HistoryResponse{Messages: out},
		Timestamp: time.Now(),
	})
}

// ClearHistory deletes the caller's stored exchanges
// @Summary Clear assistant history
// @Tags assistant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse "History cleared"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /assistant/history [delete]
func (c *AssistantController) ClearHistory(ctx *gin.Context) {
	caps := middleware.GetCapabilities(ctx)

	if _, err := c.assistantService.ClearHistory(ctx, caps.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "history cleared"})
}
