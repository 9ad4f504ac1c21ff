package services

import (
	"context"
	"strings"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
	"github.com/emre/uninews/internal/pkg/logger"
	"github.com/emre/uninews/internal/pkg/validation"
)

// History shown per user. Older exchanges stay stored but are not returned.
const assistantHistoryCap = 30

// AIMessageStore is the assistant history persistence surface
type AIMessageStore interface {
	Create(ctx context.Context, msg *models.AIMessage) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.AIMessage, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

// Answerer produces an answer for a question
type Answerer interface {
	Ask(ctx context.Context, question string) (string, error)
}

// AssistantService handles the AI question box
type AssistantService struct {
	messages AIMessageStore
	answerer Answerer
}

// NewAssistantService creates a new assistant service
func NewAssistantService(messages AIMessageStore, answerer Answerer) *AssistantService {
	return &AssistantService{
		messages: messages,
		answerer: answerer,
	}
}

// Ask sends the question to the model and persists the exchange.
// Nothing is stored when the model call fails.
func (s *AssistantService) Ask(ctx context.Context, userID int64, question string) (*models.AIMessage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperrors.NewValidationError("question cannot be empty")
	}
	if len([]rune(question)) > validation.QuestionMaxLength {
		return nil, apperrors.NewValidationError("question is too long")
	}

	answer, err := s.answerer.Ask(ctx, question)
	if err != nil {
		return nil, err
	}

	msg := &models.AIMessage{
		UserID:   userID,
		Question: question,
		Answer:   answer,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", userID).Msg("Assistant exchange stored")

	return msg, nil
}

// History returns the user's latest exchanges in chronological order
func (s *AssistantService) History(ctx context.Context, userID int64) ([]models.AIMessage, error) {
	return s.messages.ListByUser(ctx, userID, assistantHistoryCap)
}

// ClearHistory deletes the user's stored exchanges
func (s *AssistantService) ClearHistory(ctx context.Context, userID int64) (int64, error) {
	return s.messages.DeleteByUser(ctx, userID)
}
