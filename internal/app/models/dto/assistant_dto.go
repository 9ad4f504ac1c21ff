package dto

import (
	"time"

	"github.com/emre/uninews/internal/app/models"
)

// AskRequest represents an assistant question
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// AskResponse represents a single answered exchange
type AskResponse struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromAIMessage converts a stored exchange to an AskResponse
func FromAIMessage(msg *models.AIMessage) AskResponse {
	if msg == nil {
		return AskResponse{}
	}
	return AskResponse{
		ID:        msg.ID,
		Question:  msg.Question,
		Answer:    msg.Answer,
		CreatedAt: msg.CreatedAt,
	}
}

// HistoryResponse represents the assistant conversation history
type HistoryResponse struct {
	Messages []AskResponse `json:"messages"`
}
