package dto

import (
	"time"

	"github.com/emre/uninews/internal/app/models"
)

// AddCommentRequest represents a comment submission
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommentResponse represents a comment as rendered to API clients
type CommentResponse struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"postId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromComment converts a models.PostComment to a CommentResponse
func FromComment(comment *models.PostComment) CommentResponse {
	if comment == nil {
		return CommentResponse{}
	}

	resp := CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author != nil {
		resp.AuthorName = comment.Author.Username
	}
	return resp
}

// FromComments converts a slice of comments
func FromComments(comments []models.PostComment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, FromComment(&comments[i]))
	}
	return out
}

// LikeResponse reports the state after a like toggle
type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

// ViewResponse reports the view count after recording a view
type ViewResponse struct {
	ViewCount int64 `json:"viewCount"`
}
