package dto

import (
	"time"

	"github.com/emre/uninews/internal/app/models"
)

// CreatePostRequest represents a post submission
type CreatePostRequest struct {
	Title     string     `json:"title" form:"title" binding:"required"`
	Summary   *string    `json:"summary,omitempty" form:"summary"`
	Content   string     `json:"content" form:"content" binding:"required"`
	Category  string     `json:"category" form:"category" binding:"required"`
	EventDate *time.Time `json:"eventDate,omitempty" form:"eventDate" time_format:"2006-01-02"`
}

// UpdatePostRequest represents a post edit.
// All fields optional; only provided fields are changed.
type UpdatePostRequest struct {
	Title     *string    `json:"title,omitempty" form:"title"`
	Summary   *string    `json:"summary,omitempty" form:"summary"`
	Content   *string    `json:"content,omitempty" form:"content"`
	Category  *string    `json:"category,omitempty" form:"category"`
	EventDate *time.Time `json:"eventDate,omitempty" form:"eventDate" time_format:"2006-01-02"`
}

// BulkActionRequest represents a bulk moderation request over a set of posts
type BulkActionRequest struct {
	Action  string  `json:"action" binding:"required"`
	PostIDs []int64 `json:"postIds"`
}

// PostResponse represents a post as rendered to API clients
type PostResponse struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Summary      *string    `json:"summary,omitempty"`
	Content      string     `json:"content"`
	Category     string     `json:"category"`
	Status       string     `json:"status"`
	IsApproved   bool       `json:"isApproved"`
	AuthorID     *int64     `json:"authorId,omitempty"`
	AuthorName   string     `json:"authorName,omitempty"`
	ImageURL     *string    `json:"imageUrl,omitempty"`
	EventDate    *time.Time `json:"eventDate,omitempty"`
	LikeCount    int64      `json:"likeCount"`
	ViewCount    int64      `json:"viewCount"`
	CommentCount int64      `json:"commentCount"`
	LikedByUser  bool       `json:"likedByUser"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// FromPost converts a models.Post to a PostResponse.
// The legacy isApproved flag is derived from the status here and nowhere else.
func FromPost(post *models.Post) PostResponse {
	if post == nil {
		return PostResponse{}
	}

	resp := PostResponse{
		ID:           post.ID,
		Title:        post.Title,
		Summary:      post.Summary,
		Content:      post.Content,
		Category:     string(post.Category),
		Status:       string(post.Status),
		IsApproved:   post.Status == models.StatusApproved,
		AuthorID:     post.AuthorID,
		ImageURL:     post.ImageURL,
		EventDate:    post.EventDate,
		LikeCount:    post.LikeCount,
		ViewCount:    post.ViewCount,
		CommentCount: post.CommentCnt,
		LikedByUser:  post.LikedByUser,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	}

	if post.Author != nil {
		resp.AuthorName = post.Author.Username
	}

	return resp
}

// FromPosts converts a slice of posts
func FromPosts(posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, FromPost(&posts[i]))
	}
	return out
}

// PostListResponse represents a paginated list of posts
type PostListResponse struct {
	Posts      []PostResponse `json:"posts"`
	Pagination PaginationInfo `json:"pagination"`
}

// BulkActionResponse reports the outcome of a bulk moderation request
type BulkActionResponse struct {
	Action   string `json:"action"`
	Affected int64  `json:"affected"`
	Message  string `json:"message"`
}

// DashboardResponse carries the moderation dashboard data
type DashboardResponse struct {
	Stats          models.DashboardStats `json:"stats"`
	Posts          []PostResponse        `json:"posts"`
	Pagination     PaginationInfo        `json:"pagination"`
	LatestPending  []PostResponse        `json:"latestPending"`
	LatestRejected []PostResponse        `json:"latestRejected"`
	LatestComments []CommentResponse     `json:"latestComments"`
	LatestUsers    []UserResponse        `json:"latestUsers"`
}
