package models

import (
	"time"
)

// Post defines the post model based on the 'posts' table
type Post struct {
	ID          int64        `json:"id" db:"id" example:"1"`                                   // Unique identifier for the post
	Title       string       `json:"title" db:"title" example:"Bahar şenliği başlıyor"`        // Post title
	Summary     *string      `json:"summary,omitempty" db:"summary"`                           // Optional short description
	Content     string       `json:"content" db:"content"`                                     // Post body text
	Category    PostCategory `json:"category" db:"category" example:"GUNDEM"`                  // Content category
	Status      PostStatus   `json:"status" db:"status" example:"APPROVED"`                    // Moderation state
	AuthorID    *int64       `json:"authorId,omitempty" db:"author_id"`                        // Submitting user (nullable, kept on user delete)
	ImageURL    *string      `json:"imageUrl,omitempty" db:"image_url"`                        // Optional cover image path
	EventDate   *time.Time   `json:"eventDate,omitempty" db:"event_date"`                      // Scheduled date for ETKINLIK posts
	CreatedAt   time.Time    `json:"createdAt" db:"created_at" example:"2024-04-01T10:00:00Z"` // Timestamp when the post was submitted
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at" example:"2024-04-01T10:00:00Z"` // Timestamp of the last edit
	Author      *User        `json:"author,omitempty"`                                         // Relation, no db tag
	LikeCount   int64        `json:"likeCount" db:"like_count"`
	ViewCount   int64        `json:"viewCount" db:"view_count"`
	CommentCnt  int64        `json:"commentCount" db:"comment_count"`
	LikedByUser bool         `json:"likedByUser"`
}

// PostFilter collects the optional filters of the dashboard and public listings.
type PostFilter struct {
	Query    string
	Category PostCategory
	Status   PostStatus
	AuthorID int64
	Sort     string
}

// DashboardStats aggregates per-status and per-category counts for the
// moderation dashboard header.
type DashboardStats struct {
	Total          int64 `json:"total"`
	Pending        int64 `json:"pending"`
	Approved       int64 `json:"approved"`
	Rejected       int64 `json:"rejected"`
	GundemCount    int64 `json:"gundemCount"`
	EtkinlikCount  int64 `json:"etkinlikCount"`
	DuyuruCount    int64 `json:"duyuruCount"`
	KulupCount     int64 `json:"kulupCount"`
	TotalLikes     int64 `json:"totalLikes"`
	TotalViews     int64 `json:"totalViews"`
	TotalComments  int64 `json:"totalComments"`
	UserCount      int64 `json:"userCount"`
	CommentedPosts int64 `json:"commentedPosts"`
}
