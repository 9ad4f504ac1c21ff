package models

import (
	"time"
)

// PostLike defines a like based on the 'post_likes' table.
// One row per (post, user), enforced by a unique constraint.
type PostLike struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"postId" db:"post_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// PostComment defines a comment based on the 'post_comments' table
type PostComment struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"postId" db:"post_id"`
	UserID    *int64    `json:"userId,omitempty" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Author    *User     `json:"author,omitempty"` // Relation, no db tag
}

// PostView defines a view record based on the 'post_views' table.
// One row per (post, user); repeat visits bump viewed_at in place.
type PostView struct {
	ID       int64     `json:"id" db:"id"`
	PostID   int64     `json:"postId" db:"post_id"`
	UserID   int64     `json:"userId" db:"user_id"`
	ViewedAt time.Time `json:"viewedAt" db:"viewed_at"`
}

// AIMessage defines a stored assistant exchange based on the 'ai_messages' table
type AIMessage struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Question  string    `json:"question" db:"question"`
	Answer    string    `json:"answer" db:"answer"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
