package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`                                                  // Unique identifier for the user
	Username    string     `json:"username" db:"username" example:"ayse42"`                                 // Login name, unique
	Email       string     `json:"email" db:"email" example:"ayse@uni.edu.tr"`                              // User's email address, unique
	Password    string     `json:"-" db:"password"`                                                         // User's hashed password (excluded from JSON)
	IsStaff     bool       `json:"isStaff" db:"is_staff" example:"false"`                                   // Whether the user is staff (moderator)
	IsSuperuser bool       `json:"isSuperuser" db:"is_superuser" example:"false"`                           // Whether the user is a superadmin
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`                                  // Whether the user account is active
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`                // Timestamp when the user was created
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at" example:"2024-04-20T18:00:00Z"` // Timestamp of the last login (nullable)
}

// Capabilities is the live capability set of a caller: the staff/superuser flags
// plus managed-group memberships. It is resolved from the store at call time and
// never cached inside a token.
type Capabilities struct {
	UserID      int64
	IsStaff     bool
	IsSuperuser bool
	Roles       map[string]bool
}

// HasRole reports whether the capability set includes the named group.
func (c Capabilities) HasRole(name string) bool {
	return c.Roles[name]
}

// Group defines an authorization group based on the 'groups' table
type Group struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Profile defines per-user profile data based on the 'profiles' table
type Profile struct {
	ID                   int64       `json:"id" db:"id"`
	UserID               int64       `json:"userId" db:"user_id"`
	UniversityID         *int64      `json:"universityId,omitempty" db:"university_id"`
	DepartmentID         *int64      `json:"departmentId,omitempty" db:"department_id"`
	AvatarURL            *string     `json:"avatarUrl,omitempty" db:"avatar_url"`
	NotificationsEnabled bool        `json:"notificationsEnabled" db:"notifications_enabled"`
	CreatedAt            time.Time   `json:"createdAt" db:"created_at"`
	University           *University `json:"university,omitempty"` // Relation, no db tag
	Department           *Department `json:"department,omitempty"` // Relation, no db tag
}

// UserWithStats carries a user row annotated with engagement aggregates for the
// admin role listing.
type UserWithStats struct {
	User
	PostCount             int64 `json:"postCount" db:"post_count"`
	TotalLikesReceived    int64 `json:"totalLikesReceived" db:"total_likes_received"`
	TotalCommentsReceived int64 `json:"totalCommentsReceived" db:"total_comments_received"`
	TotalViewsReceived    int64 `json:"totalViewsReceived" db:"total_views_received"`
	Roles                 []string
}
