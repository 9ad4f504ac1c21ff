package dto

// UpdateRolesRequest represents a full replacement of a user's managed roles
type UpdateRolesRequest struct {
	Roles []string `json:"roles"`
}

// AssignRoleRequest represents a single-role assignment.
// An empty role clears all managed roles.
type AssignRoleRequest struct {
	Role string `json:"role"`
}

// UserRolesResponse represents a user row in the admin role listing
type UserRolesResponse struct {
	ID                    int64    `json:"id"`
	Username              string   `json:"username"`
	Email                 string   `json:"email"`
	RoleLabel             string   `json:"roleLabel"`
	Roles                 []string `json:"roles"`
	IsStaff               bool     `json:"isStaff"`
	IsSuperuser           bool     `json:"isSuperuser"`
	PostCount             int64    `json:"postCount"`
	TotalLikesReceived    int64    `json:"totalLikesReceived"`
	TotalCommentsReceived int64    `json:"totalCommentsReceived"`
	TotalViewsReceived    int64    `json:"totalViewsReceived"`
}

// UserRolesListResponse represents the paginated admin role listing
type UserRolesListResponse struct {
	Users      []UserRolesResponse `json:"users"`
	Pagination PaginationInfo      `json:"pagination"`
}
