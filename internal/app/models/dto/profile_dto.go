package dto

// ProfileStats aggregates a user's engagement footprint
type ProfileStats struct {
	LikedCount     int64 `json:"likedCount"`
	CommentCount   int64 `json:"commentCount"`
	EventViewCount int64 `json:"eventViewCount"`
}

// UpdateProfileRequest represents profile settings changes
type UpdateProfileRequest struct {
	UniversityName       *string `json:"universityName,omitempty"`
	DepartmentName       *string `json:"departmentName,omitempty"`
	NotificationsEnabled *bool   `json:"notificationsEnabled,omitempty"`
}

// ProfileOverviewResponse carries the full profile page payload
type ProfileOverviewResponse struct {
	User           UserResponse   `json:"user"`
	UniversityName string         `json:"universityName,omitempty"`
	DepartmentName string         `json:"departmentName,omitempty"`
	AvatarURL      *string        `json:"avatarUrl,omitempty"`
	Stats          ProfileStats   `json:"stats"`
	LikedPosts     []PostResponse `json:"likedPosts"`
	RecentGundem   []PostResponse `json:"recentGundem"`
	RecentEtkinlik []PostResponse `json:"recentEtkinlik"`
	RecentDuyuru   []PostResponse `json:"recentDuyuru"`
	RecentKulup    []PostResponse `json:"recentKulup"`
	MyPending      []PostResponse `json:"myPending"`
	MyPublished    []PostResponse `json:"myPublished"`
}
