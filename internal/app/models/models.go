package models

// PostCategory defines the content category of a post
type PostCategory string

const (
	CategoryGundem   PostCategory = "GUNDEM"   // Campus news
	CategoryEtkinlik PostCategory = "ETKINLIK" // Events
	CategoryDuyuru   PostCategory = "DUYURU"   // Announcements
	CategoryKulup    PostCategory = "KULUP"    // Clubs & societies
)

// ValidCategory reports whether the given value is a known post category.
func ValidCategory(c PostCategory) bool {
	switch c {
	case CategoryGundem, CategoryEtkinlik, CategoryDuyuru, CategoryKulup:
		return true
	}
	return false
}

// PostStatus defines the moderation state of a post
type PostStatus string

const (
	StatusPending  PostStatus = "PENDING"
	StatusApproved PostStatus = "APPROVED"
	StatusRejected PostStatus = "REJECTED"
)

// ValidStatus reports whether the given value is a known post status.
func ValidStatus(s PostStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Managed role group names. The role service controls exactly these two groups;
// staff and superuser flags live on the user row itself.
const (
	RoleApprovedPublisher = "approved_publisher"
	RoleClubAdmin         = "club_admin"
)

// ManagedRoles lists the group names the role service is allowed to touch.
var ManagedRoles = []string{RoleApprovedPublisher, RoleClubAdmin}

// ManagedRole reports whether name is one of the managed role groups.
func ManagedRole(name string) bool {
	for _, r := range ManagedRoles {
		if r == name {
			return true
		}
	}
	return false
}

// BulkAction names an admin bulk operation over a set of posts
type BulkAction string

const (
	BulkApprove BulkAction = "approve"
	BulkDelete  BulkAction = "delete"
)
