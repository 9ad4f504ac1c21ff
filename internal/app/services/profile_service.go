package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/filestorage"
)

// Caps on the profile page lists
const (
	likedPostsCap  = 8
	recentPostsCap = 5
	myPostsCap     = 8
)

// ProfileStore is the profile persistence surface
type ProfileStore interface {
	GetOrCreateByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	SetUniversityAndDepartment(ctx context.Context, userID int64, universityID, departmentID *int64) error
	SetAvatar(ctx context.Context, userID int64, avatarURL *string) error
	SetNotifications(ctx context.Context, userID int64, enabled bool) error
}

// ProfilePostStore is the post lookup surface the profile page needs
type ProfilePostStore interface {
	List(ctx context.Context, filter models.PostFilter, offset uint64, limit int) ([]models.Post, error)
	ListLikedByUser(ctx context.Context, userID int64, limit int) ([]models.Post, error)
	ListRecentlyViewed(ctx context.Context, userID int64, category models.PostCategory, limit int) ([]models.Post, error)
}

// ProfileEngagementStore computes the profile engagement aggregates
type ProfileEngagementStore interface {
	UserStats(ctx context.Context, userID int64) (liked, comments, eventViews int64, err error)
}

// ProfileOverview is the assembled profile page payload. The Recent lists
// hold the user's most recently viewed approved posts per category.
type ProfileOverview struct {
	Profile        *models.Profile
	LikedCount     int64
	CommentCount   int64
	EventViewCount int64
	LikedPosts     []models.Post
	RecentGundem   []models.Post
	RecentEtkinlik []models.Post
	RecentDuyuru   []models.Post
	RecentKulup    []models.Post
	MyPending      []models.Post
	MyPublished    []models.Post
}

// ProfileService assembles the profile page and handles profile settings
type ProfileService struct {
	profiles    ProfileStore
	posts       ProfilePostStore
	engagement  ProfileEngagementStore
	affiliation AffiliationStore
	storage     filestorage.FileStorage
}

// NewProfileService creates a new profile service
func NewProfileService(profiles ProfileStore, posts ProfilePostStore, engagement ProfileEngagementStore, affiliation AffiliationStore, storage filestorage.FileStorage) *ProfileService {
	return &ProfileService{
		profiles:    profiles,
		posts:       posts,
		engagement:  engagement,
		affiliation: affiliation,
		storage:     storage,
	}
}

// GetOverview builds the full profile page for a user
func (s *ProfileService) GetOverview(ctx context.Context, userID int64) (*ProfileOverview, error) {
	profile, err := s.profiles.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	liked, comments, eventViews, err := s.engagement.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	likedPosts, err := s.posts.ListLikedByUser(ctx, userID, likedPostsCap)
	if err != nil {
		return nil, err
	}

	overview := &ProfileOverview{
		Profile:        profile,
		LikedCount:     liked,
		CommentCount:   comments,
		EventViewCount: eventViews,
		LikedPosts:     likedPosts,
	}

	recent := map[models.PostCategory]*[]models.Post{
		models.CategoryGundem:   &overview.RecentGundem,
		models.CategoryEtkinlik: &overview.RecentEtkinlik,
		models.CategoryDuyuru:   &overview.RecentDuyuru,
		models.CategoryKulup:    &overview.RecentKulup,
	}
	for category, dst := range recent {
		posts, err := s.posts.ListRecentlyViewed(ctx, userID, category, recentPostsCap)
		if err != nil {
			return nil, err
		}
		*dst = posts
	}

	overview.MyPending, err = s.posts.List(ctx, models.PostFilter{
		AuthorID: userID,
		Status:   models.StatusPending,
	}, 0, myPostsCap)
	if err != nil {
		return nil, err
	}

	overview.MyPublished, err = s.posts.List(ctx, models.PostFilter{
		AuthorID: userID,
		Status:   models.StatusApproved,
	}, 0, myPostsCap)
	if err != nil {
		return nil, err
	}

	return overview, nil
}

// UpdateSettings changes the user's affiliation and notification preference.
// Only the provided fields are touched.
func (s *ProfileService) UpdateSettings(ctx context.Context, userID int64, universityName, departmentName *string, notifications *bool) error {
	if _, err := s.profiles.GetOrCreateByUserID(ctx, userID); err != nil {
		return err
	}

	if universityName != nil {
		name := strings.TrimSpace(*universityName)
		if name == "" {
			if err := s.profiles.SetUniversityAndDepartment(ctx, userID, nil, nil); err != nil {
				return err
			}
		} else {
			university, err := s.affiliation.GetOrCreateUniversity(ctx, name, "")
			if err != nil {
				return err
			}

			var departmentID *int64
			if departmentName != nil {
				if depName := strings.TrimSpace(*departmentName); depName != "" {
					department, err := s.affiliation.GetOrCreateDepartment(ctx, university.ID, depName, "")
					if err != nil {
						return err
					}
					departmentID = &department.ID
				}
			}

			if err := s.profiles.SetUniversityAndDepartment(ctx, userID, &university.ID, departmentID); err != nil {
				return err
			}
		}
	}

	if notifications != nil {
		if err := s.profiles.SetNotifications(ctx, userID, *notifications); err != nil {
			return err
		}
	}

	return nil
}

// UpdateAvatar stores a new avatar image and links it to the profile,
// removing the previous one from disk.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID int64, file *multipart.FileHeader) (string, error) {
	profile, err := s.profiles.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	path, err := s.storage.SaveFileWithPath(file, filestorage.AvatarsDir)
	if err != nil {
		return "", err
	}

	if err := s.profiles.SetAvatar(ctx, userID, &path); err != nil {
		_ = s.storage.DeleteFile(path)
		return "", err
	}

	if profile.AvatarURL != nil {
		_ = s.storage.DeleteFile(*profile.AvatarURL)
	}

	return path, nil
}
