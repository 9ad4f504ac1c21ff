package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/uninews/internal/app/models"
)

type fakeProfileStore struct {
	profiles map[int64]*models.Profile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[int64]*models.Profile)}
}

// Returns a copy, like a real row scan would
func (f *fakeProfileStore) GetOrCreateByUserID(_ context.Context, userID int64) (*models.Profile, error) {
	if _, ok := f.profiles[userID]; !ok {
		f.profiles[userID] = &models.Profile{ID: userID, UserID: userID, NotificationsEnabled: true}
	}
	copied := *f.profiles[userID]
	return &copied, nil
}

func (f *fakeProfileStore) SetUniversityAndDepartment(_ context.Context, userID int64, universityID, departmentID *int64) error {
	profile := f.profiles[userID]
	profile.UniversityID = universityID
	profile.DepartmentID = departmentID
	return nil
}

func (f *fakeProfileStore) SetAvatar(_ context.Context, userID int64, avatarURL *string) error {
	f.profiles[userID].AvatarURL = avatarURL
	return nil
}

func (f *fakeProfileStore) SetNotifications(_ context.Context, userID int64, enabled bool) error {
	f.profiles[userID].NotificationsEnabled = enabled
	return nil
}

type fakeProfilePostStore struct {
	listCalls   []models.PostFilter
	recentCalls []models.PostCategory
	recent      map[models.PostCategory][]models.Post
	liked       []models.Post
}

func (f *fakeProfilePostStore) List(_ context.Context, filter models.PostFilter, _ uint64, _ int) ([]models.Post, error) {
	f.listCalls = append(f.listCalls, filter)
	return nil, nil
}

func (f *fakeProfilePostStore) ListLikedByUser(_ context.Context, _ int64, limit int) ([]models.Post, error) {
	if len(f.liked) > limit {
		return f.liked[:limit], nil
	}
	return f.liked, nil
}

func (f *fakeProfilePostStore) ListRecentlyViewed(_ context.Context, _ int64, category models.PostCategory, _ int) ([]models.Post, error) {
	f.recentCalls = append(f.recentCalls, category)
	return f.recent[category], nil
}

type fakeProfileEngagementStore struct{}

func (f *fakeProfileEngagementStore) UserStats(_ context.Context, _ int64) (int64, int64, int64, error) {
	return 4, 2, 1, nil
}

type fakeAvatarStorage struct {
	saved   []string
	deleted []string
}

func (f *fakeAvatarStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return f.SaveFileWithPath(fileHeader, "")
}

func (f *fakeAvatarStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error) {
	stored := path + "/" + fileHeader.Filename
	f.saved = append(f.saved, stored)
	return stored, nil
}

func (f *fakeAvatarStorage) DeleteFile(filePath string) error {
	f.deleted = append(f.deleted, filePath)
	return nil
}

func (f *fakeAvatarStorage) GetFullPath(fileURL string) string {
	return fileURL
}

func profileFixture() (*ProfileService, *fakeProfileStore, *fakeProfilePostStore, *fakeAvatarStorage) {
	profiles := newFakeProfileStore()
	posts := &fakeProfilePostStore{recent: make(map[models.PostCategory][]models.Post)}
	storage := &fakeAvatarStorage{}
	svc := NewProfileService(profiles, posts, &fakeProfileEngagementStore{}, &fakeAffiliationStore{}, storage)
	return svc, profiles, posts, storage
}

func TestGetOverview(t *testing.T) {
	svc, _, posts, _ := profileFixture()
	ctx := context.Background()

	posts.recent[models.CategoryGundem] = []models.Post{{ID: 1, Title: "Recently read news"}}

	overview, err := svc.GetOverview(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), overview.LikedCount)
	assert.Equal(t, int64(2), overview.CommentCount)
	assert.Equal(t, int64(1), overview.EventViewCount)

	// One recently-viewed lookup per category
	assert.Len(t, posts.recentCalls, 4)
	require.Len(t, overview.RecentGundem, 1)
	assert.Equal(t, int64(1), overview.RecentGundem[0].ID)
	assert.Empty(t, overview.RecentEtkinlik)

	// Own posts are fetched by author and status
	require.Len(t, posts.listCalls, 2)
	for _, filter := range posts.listCalls {
		assert.Equal(t, int64(7), filter.AuthorID)
	}
	assert.Equal(t, models.StatusPending, posts.listCalls[0].Status)
	assert.Equal(t, models.StatusApproved, posts.listCalls[1].Status)
}

func TestUpdateSettings(t *testing.T) {
	svc, profiles, _, _ := profileFixture()
	ctx := context.Background()

	university := "İstanbul Teknik Üniversitesi"
	department := "Bilgisayar Mühendisliği"
	require.NoError(t, svc.UpdateSettings(ctx, 7, &university, &department, nil))

	profile := profiles.profiles[7]
	require.NotNil(t, profile.UniversityID)
	require.NotNil(t, profile.DepartmentID)
	assert.True(t, profile.NotificationsEnabled)

	// Clearing the university drops both affiliations
	empty := ""
	require.NoError(t, svc.UpdateSettings(ctx, 7, &empty, nil, nil))
	assert.Nil(t, profile.UniversityID)
	assert.Nil(t, profile.DepartmentID)

	// Notification toggle alone leaves affiliation untouched
	off := false
	require.NoError(t, svc.UpdateSettings(ctx, 7, nil, nil, &off))
	assert.False(t, profile.NotificationsEnabled)
}

func TestUpdateAvatar(t *testing.T) {
	svc, profiles, _, storage := profileFixture()
	ctx := context.Background()

	old := "avatars/old.png"
	_, err := profiles.GetOrCreateByUserID(ctx, 7)
	require.NoError(t, err)
	profiles.profiles[7].AvatarURL = &old

	path, err := svc.UpdateAvatar(ctx, 7, &multipart.FileHeader{Filename: "new.png"})
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	require.NotNil(t, profiles.profiles[7].AvatarURL)
	assert.Equal(t, path, *profiles.profiles[7].AvatarURL)

	// The previous file is cleaned up
	assert.Contains(t, storage.deleted, old)
}
