package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
)

type fakePostStore struct {
	nextID int64
	posts  map[int64]*models.Post
	views  map[[2]int64]bool
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{
		nextID: 1,
		posts:  make(map[int64]*models.Post),
		views:  make(map[[2]int64]bool),
	}
}

func (f *fakePostStore) Create(_ context.Context, post *models.Post) error {
	post.ID = f.nextID
	f.nextID++
	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakePostStore) GetByID(_ context.Context, id, _ int64) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	copied := *post
	return &copied, nil
}

func (f *fakePostStore) Update(_ context.Context, post *models.Post) error {
	if _, ok := f.posts[post.ID]; !ok {
		return apperrors.ErrPostNotFound
	}
	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakePostStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.posts[id]; !ok {
		return apperrors.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostStore) UpdateStatus(_ context.Context, id int64, status models.PostStatus) error {
	post, ok := f.posts[id]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	post.Status = status
	return nil
}

func (f *fakePostStore) BulkUpdateStatus(_ context.Context, ids []int64, status models.PostStatus) (int64, error) {
	var affected int64
	for _, id := range ids {
		if post, ok := f.posts[id]; ok {
			post.Status = status
			affected++
		}
	}
	return affected, nil
}

func (f *fakePostStore) BulkDelete(_ context.Context, ids []int64) (int64, error) {
	var affected int64
	for _, id := range ids {
		if _, ok := f.posts[id]; ok {
			delete(f.posts, id)
			affected++
		}
	}
	return affected, nil
}

func (f *fakePostStore) List(_ context.Context, filter models.PostFilter, offset uint64, limit int) ([]models.Post, error) {
	var out []models.Post
	for _, post := range f.posts {
		if filter.Status != "" && post.Status != filter.Status {
			continue
		}
		if filter.Category != "" && post.Category != filter.Category {
			continue
		}
		if filter.AuthorID != 0 && (post.AuthorID == nil || *post.AuthorID != filter.AuthorID) {
			continue
		}
		out = append(out, *post)
	}
	if offset >= uint64(len(out)) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePostStore) Count(ctx context.Context, filter models.PostFilter) (int64, error) {
	posts, err := f.List(ctx, filter, 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(posts)), nil
}

func (f *fakePostStore) Stats(_ context.Context) (*models.DashboardStats, error) {
	return &models.DashboardStats{Total: int64(len(f.posts))}, nil
}

func (f *fakePostStore) ListLatestComments(_ context.Context, _ int) ([]models.PostComment, error) {
	return nil, nil
}

func (f *fakePostStore) ListLatestUsers(_ context.Context, _ int) ([]models.User, error) {
	return nil, nil
}

func (f *fakePostStore) UpsertView(_ context.Context, postID, userID int64) error {
	f.views[[2]int64{postID, userID}] = true
	return nil
}

func staffCaps(id int64) models.Capabilities {
	return models.Capabilities{UserID: id, IsStaff: true}
}

func roleCaps(id int64, roles ...string) models.Capabilities {
	set := make(map[string]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return models.Capabilities{UserID: id, Roles: set}
}

func TestSubmitInitialStatus(t *testing.T) {
	tests := []struct {
		name     string
		caps     models.Capabilities
		category models.PostCategory
		want     models.PostStatus
	}{
		{"regular user waits for review", roleCaps(1), models.CategoryGundem, models.StatusPending},
		{"staff publishes immediately", staffCaps(2), models.CategoryDuyuru, models.StatusApproved},
		{"superuser publishes immediately", models.Capabilities{UserID: 3, IsSuperuser: true}, models.CategoryGundem, models.StatusApproved},
		{"approved publisher publishes immediately", roleCaps(4, models.RoleApprovedPublisher), models.CategoryEtkinlik, models.StatusApproved},
		{"club admin publishes club posts", roleCaps(5, models.RoleClubAdmin), models.CategoryKulup, models.StatusApproved},
		{"club admin waits for review elsewhere", roleCaps(6, models.RoleClubAdmin), models.CategoryGundem, models.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakePostStore()
			svc := NewPostService(store, store)

			post := &models.Post{
				Title:    "A perfectly fine title",
				Content:  "Some content",
				Category: tt.category,
			}
			require.NoError(t, svc.Submit(context.Background(), tt.caps, post))

			assert.Equal(t, tt.want, post.Status)
			require.NotNil(t, post.AuthorID)
			assert.Equal(t, tt.caps.UserID, *post.AuthorID)
		})
	}
}

func TestSubmitValidation(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(store, store)
	caps := roleCaps(1)

	tests := []struct {
		name string
		post models.Post
		want error
	}{
		{"short title", models.Post{Title: "abc", Content: "content", Category: models.CategoryGundem}, apperrors.ErrValidationFailed},
		{"empty content", models.Post{Title: "A valid title", Content: "   ", Category: models.CategoryGundem}, apperrors.ErrValidationFailed},
		{"unknown category", models.Post{Title: "A valid title", Content: "content", Category: "SPAM"}, apperrors.ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := tt.post
			err := svc.Submit(context.Background(), caps, &post)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSubmitSummaryNormalization(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(store, store)
	ctx := context.Background()
	caps := roleCaps(1)

	summary := "  Kısa açıklama  "
	post := &models.Post{Title: "A valid title", Summary: &summary, Content: "content", Category: models.CategoryGundem}
	require.NoError(t, svc.Submit(ctx, caps, post))
	require.NotNil(t, post.Summary)
	assert.Equal(t, "Kısa açıklama", *post.Summary)

	// Blank summary is stored as absent
	blank := "   "
	post = &models.Post{Title: "A valid title", Summary: &blank, Content: "content", Category: models.CategoryGundem}
	require.NoError(t, svc.Submit(ctx, caps, post))
	assert.Nil(t, post.Summary)

	long := strings.Repeat("s", 301)
	post = &models.Post{Title: "A valid title", Summary: &long, Content: "content", Category: models.CategoryGundem}
	assert.ErrorIs(t, svc.Submit(ctx, caps, post), apperrors.ErrValidationFailed)
}

func TestSubmitClubCategoryReserved(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(store, store)

	post := &models.Post{Title: "A club announcement", Content: "content", Category: models.CategoryKulup}
	err := svc.Submit(context.Background(), roleCaps(1), post)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	post = &models.Post{Title: "A club announcement", Content: "content", Category: models.CategoryKulup}
	require.NoError(t, svc.Submit(context.Background(), roleCaps(2, models.RoleClubAdmin), post))

	post = &models.Post{Title: "A club announcement", Content: "content", Category: models.CategoryKulup}
	require.NoError(t, svc.Submit(context.Background(), staffCaps(3), post))
}

func TestGetDetailVisibility(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(store, store)

	authorID := int64(9)
	pending := &models.Post{Title: "Pending post title", Content: "x", Category: models.CategoryGundem, Status: models.StatusPending, AuthorID: &authorID}
	require.NoError(t, store.Create(context.Background(), pending))

	_, err := svc.GetDetail(context.Background(), roleCaps(1), pending.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

	got, err := svc.GetDetail(context.Background(), staffCaps(2), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)
}

func TestGetDetailRecordsView(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(store, store)

	approved := &models.Post{Title: "Approved post title", Content: "x", Category: models.CategoryGundem, Status: models.StatusApproved}
	require.NoError(t, store.Create(context.Background(), approved))

	// Anonymous read leaves no view behind
	_, err := svc.GetDetail(context.Background(), models.Capabilities{}, approved.ID)
	require.NoError(t, err)
	assert.Empty(t, store.views)

	// Signed-in read records one
	got, err := svc.GetDetail(context.Background(), roleCaps(7), approved.ID)
	require.NoError(t, err)
	assert.True(t, store.views[[2]int64{approved.ID, 7}])
	assert.Equal(t, int64(1), got.ViewCount)
}

func TestStatusTransitions(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(store, store)
	ctx := context.Background()

	post := &models.Post{Title: "Some post title", Content: "x", Category: models.CategoryGundem, Status: models.StatusPending}
	require.NoError(t, store.Create(ctx, post))

	require.NoError(t, svc.Approve(ctx, post.ID))
	assert.Equal(t, models.StatusApproved, store.posts[post.ID].Status)

	require.NoError(t, svc.Reject(ctx, post.ID))
	assert.Equal(t, models.StatusRejected, store.posts[post.ID].Status)

	// Restore is unconditional and always lands in the review queue
	require.NoError(t, svc.Restore(ctx, post.ID))
	assert.Equal(t, models.StatusPending, store.posts[post.ID].Status)

	require.NoError(t, svc.Delete(ctx, post.ID))
	assert.ErrorIs(t, svc.Approve(ctx, post.ID), apperrors.ErrPostNotFound)
}

func TestBulk(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(store, store)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		post := &models.Post{Title: "Bulk target title", Content: "x", Category: models.CategoryGundem, Status: models.StatusPending}
		require.NoError(t, store.Create(ctx, post))
		ids = append(ids, post.ID)
	}

	t.Run("unknown action", func(t *testing.T) {
		_, err := svc.Bulk(ctx, "publish", ids)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAction)
	})

	t.Run("empty selection is a no-op success", func(t *testing.T) {
		result, err := svc.Bulk(ctx, models.BulkApprove, nil)
		require.NoError(t, err)
		assert.Zero(t, result.Affected)
		assert.Equal(t, "no posts selected", result.Message)
	})

	t.Run("approve counts only existing posts", func(t *testing.T) {
		result, err := svc.Bulk(ctx, models.BulkApprove, append(ids, 999))
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Affected)
		for _, id := range ids {
			assert.Equal(t, models.StatusApproved, store.posts[id].Status)
		}
	})

	t.Run("delete", func(t *testing.T) {
		result, err := svc.Bulk(ctx, models.BulkDelete, ids)
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Affected)
		assert.Empty(t, store.posts)
	})
}

func TestEditAuthorization(t *testing.T) {
	ctx := context.Background()
	ownerID := int64(10)

	makePost := func(store *fakePostStore, category models.PostCategory) *models.Post {
		post := &models.Post{Title: "Editable post title", Content: "x", Category: category, Status: models.StatusApproved, AuthorID: &ownerID}
		require.NoError(t, store.Create(ctx, post))
		return post
	}

	newTitle := "A brand new title"

	t.Run("staff edits anything", func(t *testing.T) {
		store := newFakePostStore()
		svc := NewPostService(store, store)
		post := makePost(store, models.CategoryGundem)

		got, err := svc.Edit(ctx, staffCaps(1), post.ID, PostEdit{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, newTitle, got.Title)
	})

	t.Run("club admin edits own club post", func(t *testing.T) {
		store := newFakePostStore()
		svc := NewPostService(store, store)
		post := makePost(store, models.CategoryKulup)

		_, err := svc.Edit(ctx, roleCaps(ownerID, models.RoleClubAdmin), post.ID, PostEdit{Title: &newTitle})
		require.NoError(t, err)
	})

	t.Run("club admin cannot edit others' club posts", func(t *testing.T) {
		store := newFakePostStore()
		svc := NewPostService(store, store)
		post := makePost(store, models.CategoryKulup)

		_, err := svc.Edit(ctx, roleCaps(99, models.RoleClubAdmin), post.ID, PostEdit{Title: &newTitle})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("regular author cannot edit", func(t *testing.T) {
		store := newFakePostStore()
		svc := NewPostService(store, store)
		post := makePost(store, models.CategoryGundem)

		_, err := svc.Edit(ctx, roleCaps(ownerID), post.ID, PostEdit{Title: &newTitle})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("edit keeps moderation status", func(t *testing.T) {
		store := newFakePostStore()
		svc := NewPostService(store, store)
		post := makePost(store, models.CategoryGundem)
		store.posts[post.ID].Status = models.StatusRejected

		got, err := svc.Edit(ctx, staffCaps(1), post.ID, PostEdit{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, got.Status)
	})
}

func TestListPublicForcesApproved(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(store, store)
	ctx := context.Background()

	approved := &models.Post{Title: "Visible post title", Content: "x", Category: models.CategoryGundem, Status: models.StatusApproved}
	pending := &models.Post{Title: "Hidden post title", Content: "x", Category: models.CategoryGundem, Status: models.StatusPending}
	require.NoError(t, store.Create(ctx, approved))
	require.NoError(t, store.Create(ctx, pending))

	// Even an explicit pending filter must not leak unapproved posts
	posts, total, err := svc.ListPublic(ctx, models.PostFilter{Status: models.StatusPending}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, approved.ID, posts[0].ID)
}

func TestListModerationRejectsUnknownStatus(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(store, store)

	_, _, err := svc.ListModeration(context.Background(), models.PostFilter{Status: "ARCHIVED"}, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGetDashboardDefaults(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(store, store)
	ctx := context.Background()

	for _, status := range []models.PostStatus{models.StatusApproved, models.StatusPending, models.StatusRejected} {
		post := &models.Post{Title: "Dashboard post title", Content: "x", Category: models.CategoryGundem, Status: status}
		require.NoError(t, store.Create(ctx, post))
	}

	dashboard, err := svc.GetDashboard(ctx, models.PostFilter{}, 1, 10)
	require.NoError(t, err)

	// Default listing shows approved posts only
	require.Len(t, dashboard.Posts, 1)
	assert.Equal(t, models.StatusApproved, dashboard.Posts[0].Status)
	assert.Len(t, dashboard.LatestPending, 1)
	assert.Len(t, dashboard.LatestRejected, 1)
	assert.Equal(t, int64(3), dashboard.Stats.Total)
}

func TestBulkStoreErrorPropagates(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(&failingPostStore{fakePostStore: store}, store)

	_, err := svc.Bulk(context.Background(), models.BulkApprove, []int64{1, 2})
	assert.Error(t, err)
}

type failingPostStore struct {
	*fakePostStore
}

func (f *failingPostStore) BulkUpdateStatus(context.Context, []int64, models.PostStatus) (int64, error) {
	return 0, errors.New("connection reset")
}
