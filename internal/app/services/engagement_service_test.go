package services

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
)

type fakeEngagementStore struct {
	likes        map[[2]int64]bool
	views        map[[2]int64]bool
	comments     []models.PostComment
	nextComment  int64
	raceOnInsert bool
}

func newFakeEngagementStore() *fakeEngagementStore {
	return &fakeEngagementStore{
		likes:       make(map[[2]int64]bool),
		views:       make(map[[2]int64]bool),
		nextComment: 1,
	}
}

func (f *fakeEngagementStore) InsertLike(_ context.Context, postID, userID int64) error {
	key := [2]int64{postID, userID}
	if f.likes[key] || f.raceOnInsert {
		f.likes[key] = true
		return &pgconn.PgError{Code: "23505", ConstraintName: "post_likes_post_id_user_id_key"}
	}
	f.likes[key] = true
	return nil
}

func (f *fakeEngagementStore) DeleteLike(_ context.Context, postID, userID int64) (bool, error) {
	key := [2]int64{postID, userID}
	existed := f.likes[key]
	delete(f.likes, key)
	return existed, nil
}

func (f *fakeEngagementStore) LikeExists(_ context.Context, postID, userID int64) (bool, error) {
	return f.likes[[2]int64{postID, userID}], nil
}

func (f *fakeEngagementStore) CountLikes(_ context.Context, postID int64) (int64, error) {
	var n int64
	for key := range f.likes {
		if key[0] == postID {
			n++
		}
	}
	return n, nil
}

func (f *fakeEngagementStore) UpsertView(_ context.Context, postID, userID int64) error {
	f.views[[2]int64{postID, userID}] = true
	return nil
}

func (f *fakeEngagementStore) CountViews(_ context.Context, postID int64) (int64, error) {
	var n int64
	for key := range f.views {
		if key[0] == postID {
			n++
		}
	}
	return n, nil
}

func (f *fakeEngagementStore) InsertComment(_ context.Context, comment *models.PostComment) error {
	comment.ID = f.nextComment
	f.nextComment++
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeEngagementStore) ListComments(_ context.Context, postID int64) ([]models.PostComment, error) {
	var out []models.PostComment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func engagementFixture(t *testing.T) (*EngagementService, *fakeEngagementStore, *models.Post) {
	t.Helper()
	posts := newFakePostStore()
	engagement := newFakeEngagementStore()
	svc := NewEngagementService(engagement, posts)

	post := &models.Post{Title: "Engagement target", Content: "x", Category: models.CategoryGundem, Status: models.StatusApproved}
	require.NoError(t, posts.Create(context.Background(), post))
	return svc, engagement, post
}

func TestToggleLike(t *testing.T) {
	svc, store, post := engagementFixture(t)
	ctx := context.Background()
	caps := roleCaps(5)

	liked, count, err := svc.ToggleLike(ctx, caps, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	liked, count, err = svc.ToggleLike(ctx, caps, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, count)
	assert.Empty(t, store.likes)
}

func TestToggleLikeRaceResolvesToLiked(t *testing.T) {
	svc, store, post := engagementFixture(t)
	store.raceOnInsert = true

	liked, count, err := svc.ToggleLike(context.Background(), roleCaps(5), post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)
}

func TestToggleLikeHiddenPost(t *testing.T) {
	posts := newFakePostStore()
	engagement := newFakeEngagementStore()
	svc := NewEngagementService(engagement, posts)

	pending := &models.Post{Title: "Pending target", Content: "x", Category: models.CategoryGundem, Status: models.StatusPending}
	require.NoError(t, posts.Create(context.Background(), pending))

	_, _, err := svc.ToggleLike(context.Background(), roleCaps(5), pending.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

	// Staff can engage with unapproved posts
	_, _, err = svc.ToggleLike(context.Background(), staffCaps(6), pending.ID)
	assert.NoError(t, err)
}

func TestRecordViewIsIdempotentPerUser(t *testing.T) {
	svc, _, post := engagementFixture(t)
	ctx := context.Background()
	caps := roleCaps(5)

	count, err := svc.RecordView(ctx, caps, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = svc.RecordView(ctx, caps, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = svc.RecordView(ctx, roleCaps(6), post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestAddComment(t *testing.T) {
	svc, _, post := engagementFixture(t)
	ctx := context.Background()
	caps := roleCaps(5)

	t.Run("empty comment", func(t *testing.T) {
		_, err := svc.AddComment(ctx, caps, post.ID, "   ")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("too long comment", func(t *testing.T) {
		_, err := svc.AddComment(ctx, caps, post.ID, strings.Repeat("a", 1501))
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("stores trimmed text", func(t *testing.T) {
		comment, err := svc.AddComment(ctx, caps, post.ID, "  nice post  ")
		require.NoError(t, err)
		assert.Equal(t, "nice post", comment.Text)
		require.NotNil(t, comment.UserID)
		assert.Equal(t, caps.UserID, *comment.UserID)

		comments, err := svc.ListComments(ctx, caps, post.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 1)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := svc.AddComment(ctx, caps, 999, "hello there")
		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	})
}
