package services

import (
	"context"
	"strings"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
	"github.com/emre/uninews/internal/pkg/dberrors"
	"github.com/emre/uninews/internal/pkg/logger"
	"github.com/emre/uninews/internal/pkg/validation"
)

// EngagementStore is the like/comment/view persistence surface
type EngagementStore interface {
	InsertLike(ctx context.Context, postID, userID int64) error
	DeleteLike(ctx context.Context, postID, userID int64) (bool, error)
	LikeExists(ctx context.Context, postID, userID int64) (bool, error)
	CountLikes(ctx context.Context, postID int64) (int64, error)
	UpsertView(ctx context.Context, postID, userID int64) error
	CountViews(ctx context.Context, postID int64) (int64, error)
	InsertComment(ctx context.Context, comment *models.PostComment) error
	ListComments(ctx context.Context, postID int64) ([]models.PostComment, error)
}

// PostReader looks up posts for engagement target checks
type PostReader interface {
	GetByID(ctx context.Context, id, viewerID int64) (*models.Post, error)
}

// EngagementService handles likes, comments and views on posts
type EngagementService struct {
	engagement EngagementStore
	posts      PostReader
}

// NewEngagementService creates a new engagement service
func NewEngagementService(engagement EngagementStore, posts PostReader) *EngagementService {
	return &EngagementService{
		engagement: engagement,
		posts:      posts,
	}
}

// visiblePost loads the target post and hides unapproved ones from non-staff
func (s *EngagementService) visiblePost(ctx context.Context, caps models.Capabilities, postID int64) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID, caps.UserID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.StatusApproved && !(caps.IsStaff || caps.IsSuperuser) {
		return nil, apperrors.ErrPostNotFound
	}
	return post, nil
}

// ToggleLike flips the caller's like on a post and returns the new state.
// A concurrent double-insert resolves to liked rather than an error.
func (s *EngagementService) ToggleLike(ctx context.Context, caps models.Capabilities, postID int64) (liked bool, likeCount int64, err error) {
	if _, err := s.visiblePost(ctx, caps, postID); err != nil {
		return false, 0, err
	}

	exists, err := s.engagement.LikeExists(ctx, postID, caps.UserID)
	if err != nil {
		return false, 0, err
	}

	if exists {
		if _, err := s.engagement.DeleteLike(ctx, postID, caps.UserID); err != nil {
			return false, 0, err
		}
		liked = false
	} else {
		err := s.engagement.InsertLike(ctx, postID, caps.UserID)
		if err != nil {
			// Someone else inserted between the check and the insert.
			// The like stands, so report it as such.
			if !dberrors.IsUniqueViolation(err) {
				logger.Error().Err(err).Int64("postID", postID).Int64("userID", caps.UserID).Msg("Error inserting like")
				return false, 0, err
			}
		}
		liked = true
	}

	likeCount, err = s.engagement.CountLikes(ctx, postID)
	if err != nil {
		return false, 0, err
	}

	return liked, likeCount, nil
}

// RecordView records that the caller opened a post. Repeat views refresh the
// existing record instead of inflating the count.
func (s *EngagementService) RecordView(ctx context.Context, caps models.Capabilities, postID int64) (int64, error) {
	if _, err := s.visiblePost(ctx, caps, postID); err != nil {
		return 0, err
	}

	if err := s.engagement.UpsertView(ctx, postID, caps.UserID); err != nil {
		return 0, err
	}

	return s.engagement.CountViews(ctx, postID)
}

// AddComment validates and stores a comment on a post
func (s *EngagementService) AddComment(ctx context.Context, caps models.Capabilities, postID int64, text string) (*models.PostComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment cannot be empty")
	}
	if len([]rune(text)) > validation.CommentMaxLength {
		return nil, apperrors.NewValidationError("comment is too long")
	}

	if _, err := s.visiblePost(ctx, caps, postID); err != nil {
		return nil, err
	}

	comment := &models.PostComment{
		PostID: postID,
		UserID: &caps.UserID,
		Text:   text,
	}
	if err := s.engagement.InsertComment(ctx, comment); err != nil {
		return nil, err
	}

	logger.Info().Int64("postID", postID).Int64("userID", caps.UserID).Msg("Comment added")

	return comment, nil
}

// ListComments returns the comments of a post visible to the caller
func (s *EngagementService) ListComments(ctx context.Context, caps models.Capabilities, postID int64) ([]models.PostComment, error) {
	if _, err := s.visiblePost(ctx, caps, postID); err != nil {
		return nil, err
	}

	return s.engagement.ListComments(ctx, postID)
}
