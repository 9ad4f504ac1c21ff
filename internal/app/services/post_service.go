package services

import (
	"context"
	"strings"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
	"github.com/emre/uninews/internal/pkg/logger"
	"github.com/emre/uninews/internal/pkg/validation"
)

// PostStore is the post persistence surface the service needs
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id, viewerID int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status models.PostStatus) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status models.PostStatus) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context, filter models.PostFilter, offset uint64, limit int) ([]models.Post, error)
	Count(ctx context.Context, filter models.PostFilter) (int64, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
	ListLatestComments(ctx context.Context, limit int) ([]models.PostComment, error)
	ListLatestUsers(ctx context.Context, limit int) ([]models.User, error)
}

// ViewRecorder records a post view for the detail endpoint
type ViewRecorder interface {
	UpsertView(ctx context.Context, postID, userID int64) error
}

// PostService implements the moderation workflow over posts
type PostService struct {
	posts PostStore
	views ViewRecorder
}

// NewPostService creates a new post service
func NewPostService(posts PostStore, views ViewRecorder) *PostService {
	return &PostService{
		posts: posts,
		views: views,
	}
}

// decideStatus determines the moderation state a new post starts in.
// Staff and approved publishers publish everything immediately; club admins
// publish club posts immediately; everyone else waits for review.
func decideStatus(caps models.Capabilities, category models.PostCategory) models.PostStatus {
	if caps.IsStaff || caps.IsSuperuser {
		return models.StatusApproved
	}
	if caps.HasRole(models.RoleApprovedPublisher) {
		return models.StatusApproved
	}
	if category == models.CategoryKulup && caps.HasRole(models.RoleClubAdmin) {
		return models.StatusApproved
	}
	return models.StatusPending
}

// canSubmitCategory reports whether the caller may submit to the category.
// Club posts are reserved for staff and club admins.
func canSubmitCategory(caps models.Capabilities, category models.PostCategory) bool {
	if category != models.CategoryKulup {
		return true
	}
	return caps.IsStaff || caps.IsSuperuser || caps.HasRole(models.RoleClubAdmin)
}

// normalizeSummary trims an optional summary, mapping blank to absent
func normalizeSummary(summary *string) (*string, error) {
	if summary == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*summary)
	if trimmed == "" {
		return nil, nil
	}
	if !validation.ValidSummary(trimmed) {
		return nil, apperrors.NewValidationError("summary must be at most 300 characters")
	}
	return &trimmed, nil
}

// Submit validates and stores a new post, deciding its initial status from
// the caller's live capabilities.
func (s *PostService) Submit(ctx context.Context, caps models.Capabilities, post *models.Post) error {
	post.Title = strings.TrimSpace(post.Title)
	post.Content = strings.TrimSpace(post.Content)

	if !validation.ValidTitle(post.Title) {
		return apperrors.NewValidationError("title must be between 5 and 200 characters")
	}
	if post.Content == "" {
		return apperrors.NewValidationError("content cannot be empty")
	}
	summary, err := normalizeSummary(post.Summary)
	if err != nil {
		return err
	}
	post.Summary = summary
	if !models.ValidCategory(post.Category) {
		return apperrors.ErrInvalidCategory
	}
	if !canSubmitCategory(caps, post.Category) {
		return apperrors.NewForbiddenError("club posts can only be submitted by club admins")
	}

	post.AuthorID = &caps.UserID
	post.Status = decideStatus(caps, post.Category)

	if err := s.posts.Create(ctx, post); err != nil {
		return err
	}

	logger.Info().
		Int64("postID", post.ID).
		Int64("authorID", caps.UserID).
		Str("category", string(post.Category)).
		Str("status", string(post.Status)).
		Msg("Post submitted")

	return nil
}

// GetDetail returns a post for the caller, recording a view for signed-in
// readers. Non-staff callers only see approved posts.
func (s *PostService) GetDetail(ctx context.Context, caps models.Capabilities, postID int64) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID, caps.UserID)
	if err != nil {
		return nil, err
	}

	staff := caps.IsStaff || caps.IsSuperuser
	if !staff && post.Status != models.StatusApproved {
		return nil, apperrors.ErrPostNotFound
	}

	if caps.UserID != 0 {
		if err := s.views.UpsertView(ctx, postID, caps.UserID); err != nil {
			// A failed view write must not break the read path.
			logger.Warn().Err(err).Int64("postID", postID).Int64("userID", caps.UserID).Msg("Failed to record view")
		} else {
			post.ViewCount++
		}
	}

	return post, nil
}

// ListPublic returns approved posts matching the filter
func (s *PostService) ListPublic(ctx context.Context, filter models.PostFilter, page, size int) ([]models.Post, int64, error) {
	filter.Status = models.StatusApproved

	return s.list(ctx, filter, page, size)
}

// ListModeration returns posts in any state for staff listings
func (s *PostService) ListModeration(ctx context.Context, filter models.PostFilter, page, size int) ([]models.Post, int64, error) {
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return nil, 0, apperrors.NewValidationError("unknown status filter")
	}

	return s.list(ctx, filter, page, size)
}

func (s *PostService) list(ctx context.Context, filter models.PostFilter, page, size int) ([]models.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	offset := uint64((page - 1) * size)

	posts, err := s.posts.List(ctx, filter, offset, size)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// Approve publishes a pending or rejected post
func (s *PostService) Approve(ctx context.Context, postID int64) error {
	if err := s.posts.UpdateStatus(ctx, postID, models.StatusApproved); err != nil {
		return err
	}
	logger.Info().Int64("postID", postID).Msg("Post approved")
	return nil
}

// Reject marks a post as rejected
func (s *PostService) Reject(ctx context.Context, postID int64) error {
	if err := s.posts.UpdateStatus(ctx, postID, models.StatusRejected); err != nil {
		return err
	}
	logger.Info().Int64("postID", postID).Msg("Post rejected")
	return nil
}

// Restore sends a post back to the review queue regardless of its current state
func (s *PostService) Restore(ctx context.Context, postID int64) error {
	if err := s.posts.UpdateStatus(ctx, postID, models.StatusPending); err != nil {
		return err
	}
	logger.Info().Int64("postID", postID).Msg("Post restored to pending")
	return nil
}

// Delete permanently removes a post
func (s *PostService) Delete(ctx context.Context, postID int64) error {
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	logger.Info().Int64("postID", postID).Msg("Post deleted")
	return nil
}

// BulkResult reports the outcome of a bulk moderation call
type BulkResult struct {
	Action   models.BulkAction
	Affected int64
	Message  string
}

// Bulk applies a moderation action to a set of posts. An empty selection is a
// no-op that still succeeds, matching the dashboard's select-nothing case.
func (s *PostService) Bulk(ctx context.Context, action models.BulkAction, ids []int64) (*BulkResult, error) {
	if action != models.BulkApprove && action != models.BulkDelete {
		return nil, apperrors.ErrInvalidAction
	}

	if len(ids) == 0 {
		return &BulkResult{
			Action:   action,
			Affected: 0,
			Message:  "no posts selected",
		}, nil
	}

	var affected int64
	var err error
	switch action {
	case models.BulkApprove:
		affected, err = s.posts.BulkUpdateStatus(ctx, ids, models.StatusApproved)
	case models.BulkDelete:
		affected, err = s.posts.BulkDelete(ctx, ids)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("action", string(action)).
		Int("requested", len(ids)).
		Int64("affected", affected).
		Msg("Bulk moderation applied")

	return &BulkResult{
		Action:   action,
		Affected: affected,
		Message:  "bulk action applied",
	}, nil
}

// canEdit reports whether the caller may edit the post: staff edit anything,
// club admins edit their own club posts.
func canEdit(caps models.Capabilities, post *models.Post) bool {
	if caps.IsStaff || caps.IsSuperuser {
		return true
	}
	if !caps.HasRole(models.RoleClubAdmin) {
		return false
	}
	if post.Category != models.CategoryKulup {
		return false
	}
	return post.AuthorID != nil && *post.AuthorID == caps.UserID
}

// PostEdit carries the optional fields of an edit request.
// Nil fields are left as they are.
type PostEdit struct {
	Title    *string
	Summary  *string
	Content  *string
	Category *models.PostCategory
	ImageURL *string
}

// Edit applies changed fields to a post after an authorization check.
// The moderation status is left untouched.
func (s *PostService) Edit(ctx context.Context, caps models.Capabilities, postID int64, edit PostEdit) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID, caps.UserID)
	if err != nil {
		return nil, err
	}

	if !canEdit(caps, post) {
		return nil, apperrors.NewForbiddenError("you cannot edit this post")
	}

	if edit.Title != nil {
		trimmed := strings.TrimSpace(*edit.Title)
		if !validation.ValidTitle(trimmed) {
			return nil, apperrors.NewValidationError("title must be between 5 and 200 characters")
		}
		post.Title = trimmed
	}
	if edit.Summary != nil {
		summary, err := normalizeSummary(edit.Summary)
		if err != nil {
			return nil, err
		}
		post.Summary = summary
	}
	if edit.Content != nil {
		trimmed := strings.TrimSpace(*edit.Content)
		if trimmed == "" {
			return nil, apperrors.NewValidationError("content cannot be empty")
		}
		post.Content = trimmed
	}
	if edit.Category != nil {
		if !models.ValidCategory(*edit.Category) {
			return nil, apperrors.ErrInvalidCategory
		}
		if *edit.Category == models.CategoryKulup && !canSubmitCategory(caps, *edit.Category) {
			return nil, apperrors.NewForbiddenError("club posts can only be managed by club admins")
		}
		post.Category = *edit.Category
	}
	if edit.ImageURL != nil {
		post.ImageURL = edit.ImageURL
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	logger.Info().Int64("postID", post.ID).Int64("editorID", caps.UserID).Msg("Post edited")

	return post, nil
}

// Dashboard aggregates the moderation dashboard payload: stats, the filtered
// main listing, the latest pending/rejected queues and the newest
// comments and registrations.
type Dashboard struct {
	Stats          *models.DashboardStats
	Posts          []models.Post
	Total          int64
	LatestPending  []models.Post
	LatestRejected []models.Post
	LatestComments []models.PostComment
	LatestUsers    []models.User
}

// Number of rows in each of the dashboard's side lists
const dashboardListCap = 10

// GetDashboard builds the staff dashboard
func (s *PostService) GetDashboard(ctx context.Context, filter models.PostFilter, page, size int) (*Dashboard, error) {
	if filter.Status == "" {
		filter.Status = models.StatusApproved
	}

	posts, total, err := s.ListModeration(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}

	stats, err := s.posts.Stats(ctx)
	if err != nil {
		return nil, err
	}

	latestPending, err := s.posts.List(ctx, models.PostFilter{Status: models.StatusPending}, 0, dashboardListCap)
	if err != nil {
		return nil, err
	}

	latestRejected, err := s.posts.List(ctx, models.PostFilter{Status: models.StatusRejected}, 0, dashboardListCap)
	if err != nil {
		return nil, err
	}

	latestComments, err := s.posts.ListLatestComments(ctx, dashboardListCap)
	if err != nil {
		return nil, err
	}

	latestUsers, err := s.posts.ListLatestUsers(ctx, dashboardListCap)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Stats:          stats,
		Posts:          posts,
		Total:          total,
		LatestPending:  latestPending,
		LatestRejected: latestRejected,
		LatestComments: latestComments,
		LatestUsers:    latestUsers,
	}, nil
}
