package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/logger"
)

// EngagementRepository handles likes, comments and view tracking
type EngagementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *pgxpool.Pool) *EngagementRepository {
	return &EngagementRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// InsertLike inserts a like row. A unique violation on (post_id, user_id)
// surfaces unchanged so the service can treat the race as already liked.
func (r *EngagementRepository) InsertLike(ctx context.Context, postID, userID int64) error {
	sql, args, err := r.sb.Insert("post_likes").
		Columns("post_id", "user_id", "created_at").
		Values(postID, userID, squirrel.Expr("NOW()")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert like query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return err
	}

	return nil
}

// DeleteLike removes a like row, reporting whether one existed
func (r *EngagementRepository) DeleteLike(ctx context.Context, postID, userID int64) (bool, error) {
	sql, args, err := r.sb.Delete("post_likes").
		Where(squirrel.Eq{"post_id": postID, "user_id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build delete like query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postID", postID).Int64("userID", userID).Msg("Error deleting like")
		return false, fmt.Errorf("error removing like: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// LikeExists reports whether the user already liked the post
func (r *EngagementRepository) LikeExists(ctx context.Context, postID, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, postID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking like: %w", err)
	}

	return exists, nil
}

// CountLikes returns the like count for a post
func (r *EngagementRepository) CountLikes(ctx context.Context, postID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, postID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting likes: %w", err)
	}

	return count, nil
}

// UpsertView records a view for (post, user). A repeat visit bumps viewed_at
// on the existing row instead of adding a second one.
func (r *EngagementRepository) UpsertView(ctx context.Context, postID, userID int64) error {
	query := `
		INSERT INTO post_views (post_id, user_id, viewed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (post_id, user_id) DO UPDATE SET viewed_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, postID, userID); err != nil {
		logger.Error().Err(err).Int64("postID", postID).Int64("userID", userID).Msg("Error recording view")
		return fmt.Errorf("error recording view: %w", err)
	}

	return nil
}

// CountViews returns the view count for a post
func (r *EngagementRepository) CountViews(ctx context.Context, postID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM post_views WHERE post_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, postID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting views: %w", err)
	}

	return count, nil
}

// InsertComment inserts a comment and fills in its generated fields
func (r *EngagementRepository) InsertComment(ctx context.Context, comment *models.PostComment) error {
	query := `
		INSERT INTO post_comments (post_id, user_id, text, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, comment.PostID, comment.UserID, comment.Text).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("postID", comment.PostID).Msg("Error inserting comment")
		return fmt.Errorf("error creating comment: %w", err)
	}

	return nil
}

// ListComments returns a post's comments newest first, with author names
func (r *EngagementRepository) ListComments(ctx context.Context, postID int64) ([]models.PostComment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.text, c.created_at, u.username
		FROM post_comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		logger.Error().Err(err).Int64("postID", postID).Msg("Error querying comments")
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	var comments []models.PostComment
	for rows.Next() {
		var comment models.PostComment
		var authorName *string
		if err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.UserID,
			&comment.Text,
			&comment.CreatedAt,
			&authorName,
		); err != nil {
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		if comment.UserID != nil && authorName != nil {
			comment.Author = &models.User{ID: *comment.UserID, Username: *authorName}
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}

// UserStats returns the profile page engagement aggregates for a user:
// posts liked, comments written and event posts viewed.
func (r *EngagementRepository) UserStats(ctx context.Context, userID int64) (liked, comments, eventViews int64, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM post_likes WHERE user_id = $1),
			(SELECT COUNT(*) FROM post_comments WHERE user_id = $1),
			(SELECT COUNT(*) FROM post_views v JOIN posts p ON p.id = v.post_id WHERE v.user_id = $1 AND p.category = 'ETKINLIK')
	`

	if err = r.db.QueryRow(ctx, query, userID).Scan(&liked, &comments, &eventViews); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error computing user engagement stats")
		return 0, 0, 0, fmt.Errorf("error computing user stats: %w", err)
	}

	return liked, comments, eventViews, nil
}
