package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
	"github.com/emre/uninews/internal/pkg/logger"
)

// Column set shared by the post listing queries. Engagement counts come from
// correlated subqueries so listings stay a single round trip.
const postSelectColumns = `
	p.id, p.title, p.summary, p.content, p.category, p.status, p.author_id, p.image_url, p.event_date, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count,
	(SELECT COUNT(*) FROM post_views v WHERE v.post_id = p.id) AS view_count,
	(SELECT COUNT(*) FROM post_comments c WHERE c.post_id = p.id) AS comment_count`

// PostRepository handles database operations for posts
type PostRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new post and fills in its generated fields
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (title, summary, content, category, status, author_id, image_url, event_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		post.Title,
		post.Summary,
		post.Content,
		post.Category,
		post.Status,
		post.AuthorID,
		post.ImageURL,
		post.EventDate,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Str("title", post.Title).Msg("Error inserting post")
		return fmt.Errorf("error creating post: %w", err)
	}

	return nil
}

// GetByID retrieves a post with its engagement counts and author.
// viewerID controls the likedByUser flag; pass 0 for anonymous callers.
func (r *PostRepository) GetByID(ctx context.Context, id, viewerID int64) (*models.Post, error) {
	query := `
		SELECT` + postSelectColumns + `,
		EXISTS(SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = $2) AS liked_by_user,
		u.id, u.username
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`

	var post models.Post
	var authorID *int64
	var authorName *string
	err := r.db.QueryRow(ctx, query, id, viewerID).Scan(
		&post.ID,
		&post.Title,
		&post.Summary,
		&post.Content,
		&post.Category,
		&post.Status,
		&post.AuthorID,
		&post.ImageURL,
		&post.EventDate,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.LikeCount,
		&post.ViewCount,
		&post.CommentCnt,
		&post.LikedByUser,
		&authorID,
		&authorName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		logger.Error().Err(err).Int64("postID", id).Msg("Error scanning post row")
		return nil, fmt.Errorf("error retrieving post: %w", err)
	}

	if authorID != nil && authorName != nil {
		post.Author = &models.User{ID: *authorID, Username: *authorName}
	}

	return &post, nil
}

// Update applies the given fields to a post and bumps updated_at
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	sql, args, err := r.sb.Update("posts").
		Set("title", post.Title).
		Set("summary", post.Summary).
		Set("content", post.Content).
		Set("category", post.Category).
		Set("status", post.Status).
		Set("image_url", post.ImageURL).
		Set("event_date", post.EventDate).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": post.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update post query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postID", post.ID).Msg("Error updating post")
		return fmt.Errorf("error updating post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

// UpdateStatus sets the moderation state of a single post
func (r *PostRepository) UpdateStatus(ctx context.Context, id int64, status models.PostStatus) error {
	sql, args, err := r.sb.Update("posts").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postID", id).Msg("Error updating post status")
		return fmt.Errorf("error updating post status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

// Delete removes a post. Likes, comments and views cascade at the schema level.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("posts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete post query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postID", id).Msg("Error deleting post")
		return fmt.Errorf("error deleting post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

// BulkUpdateStatus sets the status of every listed post, returning the
// number of rows actually changed. Unknown ids are skipped silently.
func (r *PostRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.PostStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `UPDATE posts SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	tag, err := r.db.Exec(ctx, query, status, ids)
	if err != nil {
		logger.Error().Err(err).Ints64("postIDs", ids).Msg("Error bulk updating post status")
		return 0, fmt.Errorf("error bulk updating posts: %w", err)
	}

	return tag.RowsAffected(), nil
}

// BulkDelete removes every listed post, returning the number of rows removed
func (r *PostRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `DELETE FROM posts WHERE id = ANY($1)`
	tag, err := r.db.Exec(ctx, query, ids)
	if err != nil {
		logger.Error().Err(err).Ints64("postIDs", ids).Msg("Error bulk deleting posts")
		return 0, fmt.Errorf("error bulk deleting posts: %w", err)
	}

	return tag.RowsAffected(), nil
}

// applyFilter translates a PostFilter into squirrel predicates
func applyFilter(builder squirrel.SelectBuilder, filter models.PostFilter) squirrel.SelectBuilder {
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"p.title": like},
			squirrel.ILike{"p.content": like},
		})
	}
	if filter.Category != "" {
		builder = builder.Where(squirrel.Eq{"p.category": filter.Category})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"p.status": filter.Status})
	}
	if filter.AuthorID != 0 {
		builder = builder.Where(squirrel.Eq{"p.author_id": filter.AuthorID})
	}
	return builder
}

// orderClause maps a sort key to an ORDER BY expression.
// Ties always break on the newest row id so ordering stays stable.
func orderClause(sort string) string {
	switch sort {
	case "oldest":
		return "p.created_at ASC, p.id ASC"
	case "most_liked":
		return "like_count DESC, p.id DESC"
	case "most_viewed":
		return "view_count DESC, p.id DESC"
	case "most_commented":
		return "comment_count DESC, p.id DESC"
	default:
		return "p.created_at DESC, p.id DESC"
	}
}

// List retrieves posts matching the filter with pagination
func (r *PostRepository) List(ctx context.Context, filter models.PostFilter, offset uint64, limit int) ([]models.Post, error) {
	builder := r.sb.Select().
		Column(squirrel.Expr(postSelectColumns)).
		Column("u.username").
		From("posts p").
		LeftJoin("users u ON u.id = p.author_id")

	builder = applyFilter(builder, filter).
		OrderBy(orderClause(filter.Sort)).
		Offset(offset).
		Limit(uint64(limit))

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list posts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying posts")
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	defer rows.Close()

	return scanPostRows(rows)
}

// Count returns the number of posts matching the filter
func (r *PostRepository) Count(ctx context.Context, filter models.PostFilter) (int64, error) {
	builder := r.sb.Select("COUNT(*)").From("posts p")
	builder = applyFilter(builder, filter)

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count posts query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting posts")
		return 0, fmt.Errorf("error counting posts: %w", err)
	}

	return count, nil
}

// ListLikedByUser returns the newest approved posts liked by a user, capped at limit
func (r *PostRepository) ListLikedByUser(ctx context.Context, userID int64, limit int) ([]models.Post, error) {
	query := `
		SELECT` + postSelectColumns + `, u.username
		FROM post_likes pl
		JOIN posts p ON p.id = pl.post_id
		LEFT JOIN users u ON u.id = p.author_id
		WHERE pl.user_id = $1 AND p.status = 'APPROVED'
		ORDER BY pl.created_at DESC, pl.id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying liked posts")
		return nil, fmt.Errorf("error listing liked posts: %w", err)
	}
	defer rows.Close()

	return scanPostRows(rows)
}

// ListRecentlyViewed returns the approved posts of one category the user
// viewed most recently. Ties on viewed_at break by view row id, so posts
// viewed in the same instant keep their arrival order.
func (r *PostRepository) ListRecentlyViewed(ctx context.Context, userID int64, category models.PostCategory, limit int) ([]models.Post, error) {
	query := `
		SELECT` + postSelectColumns + `, u.username
		FROM post_views pv
		JOIN posts p ON p.id = pv.post_id
		LEFT JOIN users u ON u.id = p.author_id
		WHERE pv.user_id = $1 AND p.category = $2 AND p.status = 'APPROVED'
		ORDER BY pv.viewed_at DESC, pv.id DESC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, userID, category, limit)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Str("category", string(category)).Msg("Error querying recently viewed posts")
		return nil, fmt.Errorf("error listing recently viewed posts: %w", err)
	}
	defer rows.Close()

	return scanPostRows(rows)
}

// ListLatestComments returns the newest comments across all posts
func (r *PostRepository) ListLatestComments(ctx context.Context, limit int) ([]models.PostComment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.text, c.created_at, u.username
		FROM post_comments c
		LEFT JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying latest comments")
		return nil, fmt.Errorf("error listing latest comments: %w", err)
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

// ListLatestUsers returns the most recently registered users
func (r *PostRepository) ListLatestUsers(ctx context.Context, limit int) ([]models.User, error) {
	query := `
		SELECT id, username, email, is_staff, is_superuser, is_active, created_at, last_login_at
		FROM users
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying latest users")
		return nil, fmt.Errorf("error listing latest users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.IsStaff,
			&user.IsSuperuser,
			&user.IsActive,
			&user.CreatedAt,
			&user.LastLoginAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// Stats computes the moderation dashboard aggregates in one round trip
func (r *PostRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'APPROVED'),
			COUNT(*) FILTER (WHERE status = 'REJECTED'),
			COUNT(*) FILTER (WHERE category = 'GUNDEM'),
			COUNT(*) FILTER (WHERE category = 'ETKINLIK'),
			COUNT(*) FILTER (WHERE category = 'DUYURU'),
			COUNT(*) FILTER (WHERE category = 'KULUP'),
			(SELECT COUNT(*) FROM post_likes),
			(SELECT COUNT(*) FROM post_views),
			(SELECT COUNT(*) FROM post_comments),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(DISTINCT post_id) FROM post_comments)
		FROM posts
	`

	var stats models.DashboardStats
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Approved,
		&stats.Rejected,
		&stats.GundemCount,
		&stats.EtkinlikCount,
		&stats.DuyuruCount,
		&stats.KulupCount,
		&stats.TotalLikes,
		&stats.TotalViews,
		&stats.TotalComments,
		&stats.UserCount,
		&stats.CommentedPosts,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Error computing dashboard stats")
		return nil, fmt.Errorf("error computing stats: %w", err)
	}

	return &stats, nil
}

// scanPostRows scans listing rows that carry engagement counts and the author name
func scanPostRows(rows pgx.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		var post models.Post
		var authorName *string
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Summary,
			&post.Content,
			&post.Category,
			&post.Status,
			&post.AuthorID,
			&post.ImageURL,
			&post.EventDate,
			&post.CreatedAt,
			&post.UpdatedAt,
			&post.LikeCount,
			&post.ViewCount,
			&post.CommentCnt,
			&authorName,
		); err != nil {
			return nil, fmt.Errorf("error scanning post row: %w", err)
		}
		if post.AuthorID != nil && authorName != nil {
			post.Author = &models.User{ID: *post.AuthorID, Username: *authorName}
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}
