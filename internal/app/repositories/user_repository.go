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
	"github.com/emre/uninews/internal/pkg/dberrors"
	"github.com/emre/uninews/internal/pkg/logger"
)

const userColumns = "id, username, email, password, is_staff, is_superuser, is_active, created_at, last_login_at"

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user and fills in its generated fields
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password, is_staff, is_superuser, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.Password,
		user.IsStaff,
		user.IsSuperuser,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return apperrors.ErrUsernameAlreadyTaken
		}
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error inserting user")
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

func (r *UserRepository) getBy(ctx context.Context, pred squirrel.Eq) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.IsStaff,
		&user.IsSuperuser,
		&user.IsActive,
		&user.CreatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

// UpdateLastLogin stamps the user's last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("users").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", id).Msg("Error updating last login")
		return fmt.Errorf("error updating last login: %w", err)
	}

	return nil
}

// GetCapabilities resolves a user's live capability set: the staff and
// superuser flags plus managed group memberships, read fresh from the store.
func (r *UserRepository) GetCapabilities(ctx context.Context, userID int64) (*models.Capabilities, error) {
	query := `
		SELECT u.is_staff, u.is_superuser, u.is_active, COALESCE(array_agg(g.name) FILTER (WHERE g.name IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_groups ug ON ug.user_id = u.id
		LEFT JOIN groups g ON g.id = ug.group_id
		WHERE u.id = $1
		GROUP BY u.id
	`

	var isStaff, isSuperuser, isActive bool
	var groupNames []string
	err := r.db.QueryRow(ctx, query, userID).Scan(&isStaff, &isSuperuser, &isActive, &groupNames)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error resolving capabilities")
		return nil, fmt.Errorf("error resolving capabilities: %w", err)
	}

	if !isActive {
		return nil, apperrors.ErrAccountDisabled
	}

	caps := &models.Capabilities{
		UserID:      userID,
		IsStaff:     isStaff,
		IsSuperuser: isSuperuser,
		Roles:       make(map[string]bool, len(groupNames)),
	}
	for _, name := range groupNames {
		caps.Roles[name] = true
	}

	return caps, nil
}

// ListWithStats returns users annotated with their engagement aggregates for
// the admin role listing, filtered by an optional username/email query.
func (r *UserRepository) ListWithStats(ctx context.Context, query string, offset uint64, limit int) ([]models.UserWithStats, error) {
	builder := r.sb.Select(
		"u.id", "u.username", "u.email", "u.is_staff", "u.is_superuser", "u.is_active", "u.created_at", "u.last_login_at",
		"(SELECT COUNT(*) FROM posts p WHERE p.author_id = u.id) AS post_count",
		"(SELECT COUNT(*) FROM post_likes l JOIN posts p ON p.id = l.post_id WHERE p.author_id = u.id) AS total_likes_received",
		"(SELECT COUNT(*) FROM post_comments c JOIN posts p ON p.id = c.post_id WHERE p.author_id = u.id) AS total_comments_received",
		"(SELECT COUNT(*) FROM post_views v JOIN posts p ON p.id = v.post_id WHERE p.author_id = u.id) AS total_views_received",
		"COALESCE((SELECT array_agg(g.name) FROM user_groups ug JOIN groups g ON g.id = ug.group_id WHERE ug.user_id = u.id), '{}')",
	).From("users u")

	if query != "" {
		like := "%" + query + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"u.username": like},
			squirrel.ILike{"u.email": like},
		})
	}

	sql, args, err := builder.
		OrderBy("u.id ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying users with stats")
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []models.UserWithStats
	for rows.Next() {
		var u models.UserWithStats
		if err := rows.Scan(
			&u.ID,
			&u.Username,
			&u.Email,
			&u.IsStaff,
			&u.IsSuperuser,
			&u.IsActive,
			&u.CreatedAt,
			&u.LastLoginAt,
			&u.PostCount,
			&u.TotalLikesReceived,
			&u.TotalCommentsReceived,
			&u.TotalViewsReceived,
			&u.Roles,
		); err != nil {
			return nil, fmt.Errorf("error scanning user stats row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// CountUsers returns the number of users matching the optional query
func (r *UserRepository) CountUsers(ctx context.Context, query string) (int64, error) {
	builder := r.sb.Select("COUNT(*)").From("users u")
	if query != "" {
		like := "%" + query + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"u.username": like},
			squirrel.ILike{"u.email": like},
		})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count users query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}

	return count, nil
}
