package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/logger"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetOrCreateByUserID returns the user's profile row, creating an empty one if missing.
// The joined university and department relations are filled when set.
func (r *ProfileRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	insert := `
		INSERT INTO profiles (user_id, notifications_enabled, created_at)
		VALUES ($1, TRUE, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, insert, userID); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error ensuring profile row")
		return nil, fmt.Errorf("error ensuring profile: %w", err)
	}

	query := `
		SELECT pr.id, pr.user_id, pr.university_id, pr.department_id, pr.avatar_url, pr.notifications_enabled, pr.created_at,
			un.id, un.name, un.abbreviation,
			d.id, d.university_id, d.name, d.code
		FROM profiles pr
		LEFT JOIN universities un ON un.id = pr.university_id
		LEFT JOIN departments d ON d.id = pr.department_id
		WHERE pr.user_id = $1
	`

	var profile models.Profile
	var uniID *int64
	var uniName, uniAbbr *string
	var depID, depUniID *int64
	var depName, depCode *string
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.UniversityID,
		&profile.DepartmentID,
		&profile.AvatarURL,
		&profile.NotificationsEnabled,
		&profile.CreatedAt,
		&uniID, &uniName, &uniAbbr,
		&depID, &depUniID, &depName, &depCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile row missing after upsert for user %d", userID)
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	if uniID != nil {
		profile.University = &models.University{ID: *uniID, Name: *uniName}
		if uniAbbr != nil {
			profile.University.Abbreviation = *uniAbbr
		}
	}
	if depID != nil {
		profile.Department = &models.Department{ID: *depID, UniversityID: *depUniID, Name: *depName}
		if depCode != nil {
			profile.Department.Code = *depCode
		}
	}

	return &profile, nil
}

// SetUniversityAndDepartment links the profile to a university and department
func (r *ProfileRepository) SetUniversityAndDepartment(ctx context.Context, userID int64, universityID, departmentID *int64) error {
	sql, args, err := r.sb.Update("profiles").
		Set("university_id", universityID).
		Set("department_id", departmentID).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating profile affiliation")
		return fmt.Errorf("error updating profile: %w", err)
	}

	return nil
}

// SetAvatar stores the user's avatar path
func (r *ProfileRepository) SetAvatar(ctx context.Context, userID int64, avatarURL *string) error {
	sql, args, err := r.sb.Update("profiles").
		Set("avatar_url", avatarURL).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update avatar query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating avatar")
		return fmt.Errorf("error updating avatar: %w", err)
	}

	return nil
}

// SetNotifications toggles the notification preference
func (r *ProfileRepository) SetNotifications(ctx context.Context, userID int64, enabled bool) error {
	sql, args, err := r.sb.Update("profiles").
		Set("notifications_enabled", enabled).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update notifications query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating notification preference")
		return fmt.Errorf("error updating notifications: %w", err)
	}

	return nil
}
