package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/uninews/internal/pkg/logger"
)

// GroupRepository handles database operations for authorization groups
type GroupRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetOrCreate returns the id of the named group, creating it if missing
func (r *GroupRepository) GetOrCreate(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO groups (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRow(ctx, query, name).Scan(&id); err != nil {
		logger.Error().Err(err).Str("group", name).Msg("Error upserting group")
		return 0, fmt.Errorf("error getting or creating group: %w", err)
	}

	return id, nil
}

// GetUserGroups returns the group names a user belongs to
func (r *GroupRepository) GetUserGroups(ctx context.Context, userID int64) ([]string, error) {
	query := `
		SELECT g.name
		FROM user_groups ug
		JOIN groups g ON g.id = ug.group_id
		WHERE ug.user_id = $1
		ORDER BY g.name
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying user groups")
		return nil, fmt.Errorf("error listing user groups: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning group row: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}

	return names, nil
}

// AddUserToGroup links a user to a group. Idempotent.
func (r *GroupRepository) AddUserToGroup(ctx context.Context, userID, groupID int64) error {
	query := `
		INSERT INTO user_groups (user_id, group_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, group_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, userID, groupID); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("groupID", groupID).Msg("Error adding user to group")
		return fmt.Errorf("error adding user to group: %w", err)
	}

	return nil
}

// RemoveUserFromGroups unlinks a user from every group in the named set
func (r *GroupRepository) RemoveUserFromGroups(ctx context.Context, userID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}

	query := `
		DELETE FROM user_groups ug
		USING groups g
		WHERE ug.group_id = g.id AND ug.user_id = $1 AND g.name = ANY($2)
	`

	if _, err := r.db.Exec(ctx, query, userID, names); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Strs("groups", names).Msg("Error removing user from groups")
		return fmt.Errorf("error removing user from groups: %w", err)
	}

	return nil
}
