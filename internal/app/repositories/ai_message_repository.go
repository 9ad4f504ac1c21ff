package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/logger"
)

// AIMessageRepository handles database operations for stored assistant exchanges
type AIMessageRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAIMessageRepository creates a new AI message repository
func NewAIMessageRepository(db *pgxpool.Pool) *AIMessageRepository {
	return &AIMessageRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists an answered exchange and fills in its generated fields
func (r *AIMessageRepository) Create(ctx context.Context, msg *models.AIMessage) error {
	query := `
		INSERT INTO ai_messages (user_id, question, answer, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, msg.UserID, msg.Question, msg.Answer).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("userID", msg.UserID).Msg("Error inserting assistant message")
		return fmt.Errorf("error creating assistant message: %w", err)
	}

	return nil
}

// ListByUser returns a user's exchanges oldest first, capped at limit
func (r *AIMessageRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.AIMessage, error) {
	// Take the newest rows, then flip them back into chronological order.
	query := `
		SELECT id, user_id, question, answer, created_at
		FROM (
			SELECT id, user_id, question, answer, created_at
			FROM ai_messages
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) latest
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying assistant messages")
		return nil, fmt.Errorf("error listing assistant messages: %w", err)
	}
	defer rows.Close()

	var messages []models.AIMessage
	for rows.Next() {
		var msg models.AIMessage
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Question, &msg.Answer, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning assistant message row: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assistant message rows: %w", err)
	}

	return messages, nil
}

// DeleteByUser clears a user's assistant history, returning the rows removed
func (r *AIMessageRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	sql, args, err := r.sb.Delete("ai_messages").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete assistant messages query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error deleting assistant messages")
		return 0, fmt.Errorf("error clearing assistant history: %w", err)
	}

	return tag.RowsAffected(), nil
}
