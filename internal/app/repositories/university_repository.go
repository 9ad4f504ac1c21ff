package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/helpers"
	"github.com/emre/uninews/internal/pkg/logger"
)

// UniversityRepository handles database operations for universities
type UniversityRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUniversityRepository creates a new university repository
func NewUniversityRepository(db *pgxpool.Pool) *UniversityRepository {
	return &UniversityRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetOrCreateByName returns the university with the given name, creating it
// if missing. New rows get a slug derived from the name.
func (r *UniversityRepository) GetOrCreateByName(ctx context.Context, name, abbreviation string) (*models.University, error) {
	query := `
		INSERT INTO universities (name, slug, abbreviation)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, slug, abbreviation
	`

	var university models.University
	err := r.db.QueryRow(ctx, query, name, helpers.Slugify(name, 220), abbreviation).Scan(
		&university.ID,
		&university.Name,
		&university.Slug,
		&university.Abbreviation,
	)
	if err != nil {
		logger.Error().Err(err).Str("name", name).Msg("Error upserting university")
		return nil, fmt.Errorf("error getting or creating university: %w", err)
	}

	return &university, nil
}

// GetAll retrieves all universities ordered by name
func (r *UniversityRepository) GetAll(ctx context.Context) ([]models.University, error) {
	sql, args, err := r.sb.Select("id", "name", "slug", "abbreviation").
		From("universities").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list universities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying universities")
		return nil, fmt.Errorf("error listing universities: %w", err)
	}
	defer rows.Close()

	var universities []models.University
	for rows.Next() {
		var university models.University
		if err := rows.Scan(&university.ID, &university.Name, &university.Slug, &university.Abbreviation); err != nil {
			return nil, fmt.Errorf("error scanning university row: %w", err)
		}
		universities = append(universities, university)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating university rows: %w", err)
	}

	return universities, nil
}
