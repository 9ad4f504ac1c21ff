package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/logger"
)

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetOrCreateByName returns the named department within a university, creating it if missing
func (r *DepartmentRepository) GetOrCreateByName(ctx context.Context, universityID int64, name, code string) (*models.Department, error) {
	query := `
		INSERT INTO departments (university_id, name, code)
		VALUES ($1, $2, $3)
		ON CONFLICT (university_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, university_id, name, code
	`

	var department models.Department
	err := r.db.QueryRow(ctx, query, universityID, name, code).Scan(
		&department.ID,
		&department.UniversityID,
		&department.Name,
		&department.Code,
	)
	if err != nil {
		logger.Error().Err(err).Str("name", name).Int64("universityID", universityID).Msg("Error upserting department")
		return nil, fmt.Errorf("error getting or creating department: %w", err)
	}

	return &department, nil
}

// GetByUniversityID retrieves all departments for a university ordered by name
func (r *DepartmentRepository) GetByUniversityID(ctx context.Context, universityID int64) ([]models.Department, error) {
	sql, args, err := r.sb.Select("id", "university_id", "name", "code").
		From("departments").
		Where(squirrel.Eq{"university_id": universityID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list departments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("universityID", universityID).Msg("Error querying departments")
		return nil, fmt.Errorf("error listing departments: %w", err)
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var department models.Department
		if err := rows.Scan(
			&department.ID,
			&department.UniversityID,
			&department.Name,
			&department.Code,
		); err != nil {
			return nil, fmt.Errorf("error scanning department row: %w", err)
		}
		departments = append(departments, department)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating department rows: %w", err)
	}

	return departments, nil
}
