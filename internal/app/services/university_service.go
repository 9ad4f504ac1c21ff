package services

import (
	"context"
	"strings"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
)

// UniversityStore is the university persistence surface
type UniversityStore interface {
	GetOrCreateByName(ctx context.Context, name, abbreviation string) (*models.University, error)
	GetAll(ctx context.Context) ([]models.University, error)
}

// DepartmentStore is the department persistence surface
type DepartmentStore interface {
	GetOrCreateByName(ctx context.Context, universityID int64, name, code string) (*models.Department, error)
	GetByUniversityID(ctx context.Context, universityID int64) ([]models.Department, error)
}

// UniversityService handles university and department lookups.
// It also implements AffiliationStore for registration and profile updates.
type UniversityService struct {
	universities UniversityStore
	departments  DepartmentStore
	profiles     ProfileStore
}

// NewUniversityService creates a new university service
func NewUniversityService(universities UniversityStore, departments DepartmentStore, profiles ProfileStore) *UniversityService {
	return &UniversityService{
		universities: universities,
		departments:  departments,
		profiles:     profiles,
	}
}

// ListUniversities returns all known universities
func (s *UniversityService) ListUniversities(ctx context.Context) ([]models.University, error) {
	return s.universities.GetAll(ctx)
}

// ListDepartments returns the departments of a university, name ordered.
// An absent or unknown university yields an empty list, not an error.
func (s *UniversityService) ListDepartments(ctx context.Context, universityID int64) ([]models.Department, error) {
	if universityID <= 0 {
		return []models.Department{}, nil
	}

	return s.departments.GetByUniversityID(ctx, universityID)
}

// GetOrCreateUniversity resolves a university by name, creating it if missing
func (s *UniversityService) GetOrCreateUniversity(ctx context.Context, name, abbreviation string) (*models.University, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("university name cannot be empty")
	}
	return s.universities.GetOrCreateByName(ctx, name, abbreviation)
}

// GetOrCreateDepartment resolves a department by name within a university
func (s *UniversityService) GetOrCreateDepartment(ctx context.Context, universityID int64, name, code string) (*models.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("department name cannot be empty")
	}
	return s.departments.GetOrCreateByName(ctx, universityID, name, code)
}

// SetProfileAffiliation links a user's profile to a university and department
func (s *UniversityService) SetProfileAffiliation(ctx context.Context, userID int64, universityID, departmentID *int64) error {
	return s.profiles.SetUniversityAndDepartment(ctx, userID, universityID, departmentID)
}
