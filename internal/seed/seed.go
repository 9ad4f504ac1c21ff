package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/emre/uninews/internal/app/models"
	appRepos "github.com/emre/uninews/internal/app/repositories"
	"github.com/emre/uninews/internal/pkg/apperrors"
	pkgAuth "github.com/emre/uninews/internal/pkg/auth"
)

const (
	adminUsername = "admin"
	adminEmail    = "admin@uninews.app"
	adminPassword = "Admin123!"
)

// CreateDefaultData ensures the managed role groups, a default admin account
// and a couple of universities exist. Safe to run on every startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	groupRepo := appRepos.NewGroupRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)
	universityRepo := appRepos.NewUniversityRepository(dbPool)
	departmentRepo := appRepos.NewDepartmentRepository(dbPool)

	var finalErr error

	// --- Managed role groups --- //
	for _, name := range appModels.ManagedRoles {
		if _, err := groupRepo.GetOrCreate(ctx, name); err != nil {
			lgr.Error().Err(err).Str("group", name).Msg("Error creating role group")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Default admin user --- //
	_, err := userRepo.GetByUsername(ctx, adminUsername)
	switch {
	case err == nil:
		lgr.Info().Msg("Admin user already exists, skipping creation")
	case errors.Is(err, apperrors.ErrUserNotFound):
		lgr.Info().Msg("Creating default admin user...")

		hashedPassword, hashErr := pkgAuth.HashPassword(adminPassword)
		if hashErr != nil {
			lgr.Error().Err(hashErr).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, hashErr)
			break
		}

		admin := &appModels.User{
			Username:    adminUsername,
			Email:       adminEmail,
			Password:    hashedPassword,
			IsStaff:     true,
			IsSuperuser: true,
			IsActive:    true,
		}
		if createErr := userRepo.Create(ctx, admin); createErr != nil {
			lgr.Error().Err(createErr).Msg("Error creating admin user")
			finalErr = errors.Join(finalErr, createErr)
		} else {
			lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created")
		}
	default:
		lgr.Error().Err(err).Msg("Error checking for admin user")
		finalErr = errors.Join(finalErr, err)
	}

	// --- Sample universities and departments --- //
	type deptSeed struct {
		name string
		code string
	}
	universities := map[string][]deptSeed{
		"İstanbul Teknik Üniversitesi": {
			{"Bilgisayar Mühendisliği", "BLG"},
			{"Elektrik Mühendisliği", "ELK"},
		},
		"Boğaziçi Üniversitesi": {
			{"Computer Engineering", "CMPE"},
			{"Mathematics", "MATH"},
		},
	}
	for name, departments := range universities {
		university, uniErr := universityRepo.GetOrCreateByName(ctx, name, "")
		if uniErr != nil {
			lgr.Error().Err(uniErr).Str("university", name).Msg("Error creating university")
			finalErr = errors.Join(finalErr, uniErr)
			continue
		}
		for _, dept := range departments {
			if _, depErr := departmentRepo.GetOrCreateByName(ctx, university.ID, dept.name, dept.code); depErr != nil {
				lgr.Error().Err(depErr).Str("department", dept.name).Msg("Error creating department")
				finalErr = errors.Join(finalErr, depErr)
			}
		}
	}

	lgr.Info().Msg("Default data check finished")
	return finalErr
}
