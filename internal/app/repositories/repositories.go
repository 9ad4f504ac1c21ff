package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	GroupRepository      *GroupRepository
	PostRepository       *PostRepository
	EngagementRepository *EngagementRepository
	UniversityRepository *UniversityRepository
	DepartmentRepository *DepartmentRepository
	AIMessageRepository  *AIMessageRepository
	TokenRepository      *TokenRepository
	ProfileRepository    *ProfileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		GroupRepository:      NewGroupRepository(db),
		PostRepository:       NewPostRepository(db),
		EngagementRepository: NewEngagementRepository(db),
		UniversityRepository: NewUniversityRepository(db),
		DepartmentRepository: NewDepartmentRepository(db),
		AIMessageRepository:  NewAIMessageRepository(db),
		TokenRepository:      NewTokenRepository(db),
		ProfileRepository:    NewProfileRepository(db),
	}
}
