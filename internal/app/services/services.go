package services

import (
	"github.com/emre/uninews/internal/app/auth"
	"github.com/emre/uninews/internal/app/repositories"
	pkgauth "github.com/emre/uninews/internal/pkg/auth"
	"github.com/emre/uninews/internal/pkg/filestorage"
	"github.com/emre/uninews/internal/pkg/genai"
)

// Services holds all the service instances
type Services struct {
	AuthService       *AuthService
	PostService       *PostService
	EngagementService *EngagementService
	RoleService       *RoleService
	UniversityService *UniversityService
	ProfileService    *ProfileService
	AssistantService  *AssistantService
	Capabilities      *auth.CapabilityService
}

// NewServices wires all services over the repository layer
func NewServices(repos *repositories.Repositories, jwtService *pkgauth.JWTService, storage filestorage.FileStorage, aiClient *genai.Client) *Services {
	universityService := NewUniversityService(
		repos.UniversityRepository,
		repos.DepartmentRepository,
		repos.ProfileRepository,
	)

	return &Services{
		AuthService: NewAuthService(
			repos.UserRepository,
			repos.TokenRepository,
			universityService,
			jwtService,
		),
		PostService: NewPostService(
			repos.PostRepository,
			repos.EngagementRepository,
		),
		EngagementService: NewEngagementService(
			repos.EngagementRepository,
			repos.PostRepository,
		),
		RoleService: NewRoleService(
			repos.GroupRepository,
			repos.UserRepository,
		),
		UniversityService: universityService,
		ProfileService: NewProfileService(
			repos.ProfileRepository,
			repos.PostRepository,
			repos.EngagementRepository,
			universityService,
			storage,
		),
		AssistantService: NewAssistantService(
			repos.AIMessageRepository,
			aiClient,
		),
		Capabilities: auth.NewCapabilityService(repos.UserRepository),
	}
}
