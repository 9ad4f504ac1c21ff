package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
	"github.com/emre/uninews/internal/pkg/auth"
	"github.com/emre/uninews/internal/pkg/logger"
	"github.com/emre/uninews/internal/pkg/validation"
)

// AuthUserStore is the user persistence surface the auth service needs
type AuthUserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

// TokenStore is the refresh token persistence surface
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, time.Time, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// AffiliationStore resolves university/department names at registration
type AffiliationStore interface {
	GetOrCreateUniversity(ctx context.Context, name, abbreviation string) (*models.University, error)
	GetOrCreateDepartment(ctx context.Context, universityID int64, name, code string) (*models.Department, error)
	SetProfileAffiliation(ctx context.Context, userID int64, universityID, departmentID *int64) error
}

// TokenPair bundles the issued tokens and their lifetimes in seconds
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	ExpiresIn        int
	RefreshExpiresIn int
}

// AuthService handles registration, login and token refresh
type AuthService struct {
	users       AuthUserStore
	tokens      TokenStore
	affiliation AffiliationStore
	jwtService  *auth.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(users AuthUserStore, tokens TokenStore, affiliation AffiliationStore, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		affiliation: affiliation,
		jwtService:  jwtService,
	}
}

// Register creates a new account and signs it in
func (s *AuthService) Register(ctx context.Context, username, email, password, universityName, departmentName string) (*models.User, *TokenPair, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if !validation.CompiledPatterns.Username.MatchString(username) {
		return nil, nil, apperrors.NewValidationError("username may only contain letters, digits, dots and underscores")
	}
	if !validation.ValidEmail(email) {
		return nil, nil, apperrors.NewValidationError("invalid email address")
	}
	if len(password) < validation.PasswordMinLength {
		return nil, nil, apperrors.NewValidationError("password must be at least 8 characters")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	if universityName != "" {
		if err := s.attachAffiliation(ctx, user.ID, universityName, departmentName); err != nil {
			// Affiliation is best effort at registration; the account stands.
			logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to attach affiliation at registration")
		}
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("username", username).Msg("User registered")

	return user, pair, nil
}

func (s *AuthService) attachAffiliation(ctx context.Context, userID int64, universityName, departmentName string) error {
	university, err := s.affiliation.GetOrCreateUniversity(ctx, strings.TrimSpace(universityName), "")
	if err != nil {
		return err
	}

	var departmentID *int64
	if departmentName = strings.TrimSpace(departmentName); departmentName != "" {
		department, err := s.affiliation.GetOrCreateDepartment(ctx, university.ID, departmentName, "")
		if err != nil {
			return err
		}
		departmentID = &department.ID
	}

	return s.affiliation.SetProfileAffiliation(ctx, userID, &university.ID, departmentID)
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to stamp last login")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info().Int64("userID", user.ID).Msg("User logged in")

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair, revoking the old one
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	userID, _, err := s.tokens.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Logout revokes every active refresh token of the user
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.tokens.RevokeAllUserTokens(ctx, userID)
}

// GetUser loads a user by id
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
	}, nil
}
