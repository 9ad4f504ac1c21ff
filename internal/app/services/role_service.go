package services

import (
	"context"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
	"github.com/emre/uninews/internal/pkg/logger"
)

// GroupStore is the group persistence surface the role service needs
type GroupStore interface {
	GetOrCreate(ctx context.Context, name string) (int64, error)
	GetUserGroups(ctx context.Context, userID int64) ([]string, error)
	AddUserToGroup(ctx context.Context, userID, groupID int64) error
	RemoveUserFromGroups(ctx context.Context, userID int64, names []string) error
}

// RoleUserStore is the user lookup surface the role service needs
type RoleUserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListWithStats(ctx context.Context, query string, offset uint64, limit int) ([]models.UserWithStats, error)
	CountUsers(ctx context.Context, query string) (int64, error)
}

// RoleService manages the two publisher role groups. Staff and superuser
// flags live on the user row and are out of its reach.
type RoleService struct {
	groups GroupStore
	users  RoleUserStore
}

// NewRoleService creates a new role service
func NewRoleService(groups GroupStore, users RoleUserStore) *RoleService {
	return &RoleService{
		groups: groups,
		users:  users,
	}
}

// ListUsers returns users with engagement stats and their managed roles
func (s *RoleService) ListUsers(ctx context.Context, query string, offset uint64, limit int) ([]models.UserWithStats, int64, error) {
	users, err := s.users.ListWithStats(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.users.CountUsers(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// SetRoles replaces the user's managed roles with exactly the given set.
// Unmanaged group memberships are never touched. Idempotent.
func (s *RoleService) SetRoles(ctx context.Context, targetID int64, roles []string) error {
	for _, role := range roles {
		if !models.ManagedRole(role) {
			return apperrors.ErrUnknownRole
		}
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}

	// Drop every managed role, then add back the requested ones.
	if err := s.groups.RemoveUserFromGroups(ctx, targetID, models.ManagedRoles); err != nil {
		return err
	}

	for _, role := range roles {
		groupID, err := s.groups.GetOrCreate(ctx, role)
		if err != nil {
			return err
		}
		if err := s.groups.AddUserToGroup(ctx, targetID, groupID); err != nil {
			return err
		}
	}

	logger.Info().Int64("targetID", targetID).Strs("roles", roles).Msg("Managed roles replaced")

	return nil
}

// AssignRole gives the user a single managed role, clearing the others.
// An empty role clears all managed roles.
func (s *RoleService) AssignRole(ctx context.Context, targetID int64, role string) error {
	if role == "" {
		return s.SetRoles(ctx, targetID, nil)
	}
	if !models.ManagedRole(role) {
		return apperrors.ErrUnknownRole
	}
	return s.SetRoles(ctx, targetID, []string{role})
}

// GetUserRoles returns the managed roles the user currently holds
func (s *RoleService) GetUserRoles(ctx context.Context, targetID int64) ([]string, error) {
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	all, err := s.groups.GetUserGroups(ctx, targetID)
	if err != nil {
		return nil, err
	}

	managed := make([]string, 0, len(all))
	for _, name := range all {
		if models.ManagedRole(name) {
			managed = append(managed, name)
		}
	}

	return managed, nil
}
