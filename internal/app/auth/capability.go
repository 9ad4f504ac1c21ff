package auth

import (
	"context"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/logger"
)

// CapabilityStore resolves the live capability set of a user
type CapabilityStore interface {
	GetCapabilities(ctx context.Context, userID int64) (*models.Capabilities, error)
}

// CapabilityService answers authorization questions from the live store.
// Tokens never carry capabilities, so every check reads current state.
type CapabilityService struct {
	store CapabilityStore
}

// NewCapabilityService creates a new CapabilityService
func NewCapabilityService(store CapabilityStore) *CapabilityService {
	return &CapabilityService{store: store}
}

// Resolve loads the caller's capability set
func (s *CapabilityService) Resolve(ctx context.Context, userID int64) (*models.Capabilities, error) {
	caps, err := s.store.GetCapabilities(ctx, userID)
	if err != nil {
		logger.Debug().Err(err).Int64("userID", userID).Msg("Capability resolution failed")
		return nil, err
	}
	return caps, nil
}

// IsStaff reports whether the user moderates content
func (s *CapabilityService) IsStaff(ctx context.Context, userID int64) (bool, error) {
	caps, err := s.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return caps.IsStaff || caps.IsSuperuser, nil
}

// roleLabelRule pairs a capability predicate with its display label
type roleLabelRule struct {
	matches func(models.Capabilities) bool
	label   string
}

// Label precedence, highest first. The first matching rule wins.
var roleLabelRules = []roleLabelRule{
	{func(c models.Capabilities) bool { return c.IsSuperuser }, "Süper Admin"},
	{func(c models.Capabilities) bool { return c.IsStaff }, "Admin"},
	{func(c models.Capabilities) bool { return c.HasRole(models.RoleApprovedPublisher) }, "Onaylı Yayıncı"},
	{func(c models.Capabilities) bool { return c.HasRole(models.RoleClubAdmin) }, "Kulüp Yöneticisi"},
}

// RoleLabel maps a capability set to its single display label
func RoleLabel(caps models.Capabilities) string {
	for _, rule := range roleLabelRules {
		if rule.matches(caps) {
			return rule.label
		}
	}
	return "Kullanıcı"
}
