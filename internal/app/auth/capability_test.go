package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
)

func TestRoleLabelPrecedence(t *testing.T) {
	tests := []struct {
		name string
		caps models.Capabilities
		want string
	}{
		{"superuser outranks everything", models.Capabilities{IsSuperuser: true, IsStaff: true, Roles: map[string]bool{models.RoleClubAdmin: true}}, "Süper Admin"},
		{"staff outranks publisher roles", models.Capabilities{IsStaff: true, Roles: map[string]bool{models.RoleApprovedPublisher: true}}, "Admin"},
		{"approved publisher outranks club admin", models.Capabilities{Roles: map[string]bool{models.RoleApprovedPublisher: true, models.RoleClubAdmin: true}}, "Onaylı Yayıncı"},
		{"club admin", models.Capabilities{Roles: map[string]bool{models.RoleClubAdmin: true}}, "Kulüp Yöneticisi"},
		{"plain user", models.Capabilities{UserID: 1}, "Kullanıcı"},
		{"anonymous", models.Capabilities{}, "Kullanıcı"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleLabel(tt.caps))
		})
	}
}

type fakeCapabilityStore struct {
	caps map[int64]*models.Capabilities
}

func (f *fakeCapabilityStore) GetCapabilities(_ context.Context, userID int64) (*models.Capabilities, error) {
	caps, ok := f.caps[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return caps, nil
}

func TestCapabilityServiceIsStaff(t *testing.T) {
	svc := NewCapabilityService(&fakeCapabilityStore{caps: map[int64]*models.Capabilities{
		1: {UserID: 1, IsStaff: true},
		2: {UserID: 2, IsSuperuser: true},
		3: {UserID: 3, Roles: map[string]bool{models.RoleClubAdmin: true}},
	}})
	ctx := context.Background()

	staff, err := svc.IsStaff(ctx, 1)
	require.NoError(t, err)
	assert.True(t, staff)

	staff, err = svc.IsStaff(ctx, 2)
	require.NoError(t, err)
	assert.True(t, staff)

	staff, err = svc.IsStaff(ctx, 3)
	require.NoError(t, err)
	assert.False(t, staff)

	_, err = svc.IsStaff(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
