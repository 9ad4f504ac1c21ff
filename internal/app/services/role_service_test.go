package services

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
)

type fakeGroupStore struct {
	nextID      int64
	groups      map[string]int64
	memberships map[int64]map[int64]bool
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{
		nextID:      1,
		groups:      make(map[string]int64),
		memberships: make(map[int64]map[int64]bool),
	}
}

func (f *fakeGroupStore) GetOrCreate(_ context.Context, name string) (int64, error) {
	if id, ok := f.groups[name]; ok {
		return id, nil
	}
	id := f.nextID
	f.nextID++
	f.groups[name] = id
	return id, nil
}

func (f *fakeGroupStore) GetUserGroups(_ context.Context, userID int64) ([]string, error) {
	var out []string
	for name, groupID := range f.groups {
		if f.memberships[userID][groupID] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeGroupStore) AddUserToGroup(_ context.Context, userID, groupID int64) error {
	if f.memberships[userID] == nil {
		f.memberships[userID] = make(map[int64]bool)
	}
	f.memberships[userID][groupID] = true
	return nil
}

func (f *fakeGroupStore) RemoveUserFromGroups(_ context.Context, userID int64, names []string) error {
	for _, name := range names {
		if groupID, ok := f.groups[name]; ok {
			delete(f.memberships[userID], groupID)
		}
	}
	return nil
}

type fakeRoleUserStore struct {
	users map[int64]*models.User
}

func (f *fakeRoleUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRoleUserStore) ListWithStats(_ context.Context, _ string, _ uint64, _ int) ([]models.UserWithStats, error) {
	var out []models.UserWithStats
	for _, user := range f.users {
		out = append(out, models.UserWithStats{User: *user})
	}
	return out, nil
}

func (f *fakeRoleUserStore) CountUsers(_ context.Context, _ string) (int64, error) {
	return int64(len(f.users)), nil
}

func roleFixture() (*RoleService, *fakeGroupStore) {
	groups := newFakeGroupStore()
	users := &fakeRoleUserStore{users: map[int64]*models.User{
		1: {ID: 1, Username: "ayse"},
		2: {ID: 2, Username: "mehmet"},
	}}
	return NewRoleService(groups, users), groups
}

func TestSetRolesReplacesManagedSet(t *testing.T) {
	svc, _ := roleFixture()
	ctx := context.Background()

	require.NoError(t, svc.SetRoles(ctx, 1, []string{models.RoleApprovedPublisher}))
	roles, err := svc.GetUserRoles(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleApprovedPublisher}, roles)

	// A second call with a different set replaces, not appends
	require.NoError(t, svc.SetRoles(ctx, 1, []string{models.RoleClubAdmin}))
	roles, err = svc.GetUserRoles(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleClubAdmin}, roles)

	// Both roles at once
	require.NoError(t, svc.SetRoles(ctx, 1, models.ManagedRoles))
	roles, err = svc.GetUserRoles(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	// Empty set clears everything managed
	require.NoError(t, svc.SetRoles(ctx, 1, nil))
	roles, err = svc.GetUserRoles(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestSetRolesLeavesUnmanagedGroupsAlone(t *testing.T) {
	svc, groups := roleFixture()
	ctx := context.Background()

	// Membership in a group outside the managed set
	bookClubID, err := groups.GetOrCreate(ctx, "book_club")
	require.NoError(t, err)
	require.NoError(t, groups.AddUserToGroup(ctx, 1, bookClubID))

	require.NoError(t, svc.SetRoles(ctx, 1, nil))

	all, err := groups.GetUserGroups(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"book_club"}, all)
}

func TestSetRolesValidation(t *testing.T) {
	svc, _ := roleFixture()
	ctx := context.Background()

	err := svc.SetRoles(ctx, 1, []string{"superuser"})
	assert.ErrorIs(t, err, apperrors.ErrUnknownRole)

	err = svc.SetRoles(ctx, 999, []string{models.RoleClubAdmin})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestSetRolesIdempotent(t *testing.T) {
	svc, _ := roleFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.SetRoles(ctx, 2, []string{models.RoleClubAdmin}))
	}

	roles, err := svc.GetUserRoles(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleClubAdmin}, roles)
}

func TestAssignRole(t *testing.T) {
	svc, _ := roleFixture()
	ctx := context.Background()

	require.NoError(t, svc.AssignRole(ctx, 1, models.RoleApprovedPublisher))
	roles, err := svc.GetUserRoles(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleApprovedPublisher}, roles)

	// Assigning another role swaps it
	require.NoError(t, svc.AssignRole(ctx, 1, models.RoleClubAdmin))
	roles, err = svc.GetUserRoles(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleClubAdmin}, roles)

	// Empty role clears
	require.NoError(t, svc.AssignRole(ctx, 1, ""))
	roles, err = svc.GetUserRoles(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, roles)

	assert.ErrorIs(t, svc.AssignRole(ctx, 1, "moderator"), apperrors.ErrUnknownRole)
}

func TestListUsers(t *testing.T) {
	svc, _ := roleFixture()

	users, total, err := svc.ListUsers(context.Background(), "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)
}
