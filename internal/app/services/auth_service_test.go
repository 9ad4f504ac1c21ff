package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
	pkgauth "github.com/emre/uninews/internal/pkg/auth"
)

type fakeAuthUserStore struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeAuthUserStore() *fakeAuthUserStore {
	return &fakeAuthUserStore{nextID: 1, users: make(map[int64]*models.User)}
}

func (f *fakeAuthUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperrors.ErrUsernameAlreadyTaken
		}
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeAuthUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeAuthUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeAuthUserStore) UpdateLastLogin(_ context.Context, id int64) error {
	if user, ok := f.users[id]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

type fakeTokenStore struct {
	tokens  map[string]int64
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]int64), revoked: make(map[string]bool)}
}

func (f *fakeTokenStore) CreateToken(_ context.Context, token string, userID int64, _ time.Time) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenStore) GetTokenByValue(_ context.Context, token string) (int64, time.Time, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return 0, time.Time{}, apperrors.ErrTokenNotFound
	}
	if f.revoked[token] {
		return 0, time.Time{}, apperrors.ErrTokenRevoked
	}
	return userID, time.Now().Add(time.Hour), nil
}

func (f *fakeTokenStore) RevokeToken(_ context.Context, token string) error {
	if _, ok := f.tokens[token]; !ok {
		return apperrors.ErrTokenNotFound
	}
	f.revoked[token] = true
	return nil
}

func (f *fakeTokenStore) RevokeAllUserTokens(_ context.Context, userID int64) error {
	for token, owner := range f.tokens {
		if owner == userID {
			f.revoked[token] = true
		}
	}
	return nil
}

type fakeAffiliationStore struct {
	attached map[int64][2]*int64
}

func (f *fakeAffiliationStore) GetOrCreateUniversity(_ context.Context, name, _ string) (*models.University, error) {
	return &models.University{ID: 1, Name: name}, nil
}

func (f *fakeAffiliationStore) GetOrCreateDepartment(_ context.Context, universityID int64, name, _ string) (*models.Department, error) {
	return &models.Department{ID: 2, UniversityID: universityID, Name: name}, nil
}

func (f *fakeAffiliationStore) SetProfileAffiliation(_ context.Context, userID int64, universityID, departmentID *int64) error {
	if f.attached == nil {
		f.attached = make(map[int64][2]*int64)
	}
	f.attached[userID] = [2]*int64{universityID, departmentID}
	return nil
}

func authFixture() (*AuthService, *fakeAuthUserStore, *fakeTokenStore, *fakeAffiliationStore) {
	users := newFakeAuthUserStore()
	tokens := newFakeTokenStore()
	affiliation := &fakeAffiliationStore{}
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	return NewAuthService(users, tokens, affiliation, jwtService), users, tokens, affiliation
}

func TestRegister(t *testing.T) {
	svc, users, tokens, affiliation := authFixture()
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "ayse.yilmaz", "Ayse@Example.com", "s3cretpass", "İTÜ", "Bilgisayar")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ayse@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.NotEqual(t, "s3cretpass", users.users[user.ID].Password)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Contains(t, tokens.tokens, pair.RefreshToken)

	// Affiliation was attached
	require.Contains(t, affiliation.attached, user.ID)
	assert.NotNil(t, affiliation.attached[user.ID][0])
	assert.NotNil(t, affiliation.attached[user.ID][1])
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _ := authFixture()
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"bad username", "has spaces!", "a@b.com", "longenough"},
		{"bad email", "validname", "not-an-email", "longenough"},
		{"short password", "validname", "a@b.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.username, tt.email, tt.password, "", "")
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _, _ := authFixture()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "ayse", "ayse@example.com", "s3cretpass", "", "")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "ayse", "other@example.com", "s3cretpass", "", "")
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyTaken)
}

func TestLogin(t *testing.T) {
	svc, users, _, _ := authFixture()
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "mehmet", "mehmet@example.com", "s3cretpass", "", "")
	require.NoError(t, err)

	t.Run("success stamps last login", func(t *testing.T) {
		user, pair, err := svc.Login(ctx, "mehmet", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotNil(t, users.users[user.ID].LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "mehmet", "wrongpass")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown user maps to invalid credentials", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody", "whatever")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		users.users[registered.ID].IsActive = false
		defer func() { users.users[registered.ID].IsActive = true }()

		_, _, err := svc.Login(ctx, "mehmet", "s3cretpass")
		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, tokens, _ := authFixture()
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, "ayse", "ayse@example.com", "s3cretpass", "", "")
	require.NoError(t, err)

	_, newPair, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)
	assert.True(t, tokens.revoked[pair.RefreshToken])

	// The old token cannot be replayed
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestLogoutRevokesEverything(t *testing.T) {
	svc, _, tokens, _ := authFixture()
	ctx := context.Background()

	user, first, err := svc.Register(ctx, "ayse", "ayse@example.com", "s3cretpass", "", "")
	require.NoError(t, err)
	_, second, err := svc.Login(ctx, "ayse", "s3cretpass")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID))
	assert.True(t, tokens.revoked[first.RefreshToken])
	assert.True(t, tokens.revoked[second.RefreshToken])
}
