package auth

import (
	"context"
	"errors"
	"testing"

	appErrors "github.com/veerababu-g/budget-planner/errors"
	"github.com/stretchr/testify/require"
)

// Mocks
type MockStorage struct {
	users  map[string]User
	tokens map[string]RefreshToken
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		users:  make(map[string]User),
		tokens: make(map[string]RefreshToken),
	}
}

func (m *MockStorage) SaveUser(ctx context.Context, user User) error {
	m.users[user.Username] = user
	return nil
}

func (m *MockStorage) GetUserByUsername(ctx context.Context, username string) (User, error) {
	user, ok := m.users[username]
	if !ok {
		return User{}, appErrors.ErrNotFound
	}
	return user, nil
}

func (m *MockStorage) IsUserExists(ctx context.Context, username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

func (m *MockStorage) SaveRefreshToken(ctx context.Context, token RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *MockStorage) GetRefreshToken(ctx context.Context, token string) (RefreshToken, error) {
	record, ok := m.tokens[token]
	if !ok {
		return RefreshToken{}, appErrors.ErrNotFound
	}
	return record, nil
}

func (m *MockStorage) RevokeRefreshToken(ctx context.Context, token string) error {
	record, ok := m.tokens[token]
	if !ok {
		return appErrors.ErrNotFound
	}
	record.Revoked = true
	m.tokens[token] = record
	return nil
}

func newTestService() (*Service, *MockStorage) {
	store := NewMockStorage()
	return NewService(store, "access-secret", "refresh-secret"), store
}

func TestHashPassword(t *testing.T) {
	plain := "messi10"

	hash, err := HashPassword(plain)
	require.NoError(t, err)

	require.True(t, ComparePasswords(hash, plain))
	require.False(t, ComparePasswords(hash, "wrong-password"))
}

func TestRegisterAndLogin(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	tokens, err := service.Register(ctx, NewUser{Username: "john_doe", PasswordPlain: "messi10"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	// Username collision.
	_, err = service.Register(ctx, NewUser{Username: "john_doe", PasswordPlain: "other"})
	require.True(t, errors.Is(err, appErrors.ErrConflict))

	loginTokens, err := service.Login(ctx, Credentials{Username: "john_doe", PasswordPlain: "messi10"})
	require.NoError(t, err)
	require.NotEmpty(t, loginTokens.AccessToken)

	_, err = service.Login(ctx, Credentials{Username: "john_doe", PasswordPlain: "wrong"})
	require.True(t, errors.Is(err, appErrors.ErrAuth))
}

func TestRegisterValidation(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name  string
		input NewUser
	}{
		{name: "Fail - empty username", input: NewUser{Username: "", PasswordPlain: "messi10"}},
		{name: "Fail - illegal characters", input: NewUser{Username: "John Doe!", PasswordPlain: "messi10"}},
		{name: "Fail - empty password", input: NewUser{Username: "john_doe", PasswordPlain: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(ctx, tt.input)
			require.True(t, errors.Is(err, appErrors.ErrInvalidInput))
		})
	}
}

func TestVerifyAccess(t *testing.T) {
	service, store := newTestService()
	ctx := context.Background()

	tokens, err := service.Register(ctx, NewUser{Username: "john_doe", PasswordPlain: "messi10"})
	require.NoError(t, err)

	userId, err := service.VerifyAccess(tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, store.users["john_doe"].ID, userId)

	// Refresh tokens are not access tokens.
	_, err = service.VerifyAccess(tokens.RefreshToken)
	require.True(t, errors.Is(err, appErrors.ErrAuth))

	_, err = service.VerifyAccess("garbage.token.value")
	require.True(t, errors.Is(err, appErrors.ErrAuth))
}

func TestRefreshFlow(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	tokens, err := service.Register(ctx, NewUser{Username: "john_doe", PasswordPlain: "messi10"})
	require.NoError(t, err)

	access, err := service.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)

	userId, err := service.VerifyAccess(access)
	require.NoError(t, err)
	require.NotEmpty(t, userId)

	// Once logged out, the refresh token is dead.
	require.NoError(t, service.Logout(ctx, tokens.RefreshToken))
	_, err = service.Refresh(ctx, tokens.RefreshToken)
	require.True(t, errors.Is(err, appErrors.ErrAuth))
}

func TestRefreshUnknownToken(t *testing.T) {
	service, _ := newTestService()
	otherService, _ := newTestService()
	ctx := context.Background()

	// A refresh token signed for another store is unknown here even
	// though its signature verifies.
	tokens, err := otherService.Register(ctx, NewUser{Username: "john_doe", PasswordPlain: "messi10"})
	require.NoError(t, err)

	_, err = service.Refresh(ctx, tokens.RefreshToken)
	require.True(t, errors.Is(err, appErrors.ErrAuth))
}
