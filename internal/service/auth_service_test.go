package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/colegiosys/colegio-api/internal/models"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
)

type authRepoMock struct {
	userByEmail *models.User
	userByID    *models.User
	auditLogs   []*models.AuditLog
}

func (m *authRepoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *authRepoMock) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.userByID == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByID, nil
}

func (m *authRepoMock) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (m *authRepoMock) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return nil
}

func (m *authRepoMock) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

type denylistMock struct {
	revoked map[string]bool
	added   []string
}

func (m *denylistMock) Add(ctx context.Context, jti string, ttl time.Duration) error {
	m.added = append(m.added, jti)
	return nil
}

func (m *denylistMock) Contains(ctx context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}

func authTestUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "u1",
		DNI:          "12345678",
		Email:        "admin@colegio.edu",
		PasswordHash: string(hash),
		FullName:     "Admin",
		Role:         models.RoleAdmin,
		Active:       true,
	}
}

func newAuthService(repo *authRepoMock, denylist TokenDenylist, expiration time.Duration) *AuthService {
	return NewAuthService(repo, denylist, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: expiration,
		Issuer:     "colegio-api",
	})
}

func TestLoginSuccess(t *testing.T) {
	user := authTestUser(t, "secret123")
	repo := &authRepoMock{userByEmail: user, userByID: user}
	svc := newAuthService(repo, &denylistMock{}, time.Hour)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.Email, resp.User.Email)
	assert.Len(t, repo.auditLogs, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	user := authTestUser(t, "secret123")
	svc := newAuthService(&authRepoMock{userByEmail: user}, &denylistMock{}, time.Hour)

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "nope"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(&authRepoMock{}, &denylistMock{}, time.Hour)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nadie@colegio.edu", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	user := authTestUser(t, "secret123")
	user.Active = false
	svc := newAuthService(&authRepoMock{userByEmail: user}, &denylistMock{}, time.Hour)

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, "Cuenta desactivada", appErrors.FromError(err).Message)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	user := authTestUser(t, "secret123")
	repo := &authRepoMock{userByEmail: user, userByID: user}
	svc := newAuthService(repo, &denylistMock{}, time.Hour)

	token, err := svc.generateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestValidateTokenExpired(t *testing.T) {
	user := authTestUser(t, "secret123")
	repo := &authRepoMock{userByID: user}
	svc := newAuthService(repo, &denylistMock{}, -time.Minute)

	token, err := svc.generateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, "Token expirado", appErr.Message)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newAuthService(&authRepoMock{}, &denylistMock{}, time.Hour)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRevoked(t *testing.T) {
	user := authTestUser(t, "secret123")
	repo := &authRepoMock{userByID: user}
	denylist := &denylistMock{revoked: map[string]bool{}}
	svc := newAuthService(repo, denylist, time.Hour)

	token, err := svc.generateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))
	require.Len(t, denylist.added, 1)
	denylist.revoked[denylist.added[0]] = true

	_, err = svc.ValidateToken(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, "Token revocado", appErrors.FromError(err).Message)
}

func TestValidateTokenInactiveAccount(t *testing.T) {
	user := authTestUser(t, "secret123")
	svc := newAuthService(&authRepoMock{userByID: user}, &denylistMock{}, time.Hour)

	token, err := svc.generateAccessToken(user)
	require.NoError(t, err)

	user.Active = false
	_, err = svc.ValidateToken(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, "Cuenta desactivada", appErrors.FromError(err).Message)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	user := authTestUser(t, "secret123")
	svc := newAuthService(&authRepoMock{userByID: user}, &denylistMock{}, time.Hour)

	err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newsecret",
	})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}
