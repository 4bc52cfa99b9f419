package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colegiosys/colegio-api/internal/models"
	"github.com/colegiosys/colegio-api/internal/service"
)

const jwtTestSecret = "clave-de-prueba"

type authUserRepoStub struct {
	user *models.User
}

func (s *authUserRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, sql.ErrNoRows
	}
	return s.user, nil
}

func (s *authUserRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.user, nil
}

func (s *authUserRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (s *authUserRepoStub) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return nil
}

func (s *authUserRepoStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return nil
}

func newJWTAuthService(user *models.User) *service.AuthService {
	return service.NewAuthService(&authUserRepoStub{user: user}, nil, nil, nil, service.AuthConfig{
		Secret:     jwtTestSecret,
		Expiration: time.Hour,
		Issuer:     "colegio-api",
	})
}

func signTestToken(t *testing.T, user *models.User) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtTestSecret))
	require.NoError(t, err)
	return token
}

func performOptionalJWT(t *testing.T, auth *service.AuthService, header string) (*httptest.ResponseRecorder, *models.JWTClaims) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var seen *models.JWTClaims
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.GET("/publico", OptionalJWT(auth), func(c *gin.Context) {
		if raw, ok := c.Get(ContextUserKey); ok {
			seen = raw.(*models.JWTClaims)
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/publico", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w, seen
}

func TestOptionalJWTPassesWithoutHeader(t *testing.T) {
	w, seen := performOptionalJWT(t, newJWTAuthService(nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, seen)
}

func TestOptionalJWTPassesOnGarbageToken(t *testing.T) {
	w, seen := performOptionalJWT(t, newJWTAuthService(nil), "Bearer no-es-un-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, seen)
}

func TestOptionalJWTAttachesValidClaims(t *testing.T) {
	user := &models.User{ID: "u1", Email: "ana@colegio.edu", Role: models.RoleAdmin, Active: true}
	w, seen := performOptionalJWT(t, newJWTAuthService(user), "Bearer "+signTestToken(t, user))
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.UserID)
	assert.Equal(t, models.RoleAdmin, seen.Role)
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.GET("/privado", JWT(newJWTAuthService(nil)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/privado", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
