package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/colegiosys/colegio-api/internal/models"
)

func performRBAC(t *testing.T, handler gin.HandlerFunc, claims *models.JWTClaims, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.GET("/recurso/:id", func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
	}, handler, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRBACAllowsListedRole(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}
	w := performRBAC(t, AdminOnly(), claims, "/recurso/otro")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRBACRejectsUnlistedRole(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}
	w := performRBAC(t, AdminOnly(), claims, "/recurso/otro")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestRBACSelfEscapeMatchesOwnID(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}
	w := performRBAC(t, RBAC("SUPERADMIN", "ADMIN", SelfRole), claims, "/recurso/u1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRBACSelfEscapeRejectsOtherID(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}
	w := performRBAC(t, RBAC("SUPERADMIN", "ADMIN", SelfRole), claims, "/recurso/u2")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRBACMissingClaims(t *testing.T) {
	w := performRBAC(t, AnyUser(), nil, "/recurso/u1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffUpAllowsTutor(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleTutor}
	w := performRBAC(t, StaffUp(), claims, "/recurso/u1")
	assert.Equal(t, http.StatusOK, w.Code)
}
