package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/colegiosys/colegio-api/internal/models"
	"github.com/colegiosys/colegio-api/internal/service"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
	"github.com/colegiosys/colegio-api/pkg/response"
)

// UserHandler exposes account management endpoints.
type UserHandler struct {
	users   *service.UserService
	exports *service.ExportService
	metrics *service.MetricsService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *service.UserService, exports *service.ExportService, metrics *service.MetricsService) *UserHandler {
	return &UserHandler{users: users, exports: exports, metrics: metrics}
}

func (h *UserHandler) filterFromQuery(c *gin.Context) models.UserFilter {
	var filter models.UserFilter
	filter.ListParams = parseListParams(c)
	filter.SchoolID = c.Query("colegio")
	filter.Active = parseBoolQuery(c, "activo")
	if role := c.Query("rol"); role != "" {
		r := models.UserRole(role)
		filter.Role = &r
	}
	return filter
}

// List returns paginated accounts.
func (h *UserHandler) List(c *gin.Context) {
	users, pagination, err := h.users.List(c.Request.Context(), h.filterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "usuarios", users, pagination)
}

// Get returns one account.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "usuario", user)
}

// Create registers an account.
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Datos inválidos"))
		return
	}

	claims := claimsFromContext(c)
	actorID := ""
	if claims != nil {
		actorID = claims.UserID
	}

	user, err := h.users.Create(c.Request.Context(), req, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "usuario", user)
}

// Update applies a partial update to an account.
func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Datos inválidos"))
		return
	}

	claims := claimsFromContext(c)
	actorID := ""
	if claims != nil {
		actorID = claims.UserID
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "usuario", user)
}

// Delete removes an account permanently.
func (h *UserHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.users.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Usuario eliminado")
}

// Export streams the account roster in csv, pdf or xlsx format.
func (h *UserHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("formato", "csv")

	result, err := h.exports.Users(c.Request.Context(), h.filterFromQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.ObserveExport(format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
