package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/colegiosys/colegio-api/internal/models"
	"github.com/colegiosys/colegio-api/internal/service"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
	"github.com/colegiosys/colegio-api/pkg/response"
)

// SchoolYearHandler exposes academic-year endpoints.
type SchoolYearHandler struct {
	years *service.SchoolYearService
}

// NewSchoolYearHandler constructs SchoolYearHandler.
func NewSchoolYearHandler(years *service.SchoolYearService) *SchoolYearHandler {
	return &SchoolYearHandler{years: years}
}

// List returns paginated academic years.
func (h *SchoolYearHandler) List(c *gin.Context) {
	var filter models.SchoolYearFilter
	filter.ListParams = parseListParams(c)
	filter.Active = parseBoolQuery(c, "activo")

	years, pagination, err := h.years.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "anios", years, pagination)
}

// Get returns one academic year.
func (h *SchoolYearHandler) Get(c *gin.Context) {
	year, err := h.years.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "anio", year)
}

// GetActive returns the single active year.
func (h *SchoolYearHandler) GetActive(c *gin.Context) {
	year, err := h.years.GetActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "anio", year)
}

// Create opens an academic year.
func (h *SchoolYearHandler) Create(c *gin.Context) {
	var req service.CreateSchoolYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Datos inválidos"))
		return
	}

	year, err := h.years.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "anio", year)
}

// Activate makes the given year the active one.
func (h *SchoolYearHandler) Activate(c *gin.Context) {
	year, err := h.years.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "anio", year)
}

// Delete removes an inactive year without grades.
func (h *SchoolYearHandler) Delete(c *gin.Context) {
	if err := h.years.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Año escolar eliminado")
}
