package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/colegiosys/colegio-api/internal/models"
	"github.com/colegiosys/colegio-api/internal/service"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
	"github.com/colegiosys/colegio-api/pkg/response"
)

// AreaHandler exposes curricular-area endpoints.
type AreaHandler struct {
	areas *service.AreaService
}

// NewAreaHandler constructs AreaHandler.
func NewAreaHandler(areas *service.AreaService) *AreaHandler {
	return &AreaHandler{areas: areas}
}

// List returns paginated areas.
func (h *AreaHandler) List(c *gin.Context) {
	var filter models.CatalogFilter
	filter.ListParams = parseListParams(c)
	filter.Active = parseBoolQuery(c, "activo")

	areas, pagination, err := h.areas.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "areas", areas, pagination)
}

// Get returns one area.
func (h *AreaHandler) Get(c *gin.Context) {
	area, err := h.areas.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "area", area)
}

// Create registers an area.
func (h *AreaHandler) Create(c *gin.Context) {
	var req service.AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Datos inválidos"))
		return
	}

	area, err := h.areas.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "area", area)
}

// Update applies a partial update to an area.
func (h *AreaHandler) Update(c *gin.Context) {
	var req service.UpdateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Datos inválidos"))
		return
	}

	area, err := h.areas.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "area", area)
}

// Delete soft-deletes an area.
func (h *AreaHandler) Delete(c *gin.Context) {
	if err := h.areas.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Área desactivada")
}

// TurnHandler exposes school-shift endpoints.
type TurnHandler struct {
	turns *service.TurnService
}

// NewTurnHandler constructs TurnHandler.
func NewTurnHandler(turns *service.TurnService) *TurnHandler {
	return &TurnHandler{turns: turns}
}

// List returns paginated shifts.
func (h *TurnHandler) List(c *gin.Context) {
	var filter models.CatalogFilter
	filter.ListParams = parseListParams(c)
	filter.Active = parseBoolQuery(c, "activo")

	turns, pagination, err := h.turns.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "turnos", turns, pagination)
}

// Get returns one shift.
func (h *TurnHandler) Get(c *gin.Context) {
	turn, err := h.turns.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "turno", turn)
}

// Create registers a shift.
func (h *TurnHandler) Create(c *gin.Context) {
	var req service.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Datos inválidos"))
		return
	}

	turn, err := h.turns.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "turno", turn)
}

// Update applies a partial update to a shift.
func (h *TurnHandler) Update(c *gin.Context) {
	var req service.UpdateTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Datos inválidos"))
		return
	}

	turn, err := h.turns.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "turno", turn)
}

// Delete soft-deletes a shift.
func (h *TurnHandler) Delete(c *gin.Context) {
	if err := h.turns.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Turno desactivado")
}
