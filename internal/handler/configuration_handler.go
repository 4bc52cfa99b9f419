package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/colegiosys/colegio-api/internal/service"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
	"github.com/colegiosys/colegio-api/pkg/response"
)

// ConfigurationHandler exposes per-school settings endpoints.
type ConfigurationHandler struct {
	configurations *service.ConfigurationService
}

// NewConfigurationHandler constructs ConfigurationHandler.
func NewConfigurationHandler(configurations *service.ConfigurationService) *ConfigurationHandler {
	return &ConfigurationHandler{configurations: configurations}
}

// Get returns the settings for a school.
func (h *ConfigurationHandler) Get(c *gin.Context) {
	cfg, err := h.configurations.Get(c.Request.Context(), c.Param("colegioId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "configuracion", cfg)
}

// Update merges the given flags into the school settings.
func (h *ConfigurationHandler) Update(c *gin.Context) {
	var req service.UpdateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Datos inválidos"))
		return
	}

	cfg, err := h.configurations.Update(c.Request.Context(), c.Param("colegioId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "configuracion", cfg)
}
