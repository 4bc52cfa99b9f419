package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/colegiosys/colegio-api/internal/middleware"
	"github.com/colegiosys/colegio-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// parseListParams reads the shared pagination and sorting query parameters.
func parseListParams(c *gin.Context) models.ListParams {
	var params models.ListParams
	params.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil {
		params.Limit = limit
	}
	params.SortBy = c.Query("sort")
	params.SortOrder = c.Query("order")
	return params
}

// parseBoolQuery returns a pointer only when the parameter is present and
// parses cleanly, so absent filters stay inactive.
func parseBoolQuery(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
