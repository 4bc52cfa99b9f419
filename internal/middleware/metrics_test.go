package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/colegiosys/colegio-api/internal/service"
)

func newMetricsRouter(svc *service.MetricsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(svc))
	r.GET("/colegios/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(svc.Handler()))
	return r
}

func scrape(r *gin.Engine) string {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return w.Body.String()
}

func TestMetricsObservesRouteTemplate(t *testing.T) {
	svc := service.NewMetricsService()
	r := newMetricsRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/colegios/c1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	body := scrape(r)
	assert.Contains(t, body, `path="/colegios/:id"`)
	assert.NotContains(t, body, "/colegios/c1")
}

func TestMetricsCollapsesUnmatchedRoutes(t *testing.T) {
	svc := service.NewMetricsService()
	r := newMetricsRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ruta/secreta/123", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := scrape(r)
	assert.Contains(t, body, `path="unmatched"`)
	assert.NotContains(t, body, "ruta/secreta")
}

func TestMetricsSkipsScrapeEndpoint(t *testing.T) {
	svc := service.NewMetricsService()
	r := newMetricsRouter(svc)

	scrape(r)
	body := scrape(r)
	assert.NotContains(t, body, `path="/metrics"`)
}
