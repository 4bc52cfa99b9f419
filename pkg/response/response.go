package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/colegiosys/colegio-api/internal/models"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
)

// JSON sends a success envelope. The payload travels under the given entity
// key ("usuario", "niveles", ...) so clients keep their existing bindings.
func JSON(c *gin.Context, status int, key string, payload interface{}, pagination *models.Pagination) {
	c.Header("Cache-Control", "no-store")
	body := gin.H{"success": true}
	if key != "" {
		body[key] = payload
	}
	if pagination != nil {
		body["pagination"] = pagination
	}
	c.JSON(status, body)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, key string, payload interface{}) {
	JSON(c, http.StatusOK, key, payload, nil)
}

// Created responds with HTTP 201.
func Created(c *gin.Context, key string, payload interface{}) {
	JSON(c, http.StatusCreated, key, payload, nil)
}

// Message responds with a bare success message and no payload.
func Message(c *gin.Context, status int, message string) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, gin.H{"success": true, "message": message})
}

// Error sends a failure envelope derived from the typed error.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	body := gin.H{"success": false, "message": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	c.JSON(appErr.Status, body)
}
