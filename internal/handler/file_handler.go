package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/colegiosys/colegio-api/internal/models"
	"github.com/colegiosys/colegio-api/internal/service"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
	"github.com/colegiosys/colegio-api/pkg/response"
)

// FileHandler exposes upload and download endpoints.
type FileHandler struct {
	files *service.FileService
}

// NewFileHandler constructs FileHandler.
func NewFileHandler(files *service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// List returns paginated file records.
func (h *FileHandler) List(c *gin.Context) {
	var filter models.FileFilter
	filter.ListParams = parseListParams(c)
	filter.UploaderID = c.Query("usuario")
	filter.Folder = c.Query("carpeta")

	files, pagination, err := h.files.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "archivos", files, pagination)
}

// Upload accepts a multipart file under the "archivo" field.
func (h *FileHandler) Upload(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	header, err := c.FormFile("archivo")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "El archivo es requerido"))
		return
	}

	src, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message))
		return
	}
	defer src.Close()

	file, err := h.files.Upload(c.Request.Context(), claims.UserID, service.UploadRequest{
		Name:      header.Filename,
		Folder:    c.DefaultPostForm("carpeta", "general"),
		MIMEType:  header.Header.Get("Content-Type"),
		SizeBytes: header.Size,
		Data:      src,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "archivo", file)
}

// Download streams a stored file.
func (h *FileHandler) Download(c *gin.Context) {
	file, rc, err := h.files.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Header("Content-Type", file.MIMEType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

// Delete removes a file record and its stored bytes.
func (h *FileHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.files.Delete(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Archivo eliminado")
}
