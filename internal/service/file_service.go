package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/colegiosys/colegio-api/internal/models"
	"github.com/colegiosys/colegio-api/pkg/config"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
	"github.com/colegiosys/colegio-api/pkg/storage"
)

type fileRepository interface {
	List(ctx context.Context, filter models.FileFilter) ([]models.StoredFile, *models.Pagination, error)
	FindByID(ctx context.Context, id string) (*models.StoredFile, error)
	Create(ctx context.Context, file *models.StoredFile) error
	Delete(ctx context.Context, id string) error
}

// UploadRequest describes an incoming file before it is accepted.
type UploadRequest struct {
	Name      string
	Folder    string
	MIMEType  string
	SizeBytes int64
	Data      io.Reader
}

// FileService validates and stores uploaded files. Extension, MIME type and
// size are checked before any byte reaches the object store.
type FileService struct {
	repo   fileRepository
	store  storage.ObjectStore
	cfg    config.UploadsConfig
	logger *zap.Logger
}

// NewFileService creates a new file service instance.
func NewFileService(repo fileRepository, store storage.ObjectStore, cfg config.UploadsConfig, logger *zap.Logger) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileService{repo: repo, store: store, cfg: cfg, logger: logger}
}

// List returns paginated file records.
func (s *FileService) List(ctx context.Context, filter models.FileFilter) ([]models.StoredFile, *models.Pagination, error) {
	files, pagination, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageErr(err, "failed to list files")
	}
	return files, pagination, nil
}

func (s *FileService) checkUpload(req UploadRequest) error {
	if req.Name == "" || req.Data == nil {
		return appErrors.Clone(appErrors.ErrValidation, "El archivo es requerido")
	}
	if req.SizeBytes > s.cfg.MaxFileSizeBytes {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("El archivo supera el tamaño máximo de %d bytes", s.cfg.MaxFileSizeBytes))
	}

	ext := strings.ToLower(filepath.Ext(req.Name))
	allowed := false
	for _, e := range s.cfg.AllowedExtensions {
		if ext == strings.ToLower(e) {
			allowed = true
			break
		}
	}
	if !allowed {
		return appErrors.Clone(appErrors.ErrValidation, "Tipo de archivo no permitido")
	}

	for _, m := range s.cfg.AllowedMIMEs {
		if strings.EqualFold(req.MIMEType, m) {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, "Tipo de archivo no permitido")
}

// Upload validates and persists a file, recording its metadata.
func (s *FileService) Upload(ctx context.Context, actorID string, req UploadRequest) (*models.StoredFile, error) {
	if err := s.checkUpload(req); err != nil {
		return nil, err
	}

	location, err := s.store.Store(ctx, req.Data, req.Folder, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	file := &models.StoredFile{
		UploaderID: actorID,
		Name:       req.Name,
		Folder:     req.Folder,
		Location:   location,
		MIMEType:   req.MIMEType,
		SizeBytes:  req.SizeBytes,
	}
	if err := s.repo.Create(ctx, file); err != nil {
		if delErr := s.store.Delete(ctx, location); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("location", location), zap.Error(delErr))
		}
		return nil, storageErr(err, "failed to record file")
	}
	return file, nil
}

// Open returns a file's metadata and a reader over its content. The caller
// must close the reader.
func (s *FileService) Open(ctx context.Context, id string) (*models.StoredFile, io.ReadCloser, error) {
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "Archivo no encontrado")
		}
		return nil, nil, storageErr(err, "failed to load file")
	}

	rc, err := s.store.Open(ctx, file.Location)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	return file, rc, nil
}

// Delete removes a file record and its stored content. Only the uploader or
// an administrator may delete it.
func (s *FileService) Delete(ctx context.Context, id, actorID string, role models.UserRole) error {
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Archivo no encontrado")
		}
		return storageErr(err, "failed to load file")
	}

	if file.UploaderID != actorID && role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return appErrors.Clone(appErrors.ErrOwnership, "El archivo no le pertenece")
	}

	if err := s.repo.Delete(ctx, file.ID); err != nil {
		return storageErr(err, "failed to delete file")
	}
	if err := s.store.Delete(ctx, file.Location); err != nil {
		s.logger.Warn("failed to remove stored content", zap.String("location", file.Location), zap.Error(err))
	}
	return nil
}
