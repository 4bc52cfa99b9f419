package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colegiosys/colegio-api/internal/models"
)

const fileColumns = "id, usuario_id, nombre, carpeta, ubicacion, mime_type, tamano_bytes, created_at"

// FileRepository handles metadata rows for uploaded files.
type FileRepository struct {
	store *Store
}

// NewFileRepository creates a new repository instance.
func NewFileRepository(store *Store) *FileRepository {
	return &FileRepository{store: store}
}

// List returns stored files matching the filter plus pagination metadata.
func (r *FileRepository) List(ctx context.Context, filter models.FileFilter) ([]models.StoredFile, *models.Pagination, error) {
	q := newListQuery("archivos", fileColumns, "created_at",
		[]string{"nombre", "tamano_bytes", "created_at"}).
		searchable("nombre").
		paginate(filter.ListParams)

	if filter.UploaderID != "" {
		q.equals("usuario_id", filter.UploaderID)
	}
	if filter.Folder != "" {
		q.equals("carpeta", filter.Folder)
	}

	var files []models.StoredFile
	pagination, err := runList(ctx, r.store, q, &files)
	if err != nil {
		return nil, nil, err
	}
	return files, pagination, nil
}

// FindByID returns a stored file by id.
func (r *FileRepository) FindByID(ctx context.Context, id string) (*models.StoredFile, error) {
	query := fmt.Sprintf("SELECT %s FROM archivos WHERE id = $1 LIMIT 1", fileColumns)
	var file models.StoredFile
	if err := r.store.Get(ctx, &file, query, id); err != nil {
		return nil, err
	}
	return &file, nil
}

// Create persists a new file metadata row.
func (r *FileRepository) Create(ctx context.Context, file *models.StoredFile) error {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	file.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO archivos (id, usuario_id, nombre, carpeta, ubicacion, mime_type, tamano_bytes, created_at)
		VALUES (:id, :usuario_id, :nombre, :carpeta, :ubicacion, :mime_type, :tamano_bytes, :created_at)`
	if _, err := r.store.NamedExec(ctx, query, file); err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

// Delete removes a file metadata row.
func (r *FileRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `DELETE FROM archivos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
