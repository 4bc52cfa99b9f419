package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colegiosys/colegio-api/internal/models"
)

const schoolColumns = "id, codigo, nombre, email, direccion, color_primario, color_secundario, logo_url, activo, created_at, updated_at"

// SchoolRepository handles persistence for schools.
type SchoolRepository struct {
	store *Store
}

// NewSchoolRepository creates a new repository instance.
func NewSchoolRepository(store *Store) *SchoolRepository {
	return &SchoolRepository{store: store}
}

// List returns schools matching the filter plus pagination metadata.
func (r *SchoolRepository) List(ctx context.Context, filter models.SchoolFilter) ([]models.School, *models.Pagination, error) {
	q := newListQuery("colegios", schoolColumns, "nombre",
		[]string{"codigo", "nombre", "email", "created_at", "updated_at"}).
		searchable("codigo", "nombre", "email").
		paginate(filter.ListParams)

	if filter.Active != nil {
		q.equals("activo", *filter.Active)
	}

	var schools []models.School
	pagination, err := runList(ctx, r.store, q, &schools)
	if err != nil {
		return nil, nil, err
	}
	return schools, pagination, nil
}

// FindByID returns a school by id.
func (r *SchoolRepository) FindByID(ctx context.Context, id string) (*models.School, error) {
	query := fmt.Sprintf("SELECT %s FROM colegios WHERE id = $1 LIMIT 1", schoolColumns)
	var school models.School
	if err := r.store.Get(ctx, &school, query, id); err != nil {
		return nil, err
	}
	return &school, nil
}

// ExistsByCode checks uniqueness of the school code.
func (r *SchoolRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "colegios", excludeID, matchFold("codigo", code))
}

// ExistsByEmail checks uniqueness of the school email.
func (r *SchoolRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "colegios", excludeID, matchFold("email", email))
}

// Create persists a new school.
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	if school.ID == "" {
		school.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	school.CreatedAt = now
	school.UpdatedAt = now

	const query = `INSERT INTO colegios (id, codigo, nombre, email, direccion, color_primario, color_secundario, logo_url, activo, created_at, updated_at)
		VALUES (:id, :codigo, :nombre, :email, :direccion, :color_primario, :color_secundario, :logo_url, :activo, :created_at, :updated_at)`
	if _, err := r.store.NamedExec(ctx, query, school); err != nil {
		return fmt.Errorf("create school: %w", err)
	}
	return nil
}

// Update modifies a school.
func (r *SchoolRepository) Update(ctx context.Context, school *models.School) error {
	school.UpdatedAt = time.Now().UTC()
	const query = `UPDATE colegios SET codigo = :codigo, nombre = :nombre, email = :email, direccion = :direccion, color_primario = :color_primario, color_secundario = :color_secundario, logo_url = :logo_url, activo = :activo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.store.NamedExec(ctx, query, school); err != nil {
		return fmt.Errorf("update school: %w", err)
	}
	return nil
}

// Deactivate marks a school inactive. Schools are never hard-deleted.
func (r *SchoolRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `UPDATE colegios SET activo = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate school: %w", err)
	}
	return nil
}

// CountUsers returns the number of active accounts referencing the school.
func (r *SchoolRepository) CountUsers(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.store.Get(ctx, &count, `SELECT COUNT(*) FROM usuarios WHERE colegio_id = $1 AND activo = TRUE`, id); err != nil {
		return 0, fmt.Errorf("count school users: %w", err)
	}
	return count, nil
}
