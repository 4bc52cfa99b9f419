package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colegiosys/colegio-api/internal/models"
)

const gradeColumns = "id, nivel_id, anio_id, turno_id, grado, seccion, nombre, codigo, created_at, updated_at"

// GradeRepository handles persistence for class sections.
type GradeRepository struct {
	store *Store
}

// NewGradeRepository creates a new repository instance.
func NewGradeRepository(store *Store) *GradeRepository {
	return &GradeRepository{store: store}
}

// List returns grades matching the filter plus pagination metadata.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, *models.Pagination, error) {
	q := newListQuery("grados", gradeColumns, "nombre",
		[]string{"nombre", "codigo", "grado", "seccion", "created_at"}).
		searchable("nombre", "codigo").
		paginate(filter.ListParams)

	if filter.LevelID != "" {
		q.equals("nivel_id", filter.LevelID)
	}
	if filter.YearID != "" {
		q.equals("anio_id", filter.YearID)
	}
	if filter.TurnID != "" {
		q.equals("turno_id", filter.TurnID)
	}

	var grades []models.Grade
	pagination, err := runList(ctx, r.store, q, &grades)
	if err != nil {
		return nil, nil, err
	}
	return grades, pagination, nil
}

// FindByID returns a grade by id.
func (r *GradeRepository) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	query := fmt.Sprintf("SELECT %s FROM grados WHERE id = $1 LIMIT 1", gradeColumns)
	var grade models.Grade
	if err := r.store.Get(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// ExistsSection checks the composite uniqueness of (level, name, section,
// year). The scope columns are part of the probe, not a post-filter.
func (r *GradeRepository) ExistsSection(ctx context.Context, levelID, name, section, yearID, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "grados", excludeID,
		match("nivel_id", levelID),
		matchFold("nombre", name),
		matchFold("seccion", section),
		match("anio_id", yearID),
	)
}

// Create persists a new grade with its derived name and code.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	grade.CreatedAt = now
	grade.UpdatedAt = now

	const query = `INSERT INTO grados (id, nivel_id, anio_id, turno_id, grado, seccion, nombre, codigo, created_at, updated_at)
		VALUES (:id, :nivel_id, :anio_id, :turno_id, :grado, :seccion, :nombre, :codigo, :created_at, :updated_at)`
	if _, err := r.store.NamedExec(ctx, query, grade); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// Update modifies a grade, re-stamping the derived fields.
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	grade.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grados SET nivel_id = :nivel_id, anio_id = :anio_id, turno_id = :turno_id, grado = :grado, seccion = :seccion, nombre = :nombre, codigo = :codigo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.store.NamedExec(ctx, query, grade); err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	return nil
}

// Delete removes a grade permanently.
func (r *GradeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `DELETE FROM grados WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	return nil
}

// CountPosts returns the number of active posts targeting the grade.
func (r *GradeRepository) CountPosts(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.store.Get(ctx, &count, `SELECT COUNT(*) FROM posts WHERE grado_id = $1 AND activo = TRUE`, id); err != nil {
		return 0, fmt.Errorf("count grade posts: %w", err)
	}
	return count, nil
}
