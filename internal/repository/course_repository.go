package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colegiosys/colegio-api/internal/models"
)

const courseColumns = "id, nivel_id, nombre, abreviatura, activo, created_at, updated_at"

// CourseRepository handles persistence for courses.
type CourseRepository struct {
	store *Store
}

// NewCourseRepository creates a new repository instance.
func NewCourseRepository(store *Store) *CourseRepository {
	return &CourseRepository{store: store}
}

// List returns courses matching the filter plus pagination metadata.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	q := newListQuery("cursos", courseColumns, "nombre",
		[]string{"nombre", "abreviatura", "created_at", "updated_at"}).
		searchable("nombre", "abreviatura").
		paginate(filter.ListParams)

	if filter.LevelID != "" {
		q.equals("nivel_id", filter.LevelID)
	}
	if filter.Active != nil {
		q.equals("activo", *filter.Active)
	}

	var courses []models.Course
	pagination, err := runList(ctx, r.store, q, &courses)
	if err != nil {
		return nil, nil, err
	}
	return courses, pagination, nil
}

// FindByID returns a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM cursos WHERE id = $1 LIMIT 1", courseColumns)
	var course models.Course
	if err := r.store.Get(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ExistsByAbbreviation checks global uniqueness of the abbreviation.
func (r *CourseRepository) ExistsByAbbreviation(ctx context.Context, abbreviation, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "cursos", excludeID, matchFold("abreviatura", abbreviation))
}

// ExistsByNameInLevel checks uniqueness of the name scoped to its level.
func (r *CourseRepository) ExistsByNameInLevel(ctx context.Context, name, levelID, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "cursos", excludeID,
		matchFold("nombre", name),
		match("nivel_id", levelID),
	)
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `INSERT INTO cursos (id, nivel_id, nombre, abreviatura, activo, created_at, updated_at)
		VALUES (:id, :nivel_id, :nombre, :abreviatura, :activo, :created_at, :updated_at)`
	if _, err := r.store.NamedExec(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE cursos SET nivel_id = :nivel_id, nombre = :nombre, abreviatura = :abreviatura, activo = :activo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.store.NamedExec(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Deactivate marks a course inactive.
func (r *CourseRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `UPDATE cursos SET activo = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate course: %w", err)
	}
	return nil
}
