package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colegiosys/colegio-api/internal/models"
)

const levelColumns = "id, codigo, nombre, grado_minimo, grado_maximo, nota_minima, nota_maxima, nota_aprobatoria, activo, created_at, updated_at"

// LevelRepository handles persistence for educational levels.
type LevelRepository struct {
	store *Store
}

// NewLevelRepository creates a new repository instance.
func NewLevelRepository(store *Store) *LevelRepository {
	return &LevelRepository{store: store}
}

// List returns levels matching the filter plus pagination metadata.
func (r *LevelRepository) List(ctx context.Context, filter models.LevelFilter) ([]models.Level, *models.Pagination, error) {
	q := newListQuery("niveles", levelColumns, "nombre",
		[]string{"codigo", "nombre", "created_at", "updated_at"}).
		searchable("codigo", "nombre").
		paginate(filter.ListParams)

	if filter.Active != nil {
		q.equals("activo", *filter.Active)
	}

	var levels []models.Level
	pagination, err := runList(ctx, r.store, q, &levels)
	if err != nil {
		return nil, nil, err
	}
	return levels, pagination, nil
}

// FindByID returns a level by id.
func (r *LevelRepository) FindByID(ctx context.Context, id string) (*models.Level, error) {
	query := fmt.Sprintf("SELECT %s FROM niveles WHERE id = $1 LIMIT 1", levelColumns)
	var level models.Level
	if err := r.store.Get(ctx, &level, query, id); err != nil {
		return nil, err
	}
	return &level, nil
}

// ExistsByCode checks uniqueness of the level code.
func (r *LevelRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "niveles", excludeID, matchFold("codigo", code))
}

// ExistsByName checks uniqueness of the level name.
func (r *LevelRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "niveles", excludeID, matchFold("nombre", name))
}

// Create persists a new level.
func (r *LevelRepository) Create(ctx context.Context, level *models.Level) error {
	if level.ID == "" {
		level.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	level.CreatedAt = now
	level.UpdatedAt = now

	const query = `INSERT INTO niveles (id, codigo, nombre, grado_minimo, grado_maximo, nota_minima, nota_maxima, nota_aprobatoria, activo, created_at, updated_at)
		VALUES (:id, :codigo, :nombre, :grado_minimo, :grado_maximo, :nota_minima, :nota_maxima, :nota_aprobatoria, :activo, :created_at, :updated_at)`
	if _, err := r.store.NamedExec(ctx, query, level); err != nil {
		return fmt.Errorf("create level: %w", err)
	}
	return nil
}

// Update modifies a level.
func (r *LevelRepository) Update(ctx context.Context, level *models.Level) error {
	level.UpdatedAt = time.Now().UTC()
	const query = `UPDATE niveles SET codigo = :codigo, nombre = :nombre, grado_minimo = :grado_minimo, grado_maximo = :grado_maximo, nota_minima = :nota_minima, nota_maxima = :nota_maxima, nota_aprobatoria = :nota_aprobatoria, activo = :activo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.store.NamedExec(ctx, query, level); err != nil {
		return fmt.Errorf("update level: %w", err)
	}
	return nil
}

// Deactivate marks a level inactive.
func (r *LevelRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `UPDATE niveles SET activo = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate level: %w", err)
	}
	return nil
}

// CountGrades returns the number of grades owned by the level.
func (r *LevelRepository) CountGrades(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.store.Get(ctx, &count, `SELECT COUNT(*) FROM grados WHERE nivel_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count level grades: %w", err)
	}
	return count, nil
}
