package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colegiosys/colegio-api/internal/models"
)

const (
	areaColumns = "id, nombre, codigo, activo, created_at, updated_at"
	turnColumns = "id, nombre, abreviatura, hora_inicio, hora_fin, activo, created_at, updated_at"
)

// AreaRepository handles persistence for curricular areas.
type AreaRepository struct {
	store *Store
}

// NewAreaRepository creates a new repository instance.
func NewAreaRepository(store *Store) *AreaRepository {
	return &AreaRepository{store: store}
}

// List returns areas matching the filter plus pagination metadata.
func (r *AreaRepository) List(ctx context.Context, filter models.CatalogFilter) ([]models.Area, *models.Pagination, error) {
	q := newListQuery("areas", areaColumns, "nombre",
		[]string{"nombre", "codigo", "created_at"}).
		searchable("nombre", "codigo").
		paginate(filter.ListParams)

	if filter.Active != nil {
		q.equals("activo", *filter.Active)
	}

	var areas []models.Area
	pagination, err := runList(ctx, r.store, q, &areas)
	if err != nil {
		return nil, nil, err
	}
	return areas, pagination, nil
}

// FindByID returns an area by id.
func (r *AreaRepository) FindByID(ctx context.Context, id string) (*models.Area, error) {
	query := fmt.Sprintf("SELECT %s FROM areas WHERE id = $1 LIMIT 1", areaColumns)
	var area models.Area
	if err := r.store.Get(ctx, &area, query, id); err != nil {
		return nil, err
	}
	return &area, nil
}

// ExistsByName checks uniqueness of the area name.
func (r *AreaRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "areas", excludeID, matchFold("nombre", name))
}

// ExistsByCode checks uniqueness of the area code.
func (r *AreaRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "areas", excludeID, matchFold("codigo", code))
}

// Create persists a new area.
func (r *AreaRepository) Create(ctx context.Context, area *models.Area) error {
	if area.ID == "" {
		area.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	area.CreatedAt = now
	area.UpdatedAt = now

	const query = `INSERT INTO areas (id, nombre, codigo, activo, created_at, updated_at)
		VALUES (:id, :nombre, :codigo, :activo, :created_at, :updated_at)`
	if _, err := r.store.NamedExec(ctx, query, area); err != nil {
		return fmt.Errorf("create area: %w", err)
	}
	return nil
}

// Update modifies an area.
func (r *AreaRepository) Update(ctx context.Context, area *models.Area) error {
	area.UpdatedAt = time.Now().UTC()
	const query = `UPDATE areas SET nombre = :nombre, codigo = :codigo, activo = :activo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.store.NamedExec(ctx, query, area); err != nil {
		return fmt.Errorf("update area: %w", err)
	}
	return nil
}

// Deactivate marks an area inactive.
func (r *AreaRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `UPDATE areas SET activo = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate area: %w", err)
	}
	return nil
}

// TurnRepository handles persistence for school shifts.
type TurnRepository struct {
	store *Store
}

// NewTurnRepository creates a new repository instance.
func NewTurnRepository(store *Store) *TurnRepository {
	return &TurnRepository{store: store}
}

// List returns turns matching the filter plus pagination metadata.
func (r *TurnRepository) List(ctx context.Context, filter models.CatalogFilter) ([]models.Turn, *models.Pagination, error) {
	q := newListQuery("turnos", turnColumns, "nombre",
		[]string{"nombre", "abreviatura", "created_at"}).
		searchable("nombre", "abreviatura").
		paginate(filter.ListParams)

	if filter.Active != nil {
		q.equals("activo", *filter.Active)
	}

	var turns []models.Turn
	pagination, err := runList(ctx, r.store, q, &turns)
	if err != nil {
		return nil, nil, err
	}
	return turns, pagination, nil
}

// FindByID returns a turn by id.
func (r *TurnRepository) FindByID(ctx context.Context, id string) (*models.Turn, error) {
	query := fmt.Sprintf("SELECT %s FROM turnos WHERE id = $1 LIMIT 1", turnColumns)
	var turn models.Turn
	if err := r.store.Get(ctx, &turn, query, id); err != nil {
		return nil, err
	}
	return &turn, nil
}

// ExistsByName checks uniqueness of the turn name.
func (r *TurnRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "turnos", excludeID, matchFold("nombre", name))
}

// ExistsByAbbreviation checks uniqueness of the turn abbreviation.
func (r *TurnRepository) ExistsByAbbreviation(ctx context.Context, abbreviation, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "turnos", excludeID, matchFold("abreviatura", abbreviation))
}

// Create persists a new turn.
func (r *TurnRepository) Create(ctx context.Context, turn *models.Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	turn.CreatedAt = now
	turn.UpdatedAt = now

	const query = `INSERT INTO turnos (id, nombre, abreviatura, hora_inicio, hora_fin, activo, created_at, updated_at)
		VALUES (:id, :nombre, :abreviatura, :hora_inicio, :hora_fin, :activo, :created_at, :updated_at)`
	if _, err := r.store.NamedExec(ctx, query, turn); err != nil {
		return fmt.Errorf("create turn: %w", err)
	}
	return nil
}

// Update modifies a turn.
func (r *TurnRepository) Update(ctx context.Context, turn *models.Turn) error {
	turn.UpdatedAt = time.Now().UTC()
	const query = `UPDATE turnos SET nombre = :nombre, abreviatura = :abreviatura, hora_inicio = :hora_inicio, hora_fin = :hora_fin, activo = :activo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.store.NamedExec(ctx, query, turn); err != nil {
		return fmt.Errorf("update turn: %w", err)
	}
	return nil
}

// Deactivate marks a turn inactive.
func (r *TurnRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `UPDATE turnos SET activo = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate turn: %w", err)
	}
	return nil
}
