package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colegiosys/colegio-api/internal/models"
)

const schoolYearColumns = "id, anio, activo, created_at, updated_at"

// SchoolYearRepository handles persistence for school years.
type SchoolYearRepository struct {
	store *Store
}

// NewSchoolYearRepository creates a new repository instance.
func NewSchoolYearRepository(store *Store) *SchoolYearRepository {
	return &SchoolYearRepository{store: store}
}

// List returns school years matching the filter plus pagination metadata.
func (r *SchoolYearRepository) List(ctx context.Context, filter models.SchoolYearFilter) ([]models.SchoolYear, *models.Pagination, error) {
	q := newListQuery("anios_escolares", schoolYearColumns, "anio",
		[]string{"anio", "created_at"}).
		paginate(filter.ListParams)

	if filter.Active != nil {
		q.equals("activo", *filter.Active)
	}

	var years []models.SchoolYear
	pagination, err := runList(ctx, r.store, q, &years)
	if err != nil {
		return nil, nil, err
	}
	return years, pagination, nil
}

// FindByID returns a school year by id.
func (r *SchoolYearRepository) FindByID(ctx context.Context, id string) (*models.SchoolYear, error) {
	query := fmt.Sprintf("SELECT %s FROM anios_escolares WHERE id = $1 LIMIT 1", schoolYearColumns)
	var year models.SchoolYear
	if err := r.store.Get(ctx, &year, query, id); err != nil {
		return nil, err
	}
	return &year, nil
}

// FindActive returns the single active year.
func (r *SchoolYearRepository) FindActive(ctx context.Context) (*models.SchoolYear, error) {
	query := fmt.Sprintf("SELECT %s FROM anios_escolares WHERE activo = TRUE LIMIT 1", schoolYearColumns)
	var year models.SchoolYear
	if err := r.store.Get(ctx, &year, query); err != nil {
		return nil, err
	}
	return &year, nil
}

// ExistsByYear checks uniqueness of the year number.
func (r *SchoolYearRepository) ExistsByYear(ctx context.Context, year int, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "anios_escolares", excludeID, match("anio", year))
}

// Create persists a new school year.
func (r *SchoolYearRepository) Create(ctx context.Context, year *models.SchoolYear) error {
	if year.ID == "" {
		year.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	year.CreatedAt = now
	year.UpdatedAt = now

	const query = `INSERT INTO anios_escolares (id, anio, activo, created_at, updated_at)
		VALUES (:id, :anio, :activo, :created_at, :updated_at)`
	if _, err := r.store.NamedExec(ctx, query, year); err != nil {
		return fmt.Errorf("create school year: %w", err)
	}
	return nil
}

// SetActive marks the given year active and deactivates the rest inside one
// transaction, so two active years never coexist.
func (r *SchoolYearRepository) SetActive(ctx context.Context, id string) error {
	tx, err := r.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set active tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	if _, err = tx.ExecContext(ctx, `UPDATE anios_escolares SET activo = FALSE, updated_at = $1 WHERE activo = TRUE AND id <> $2`, now, id); err != nil {
		return fmt.Errorf("deactivate other years: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE anios_escolares SET activo = TRUE, updated_at = $2 WHERE id = $1`, id, now); err != nil {
		return fmt.Errorf("activate year: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit set active tx: %w", err)
	}
	return nil
}

// Delete removes a school year permanently.
func (r *SchoolYearRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `DELETE FROM anios_escolares WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete school year: %w", err)
	}
	return nil
}

// CountGrades returns the number of grades referencing the year.
func (r *SchoolYearRepository) CountGrades(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.store.Get(ctx, &count, `SELECT COUNT(*) FROM grados WHERE anio_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count year grades: %w", err)
	}
	return count, nil
}
