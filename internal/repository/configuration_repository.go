package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colegiosys/colegio-api/internal/models"
)

// ConfigurationRepository handles the singleton settings row per school.
type ConfigurationRepository struct {
	store *Store
}

// NewConfigurationRepository creates a new repository instance.
func NewConfigurationRepository(store *Store) *ConfigurationRepository {
	return &ConfigurationRepository{store: store}
}

// FindBySchool returns the settings row of a school.
func (r *ConfigurationRepository) FindBySchool(ctx context.Context, schoolID string) (*models.Configuration, error) {
	const query = `SELECT id, colegio_id, matricula_abierta, posts_habilitados, notificaciones_habilitadas, updated_at FROM configuraciones WHERE colegio_id = $1 LIMIT 1`
	var cfg models.Configuration
	if err := r.store.Get(ctx, &cfg, query, schoolID); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert stores the settings row, creating it on first write.
func (r *ConfigurationRepository) Upsert(ctx context.Context, cfg *models.Configuration) error {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	cfg.UpdatedAt = time.Now().UTC()

	const query = `INSERT INTO configuraciones (id, colegio_id, matricula_abierta, posts_habilitados, notificaciones_habilitadas, updated_at)
		VALUES (:id, :colegio_id, :matricula_abierta, :posts_habilitados, :notificaciones_habilitadas, :updated_at)
		ON CONFLICT (colegio_id) DO UPDATE SET matricula_abierta = EXCLUDED.matricula_abierta, posts_habilitados = EXCLUDED.posts_habilitados, notificaciones_habilitadas = EXCLUDED.notificaciones_habilitadas, updated_at = EXCLUDED.updated_at`
	if _, err := r.store.NamedExec(ctx, query, cfg); err != nil {
		return fmt.Errorf("upsert configuration: %w", err)
	}
	return nil
}
