package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colegiosys/colegio-api/internal/models"
)

const userColumns = "id, dni, email, password_hash, nombre_completo, rol, activo, telefono, avatar_url, colegio_id, ultimo_acceso, created_at, updated_at"

// UserRepository handles persistence for accounts.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new repository instance.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// List returns accounts matching the filter plus pagination metadata.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	q := newListQuery("usuarios", userColumns, "created_at",
		[]string{"dni", "email", "nombre_completo", "rol", "created_at", "updated_at"}).
		searchable("dni", "email", "nombre_completo").
		paginate(filter.ListParams)

	if filter.Role != nil {
		q.equals("rol", string(*filter.Role))
	}
	if filter.Active != nil {
		q.equals("activo", *filter.Active)
	}
	if filter.SchoolID != "" {
		q.equals("colegio_id", filter.SchoolID)
	}

	var users []models.User
	pagination, err := runList(ctx, r.store, q, &users)
	if err != nil {
		return nil, nil, err
	}
	return users, pagination, nil
}

// FindByID returns an account by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE id = $1 LIMIT 1", userColumns)
	var user models.User
	if err := r.store.Get(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns an account by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE LOWER(email) = LOWER($1) LIMIT 1", userColumns)
	var user models.User
	if err := r.store.Get(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByDNI checks uniqueness of the national-ID string.
func (r *UserRepository) ExistsByDNI(ctx context.Context, dni, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "usuarios", excludeID, match("dni", dni))
}

// ExistsByEmail checks uniqueness of the email address.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return existsWhere(ctx, r.store, "usuarios", excludeID, matchFold("email", email))
}

// Create persists a new account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `INSERT INTO usuarios (id, dni, email, password_hash, nombre_completo, rol, activo, telefono, avatar_url, colegio_id, created_at, updated_at)
		VALUES (:id, :dni, :email, :password_hash, :nombre_completo, :rol, :activo, :telefono, :avatar_url, :colegio_id, :created_at, :updated_at)`
	if _, err := r.store.NamedExec(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update modifies an account.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE usuarios SET dni = :dni, email = :email, nombre_completo = :nombre_completo, rol = :rol, activo = :activo, telefono = :telefono, avatar_url = :avatar_url, updated_at = :updated_at WHERE id = :id`
	if _, err := r.store.NamedExec(ctx, query, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if _, err := r.store.Exec(ctx, `UPDATE usuarios SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the last successful authentication.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if _, err := r.store.Exec(ctx, `UPDATE usuarios SET ultimo_acceso = $2 WHERE id = $1`, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// Delete removes the account row permanently.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CreateAuditLog appends an audit trail entry.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO auditoria (id, usuario_id, accion, recurso, recurso_id, detalle, ip, user_agent, created_at)
		VALUES (:id, :usuario_id, :accion, :recurso, :recurso_id, :detalle, :ip, :user_agent, :created_at)`
	if _, err := r.store.NamedExec(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
