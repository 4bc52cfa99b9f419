package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/colegiosys/colegio-api/internal/models"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByDNI(ctx context.Context, dni, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type userSchoolRepository interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

// CreateUserRequest represents payload for creating accounts.
type CreateUserRequest struct {
	DNI      string          `json:"dni" validate:"required,min=8,max=12"`
	Email    string          `json:"email" validate:"required,email"`
	FullName string          `json:"nombre_completo" validate:"required"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"rol" validate:"required,oneof=SUPERADMIN ADMIN TEACHER TUTOR STUDENT GUARDIAN"`
	SchoolID string          `json:"colegio_id" validate:"required"`
	Phone    *string         `json:"telefono"`
	Active   bool            `json:"activo"`
}

// UpdateUserRequest is a partial update; nil fields keep their stored value.
type UpdateUserRequest struct {
	DNI      *string          `json:"dni" validate:"omitempty,min=8,max=12"`
	Email    *string          `json:"email" validate:"omitempty,email"`
	FullName *string          `json:"nombre_completo"`
	Role     *models.UserRole `json:"rol" validate:"omitempty,oneof=SUPERADMIN ADMIN TEACHER TUTOR STUDENT GUARDIAN"`
	Phone    *string          `json:"telefono"`
	Active   *bool            `json:"activo"`
}

// UserService handles account management workflows.
type UserService struct {
	repo      userRepository
	schools   userSchoolRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, schools userSchoolRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, schools: schools, validator: validate, logger: logger}
}

// List returns paginated accounts.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, pagination, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageErr(err, "failed to list users")
	}
	return users, pagination, nil
}

// Get returns an account by ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Usuario no encontrado")
		}
		return nil, storageErr(err, "failed to load user")
	}
	return user, nil
}

// checkUnique probes every declared-unique field, returning the first
// conflict with its field-specific message.
func (s *UserService) checkUnique(ctx context.Context, dni, email, excludeID string) error {
	exists, err := s.repo.ExistsByDNI(ctx, dni, excludeID)
	if err != nil {
		return storageErr(err, "failed to check dni uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Ya existe un usuario con ese DNI")
	}

	exists, err = s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return storageErr(err, "failed to check email uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Ya existe un usuario con ese correo")
	}
	return nil
}

// Create adds a new account.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest, actorID string) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.DNI = strings.TrimSpace(req.DNI)

	if err := s.checkUnique(ctx, req.DNI, req.Email, ""); err != nil {
		return nil, err
	}

	if _, err := s.schools.FindByID(ctx, req.SchoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownParent, "El colegio indicado no existe")
		}
		return nil, storageErr(err, "failed to check school")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		DNI:          req.DNI,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Role:         req.Role,
		Active:       req.Active,
		Phone:        req.Phone,
		SchoolID:     req.SchoolID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, storageErr(err, "failed to create user")
	}

	s.audit(ctx, actorID, models.AuditActionCreate, user.ID, map[string]interface{}{"dni": user.DNI})
	return user, nil
}

// Update applies a partial update, re-running uniqueness checks excluding
// self so an unchanged value never reads as a conflict.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest, actorID string) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Usuario no encontrado")
		}
		return nil, storageErr(err, "failed to load user")
	}

	if req.DNI != nil {
		user.DNI = strings.TrimSpace(*req.DNI)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := s.checkUnique(ctx, user.DNI, user.Email, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storageErr(err, "failed to update user")
	}

	s.audit(ctx, actorID, models.AuditActionUpdate, user.ID, map[string]interface{}{"dni": user.DNI})
	return user, nil
}

// Delete removes an account permanently. The actor may never delete itself.
func (s *UserService) Delete(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return appErrors.Clone(appErrors.ErrCannotDeleteSelf, "")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Usuario no encontrado")
		}
		return storageErr(err, "failed to load user")
	}

	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return storageErr(err, "failed to delete user")
	}

	s.audit(ctx, actorID, models.AuditActionDelete, user.ID, map[string]interface{}{"dni": user.DNI})
	return nil
}

func (s *UserService) audit(ctx context.Context, actorID, action, resourceID string, detail map[string]interface{}) {
	body, _ := json.Marshal(detail)
	log := &models.AuditLog{
		Action:     action,
		Resource:   "usuarios",
		ResourceID: &resourceID,
		Detail:     body,
	}
	if actorID != "" {
		log.UserID = &actorID
	}
	if err := s.repo.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record audit log", zap.Error(err))
	}
}
