package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type adminUserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindRole(ctx context.Context, userID string) (models.UserRole, error)
	Create(ctx context.Context, user *models.User, role models.UserRole) error
	Delete(ctx context.Context, id string) error
	ListByRole(ctx context.Context, role models.UserRole) ([]string, error)
}

type adminPermissionRepository interface {
	ListByAdmins(ctx context.Context, adminUserIDs []string) (map[string][]models.MenuItem, error)
	ReplaceForAdmin(ctx context.Context, adminUserID string, items []models.MenuItem) error
}

type identityInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// CreateAdminRequest provisions a scoped admin with at least one grant.
type CreateAdminRequest struct {
	Email       string            `json:"email" validate:"required,email"`
	Password    string            `json:"password" validate:"required,min=8"`
	Permissions []models.MenuItem `json:"permissions" validate:"required,min=1"`
}

// UpdateAdminPermissionsRequest replaces an admin's grant set.
type UpdateAdminPermissionsRequest struct {
	Permissions []models.MenuItem `json:"permissions" validate:"required,min=1"`
}

// AdminAccount is a scoped admin with its resolved grants.
type AdminAccount struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Active      bool              `json:"active"`
	LastLogin   *time.Time        `json:"last_login,omitempty"`
	Permissions []models.MenuItem `json:"permissions"`
	CreatedAt   time.Time         `json:"created_at"`
}

// AdminService lets super admins manage scoped admin accounts.
type AdminService struct {
	users       adminUserRepository
	permissions adminPermissionRepository
	identities  identityInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAdminService constructs an AdminService.
func NewAdminService(users adminUserRepository, permissions adminPermissionRepository, identities identityInvalidator, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{users: users, permissions: permissions, identities: identities, validator: validate, logger: logger}
}

// Create provisions a scoped admin account with its grant set.
func (s *AdminService) Create(ctx context.Context, req CreateAdminRequest) (*AdminAccount, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}
	for _, item := range req.Permissions {
		if !models.ValidMenuItem(item) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown menu item: "+string(item))
		}
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{Email: req.Email, PasswordHash: string(hash), Active: true}
	if err := s.users.Create(ctx, user, models.RoleAdmin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin account")
	}

	if err := s.permissions.ReplaceForAdmin(ctx, user.ID, req.Permissions); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("failed to remove admin after grant failure", zap.String("user_id", user.ID), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store admin permissions")
	}

	s.logger.Info("admin created", zap.String("admin_id", user.ID), zap.Int("grants", len(req.Permissions)))
	return &AdminAccount{
		ID:          user.ID,
		Email:       user.Email,
		Active:      user.Active,
		Permissions: req.Permissions,
		CreatedAt:   user.CreatedAt,
	}, nil
}

// List returns every scoped admin with its grants.
func (s *AdminService) List(ctx context.Context) ([]AdminAccount, error) {
	ids, err := s.users.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admins")
	}

	grants, err := s.permissions.ListByAdmins(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin permissions")
	}

	accounts := make([]AdminAccount, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin account")
		}
		accounts = append(accounts, AdminAccount{
			ID:          user.ID,
			Email:       user.Email,
			Active:      user.Active,
			LastLogin:   user.LastLogin,
			Permissions: grants[id],
			CreatedAt:   user.CreatedAt,
		})
	}
	return accounts, nil
}

// UpdatePermissions replaces an admin's grant set and invalidates the cached
// identity so the change applies immediately.
func (s *AdminService) UpdatePermissions(ctx context.Context, adminID string, req UpdateAdminPermissionsRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid permissions payload")
	}
	for _, item := range req.Permissions {
		if !models.ValidMenuItem(item) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown menu item: "+string(item))
		}
	}

	role, err := s.users.FindRole(ctx, adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin role")
	}
	if role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrValidation, "account is not a scoped admin")
	}

	if err := s.permissions.ReplaceForAdmin(ctx, adminID, req.Permissions); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update admin permissions")
	}
	s.identities.Invalidate(ctx, adminID)
	return nil
}

// Delete removes a scoped admin account, its grants and sessions.
func (s *AdminService) Delete(ctx context.Context, adminID string) error {
	role, err := s.users.FindRole(ctx, adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin role")
	}
	if role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "only scoped admin accounts can be removed here")
	}

	if err := s.users.Delete(ctx, adminID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete admin")
	}
	s.identities.Invalidate(ctx, adminID)
	s.logger.Info("admin deleted", zap.String("admin_id", adminID))
	return nil
}
