package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type identityRoleRepository interface {
	FindRole(ctx context.Context, userID string) (models.UserRole, error)
}

type identityPermissionRepository interface {
	ListByAdmin(ctx context.Context, adminUserID string) ([]models.MenuItem, error)
}

type identityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Identity is a user's resolved role and, for scoped admins, menu grants.
type Identity struct {
	UserID      string            `json:"user_id"`
	Role        models.UserRole   `json:"role"`
	Permissions []models.MenuItem `json:"permissions"`
}

// HasMenu reports whether the identity may use the menu item. Super admins
// hold every grant implicitly; students hold none.
func (i Identity) HasMenu(item models.MenuItem) bool {
	switch i.Role {
	case models.RoleSuperAdmin:
		return true
	case models.RoleAdmin:
		for _, granted := range i.Permissions {
			if granted == item {
				return true
			}
		}
		return false
	case models.RoleStudent:
		return false
	default:
		return false
	}
}

// IdentityService resolves accounts to roles and permission sets, caching
// the result so authorization checks do not hit the database per request.
type IdentityService struct {
	roles       identityRoleRepository
	permissions identityPermissionRepository
	cache       identityCache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(roles identityRoleRepository, permissions identityPermissionRepository, cache identityCache, cacheTTL time.Duration, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &IdentityService{roles: roles, permissions: permissions, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func identityCacheKey(userID string) string {
	return "identity:" + userID
}

// Resolve returns the user's identity. A missing role row resolves to the
// student role so a half-provisioned account degrades to the least
// privileged experience instead of an error.
func (s *IdentityService) Resolve(ctx context.Context, userID string) (Identity, error) {
	if s.cache != nil {
		var cached Identity
		if err := s.cache.Get(ctx, identityCacheKey(userID), &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("identity cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	identity := Identity{UserID: userID, Role: models.RoleStudent}

	role, err := s.roles.FindRole(ctx, userID)
	switch {
	case err == nil:
		identity.Role = role
	case errors.Is(err, sql.ErrNoRows):
		// fall through with the student default
	default:
		return Identity{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role")
	}

	if identity.Role == models.RoleAdmin {
		grants, err := s.permissions.ListByAdmin(ctx, userID)
		if err != nil {
			return Identity{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve permissions")
		}
		identity.Permissions = grants
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, identityCacheKey(userID), identity, s.cacheTTL); err != nil {
			s.logger.Warn("identity cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return identity, nil
}

// Invalidate drops the cached identity, forcing the next resolution to read
// the database. Called when grants or roles change.
func (s *IdentityService) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, identityCacheKey(userID)); err != nil {
		s.logger.Warn("identity cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
