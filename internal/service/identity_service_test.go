package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type fakeRoleRepo struct {
	roles     map[string]models.UserRole
	findCalls int
}

func (f *fakeRoleRepo) FindRole(ctx context.Context, userID string) (models.UserRole, error) {
	f.findCalls++
	if role, ok := f.roles[userID]; ok {
		return role, nil
	}
	return "", sql.ErrNoRows
}

type fakePermissionRepo struct {
	grants map[string][]models.MenuItem
}

func (f *fakePermissionRepo) ListByAdmin(ctx context.Context, adminUserID string) ([]models.MenuItem, error) {
	return f.grants[adminUserID], nil
}

type memoryCache struct {
	entries map[string]Identity
	deleted []string
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if entry, ok := m.entries[key]; ok {
		*(dest.(*Identity)) = entry
		return nil
	}
	return appErrors.ErrCacheMiss
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string]Identity)
	}
	m.entries[key] = value.(Identity)
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		m.deleted = append(m.deleted, key)
		delete(m.entries, key)
	}
	return nil
}

func TestIdentityResolveMissingRoleDefaultsToStudent(t *testing.T) {
	svc := NewIdentityService(&fakeRoleRepo{}, &fakePermissionRepo{}, nil, time.Minute, nil)

	identity, err := svc.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, identity.Role)
	assert.Empty(t, identity.Permissions)
}

func TestIdentityResolveAdminLoadsGrantsAndCaches(t *testing.T) {
	roles := &fakeRoleRepo{roles: map[string]models.UserRole{"a1": models.RoleAdmin}}
	perms := &fakePermissionRepo{grants: map[string][]models.MenuItem{"a1": {models.MenuResults}}}
	cache := &memoryCache{}
	svc := NewIdentityService(roles, perms, cache, time.Minute, nil)

	first, err := svc.Resolve(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, []models.MenuItem{models.MenuResults}, first.Permissions)

	second, err := svc.Resolve(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, roles.findCalls, "second resolve should hit the cache")
}

func TestIdentityInvalidateForcesReload(t *testing.T) {
	roles := &fakeRoleRepo{roles: map[string]models.UserRole{"a1": models.RoleAdmin}}
	perms := &fakePermissionRepo{grants: map[string][]models.MenuItem{"a1": {models.MenuResults}}}
	cache := &memoryCache{}
	svc := NewIdentityService(roles, perms, cache, time.Minute, nil)

	_, err := svc.Resolve(context.Background(), "a1")
	require.NoError(t, err)

	perms.grants["a1"] = []models.MenuItem{models.MenuResults, models.MenuCourses}
	svc.Invalidate(context.Background(), "a1")

	reloaded, err := svc.Resolve(context.Background(), "a1")
	require.NoError(t, err)
	assert.Len(t, reloaded.Permissions, 2)
	assert.Equal(t, 2, roles.findCalls)
}

func TestIdentityHasMenu(t *testing.T) {
	super := Identity{Role: models.RoleSuperAdmin}
	assert.True(t, super.HasMenu(models.MenuManageAdmins))

	admin := Identity{Role: models.RoleAdmin, Permissions: []models.MenuItem{models.MenuPayments}}
	assert.True(t, admin.HasMenu(models.MenuPayments))
	assert.False(t, admin.HasMenu(models.MenuResults))

	student := Identity{Role: models.RoleStudent}
	assert.False(t, student.HasMenu(models.MenuDashboard))
}
