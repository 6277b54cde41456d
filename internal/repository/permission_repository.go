package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

// PermissionRepository manages menu grants for scoped admins.
type PermissionRepository struct {
	db *sqlx.DB
}

// NewPermissionRepository constructs a PermissionRepository.
func NewPermissionRepository(db *sqlx.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// ListByAdmin returns the menu items granted to one admin.
func (r *PermissionRepository) ListByAdmin(ctx context.Context, adminUserID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.SelectContext(ctx, &items, "SELECT menu_item FROM admin_permissions WHERE admin_user_id = $1 ORDER BY menu_item", adminUserID); err != nil {
		return nil, fmt.Errorf("list admin permissions: %w", err)
	}
	return items, nil
}

// ListByAdmins returns grants for a set of admins keyed by admin id.
func (r *PermissionRepository) ListByAdmins(ctx context.Context, adminUserIDs []string) (map[string][]models.MenuItem, error) {
	grants := make(map[string][]models.MenuItem, len(adminUserIDs))
	if len(adminUserIDs) == 0 {
		return grants, nil
	}

	query, args, err := sqlx.In("SELECT id, admin_user_id, menu_item FROM admin_permissions WHERE admin_user_id IN (?) ORDER BY menu_item", adminUserIDs)
	if err != nil {
		return nil, fmt.Errorf("build permissions query: %w", err)
	}
	var rows []models.AdminPermission
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list admin permissions: %w", err)
	}
	for _, row := range rows {
		grants[row.AdminUserID] = append(grants[row.AdminUserID], row.MenuItem)
	}
	return grants, nil
}

// ReplaceForAdmin atomically swaps an admin's grant set.
func (r *PermissionRepository) ReplaceForAdmin(ctx context.Context, adminUserID string, items []models.MenuItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace permissions: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM admin_permissions WHERE admin_user_id = $1", adminUserID); err != nil {
		return fmt.Errorf("clear admin permissions: %w", err)
	}

	const insertQuery = `INSERT INTO admin_permissions (id, admin_user_id, menu_item) VALUES ($1, $2, $3)`
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, insertQuery, uuid.NewString(), adminUserID, item); err != nil {
			return fmt.Errorf("insert admin permission: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace permissions: %w", err)
	}
	return nil
}
