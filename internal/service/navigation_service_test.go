package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

type fixedIdentityResolver struct {
	identity Identity
	err      error
}

func (f *fixedIdentityResolver) Resolve(ctx context.Context, userID string) (Identity, error) {
	if f.err != nil {
		return Identity{}, f.err
	}
	return f.identity, nil
}

func sectionIDs(sections []models.Section) []models.MenuItem {
	ids := make([]models.MenuItem, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestMenuStudentGetsFixedList(t *testing.T) {
	svc := NewNavigationService(&fixedIdentityResolver{identity: Identity{UserID: "u1", Role: models.RoleStudent}}, nil)

	menu, err := svc.Menu(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, menu, len(models.StudentSections)+1)
	assert.Equal(t, models.StudentSections[0].ID, menu[0].ID)
	assert.Equal(t, models.LogoutSection.ID, menu[len(menu)-1].ID)
}

func TestMenuScopedAdminSeesOnlyGrantsInCatalogOrder(t *testing.T) {
	svc := NewNavigationService(&fixedIdentityResolver{identity: Identity{
		UserID: "a1",
		Role:   models.RoleAdmin,
		// deliberately out of catalog order
		Permissions: []models.MenuItem{models.MenuPayments, models.MenuRegistrations},
	}}, nil)

	menu, err := svc.Menu(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, []models.MenuItem{models.MenuRegistrations, models.MenuPayments, "logout"}, sectionIDs(menu))
}

func TestMenuAdminWithoutGrantsGetsLogoutOnly(t *testing.T) {
	svc := NewNavigationService(&fixedIdentityResolver{identity: Identity{UserID: "a1", Role: models.RoleAdmin}}, nil)

	menu, err := svc.Menu(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, []models.MenuItem{"logout"}, sectionIDs(menu))
}

func TestMenuSuperAdminSeesEverything(t *testing.T) {
	svc := NewNavigationService(&fixedIdentityResolver{identity: Identity{UserID: "sa", Role: models.RoleSuperAdmin}}, nil)

	menu, err := svc.Menu(context.Background(), "sa")
	require.NoError(t, err)
	require.Len(t, menu, len(models.AdminSectionCatalog)+2)
	assert.Equal(t, models.MenuManageAdmins, menu[len(menu)-2].ID)
	assert.Equal(t, models.LogoutSection.ID, menu[len(menu)-1].ID)
}

func TestMenuUnknownRoleGetsLogoutOnly(t *testing.T) {
	svc := NewNavigationService(&fixedIdentityResolver{identity: Identity{UserID: "x", Role: "registrar"}}, nil)

	menu, err := svc.Menu(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []models.MenuItem{"logout"}, sectionIDs(menu))
}
