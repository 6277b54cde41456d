package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type identityResolver interface {
	Resolve(ctx context.Context, userID string) (Identity, error)
}

// NavigationService builds the per-user menu.
type NavigationService struct {
	identities identityResolver
	logger     *zap.Logger
}

// NewNavigationService constructs a NavigationService.
func NewNavigationService(identities identityResolver, logger *zap.Logger) *NavigationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NavigationService{identities: identities, logger: logger}
}

// Menu returns the sections visible to the user. Students always get the
// full student list; admins get the catalog subset matching their grants in
// catalog order; super admins get everything plus admin management. Every
// menu ends with logout. Unknown roles get the logout-only menu.
func (s *NavigationService) Menu(ctx context.Context, userID string) ([]models.Section, error) {
	identity, err := s.identities.Resolve(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve identity")
	}

	var sections []models.Section
	switch identity.Role {
	case models.RoleStudent:
		sections = append(sections, models.StudentSections...)
	case models.RoleAdmin:
		for _, section := range models.AdminSectionCatalog {
			if identity.HasMenu(section.ID) {
				sections = append(sections, section)
			}
		}
	case models.RoleSuperAdmin:
		sections = append(sections, models.AdminSectionCatalog...)
		sections = append(sections, models.ManageAdminsSection)
	default:
		s.logger.Warn("unknown role in menu resolution", zap.String("user_id", userID), zap.String("role", string(identity.Role)))
	}

	return append(sections, models.LogoutSection), nil
}
