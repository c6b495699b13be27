package auth

import (
	"context"

	"github.com/universitas/manuales-backend/internal/domain"
)

// ListUsers returns the admin projection of every row.
func (s *Service) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	return s.users.ListAll(ctx)
}

// SetUserRole changes the tier of a user. The target must exist; the role
// must be one of the known tiers.
func (s *Service) SetUserRole(ctx context.Context, email, role string) error {
	if !domain.IsValidRole(role) {
		return domain.ErrInvalidRole(role)
	}
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return err
	}
	return s.users.UpdateRole(ctx, email, role)
}
