package auth

import (
	"context"

	"github.com/universitas/manuales-backend/internal/domain"
)

// GetProfile returns the sheet row behind a session, minus the secret slots.
func (s *Service) GetProfile(ctx context.Context, email string) (domain.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	u.PasswordHash = ""
	u.ResetToken = ""
	u.DeletionToken = ""
	return u, nil
}

// UpdateProfile overwrites the mutable profile fields of the caller's row.
func (s *Service) UpdateProfile(ctx context.Context, email string, p domain.Profile) error {
	return s.users.UpdateProfile(ctx, email, p)
}

// CompleteProfile fills in profile fields using the scoped token handed out
// at registration, before the account can log in.
func (s *Service) CompleteProfile(ctx context.Context, scopedToken string, p domain.Profile) error {
	email, err := s.signer.VerifyScoped(scopedToken, PurposeProfileCompletion)
	if err != nil {
		return err
	}
	return s.users.UpdateProfile(ctx, email, p)
}

// VerifyPassword re-checks the caller's password, used as a gate in front of
// sensitive settings screens.
func (s *Service) VerifyPassword(ctx context.Context, email, password string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return domain.ErrInvalidCredentials()
	}
	return nil
}

// ChangePassword swaps the caller's password after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, email, current, next string) error {
	if err := s.VerifyPassword(ctx, email, current); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return domain.ErrHashFailed(err)
	}
	return s.users.UpdatePasswordHash(ctx, email, hash)
}
