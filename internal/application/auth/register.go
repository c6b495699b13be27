package auth

import (
	"context"

	"github.com/universitas/manuales-backend/internal/domain"
)

type RegisterResult struct {
	// ProfileToken authorizes the client to fill in profile fields before
	// the first login, and nothing else.
	ProfileToken string
}

// Register creates an unverified row and mails an activation link. The email
// stays reclaimable: an unverified row whose activation window has passed is
// deleted and replaced rather than blocking the address forever.
func (s *Service) Register(ctx context.Context, email, password string, profile domain.Profile) (RegisterResult, error) {
	if email == "" || password == "" {
		return RegisterResult{}, domain.ErrInvalidField("email/password", "empty")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Activated() || !existing.ResetTokenExpired(s.now()) {
			return RegisterResult{}, domain.ErrEmailAlreadyExists()
		}
		// Stale unverified row: reclaim the email.
		if err := s.users.Delete(ctx, email); err != nil {
			return RegisterResult{}, err
		}
	case domain.Is(err, "user_not_found"):
		// fresh registration
	default:
		return RegisterResult{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return RegisterResult{}, domain.ErrHashFailed(err)
	}

	raw, err := s.tokens.Opaque()
	if err != nil {
		return RegisterResult{}, domain.ErrRandomFailed(err)
	}

	u := domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		Phone:        profile.Phone,
		Institution:  profile.Institution,
		Role:         domain.RoleFree,
		// Only the hash is persisted; the raw token travels by email.
		ResetToken:       s.tokens.Hash(raw),
		ResetTokenExpiry: s.expiryStamp(s.activationTTL),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return RegisterResult{}, err
	}

	if err := s.mail.SendActivationEmail(ctx, email, profile.FirstName, s.activationLink(raw)); err != nil {
		return RegisterResult{}, domain.ErrMailFailed(err)
	}

	profileToken, err := s.signer.SignScoped(email, PurposeProfileCompletion, s.profileTTL)
	if err != nil {
		return RegisterResult{}, err
	}

	return RegisterResult{ProfileToken: profileToken}, nil
}
