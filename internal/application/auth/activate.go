package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/universitas/manuales-backend/internal/domain"
)

type ActivationOutcome int

const (
	ActivationCompleted ActivationOutcome = iota
	ActivationAlreadyDone
)

// ActivateAccount consumes an activation link. A non-empty ID is the
// canonical "activated" flag; it is assigned exactly once, here.
//
// Expired tokens are cleared as a side effect so the slot cannot be replayed
// later even if the account is never touched again.
func (s *Service) ActivateAccount(ctx context.Context, rawToken string) (ActivationOutcome, domain.User, error) {
	if rawToken == "" {
		return 0, domain.User{}, domain.ErrTokenInvalidOrExpired()
	}

	u, err := s.users.FindByResetToken(ctx, s.tokens.Hash(rawToken))
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return 0, domain.User{}, domain.ErrTokenInvalidOrExpired()
		}
		return 0, domain.User{}, err
	}

	if u.Activated() {
		return ActivationAlreadyDone, u, nil
	}

	if u.ResetTokenExpired(s.now()) {
		_ = s.users.ClearResetToken(ctx, u.Email)
		return 0, domain.User{}, domain.ErrTokenInvalidOrExpired()
	}

	id := uuid.NewString()
	if err := s.users.AssignID(ctx, u.Email, id); err != nil {
		return 0, domain.User{}, err
	}
	if err := s.users.ClearResetToken(ctx, u.Email); err != nil {
		return 0, domain.User{}, err
	}

	u.ID = id
	u.ResetToken = ""
	u.ResetTokenExpiry = ""
	return ActivationCompleted, u, nil
}
