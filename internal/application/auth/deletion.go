package auth

import (
	"context"

	"github.com/universitas/manuales-backend/internal/domain"
)

// RequestAccountDeletion mails a confirmation link to the account behind the
// session. Deletion is two-step on purpose: a stolen session token alone
// cannot destroy the account without also controlling the mailbox.
func (s *Service) RequestAccountDeletion(ctx context.Context, sessionToken string) error {
	claims, err := s.signer.VerifySession(sessionToken)
	if err != nil {
		return err
	}

	u, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		return err
	}

	raw, err := s.tokens.Opaque()
	if err != nil {
		return domain.ErrRandomFailed(err)
	}

	if err := s.users.SetDeletionToken(ctx, claims.Email, s.tokens.Hash(raw), s.expiryStamp(s.deletionTTL)); err != nil {
		return err
	}

	if err := s.mail.SendDeletionEmail(ctx, claims.Email, u.FirstName, s.deletionLink(raw)); err != nil {
		return domain.ErrMailFailed(err)
	}
	return nil
}

// ConfirmAccountDeletion consumes a confirmation link and removes the row.
// An expired link leaves the row untouched: the slot is simply overwritten
// the next time a deletion is requested.
func (s *Service) ConfirmAccountDeletion(ctx context.Context, rawToken string) (domain.User, error) {
	if rawToken == "" {
		return domain.User{}, domain.ErrTokenInvalidOrExpired()
	}

	u, err := s.users.FindByDeletionToken(ctx, s.tokens.Hash(rawToken))
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return domain.User{}, domain.ErrTokenInvalidOrExpired()
		}
		return domain.User{}, err
	}

	if u.DeletionTokenExpired(s.now()) {
		return domain.User{}, domain.ErrTokenInvalidOrExpired()
	}

	if err := s.users.Delete(ctx, u.Email); err != nil {
		return domain.User{}, err
	}
	return u, nil
}
