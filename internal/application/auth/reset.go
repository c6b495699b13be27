package auth

import (
	"context"

	"github.com/universitas/manuales-backend/internal/domain"
)

// RequestPasswordReset mails a one-time code to the account. The caller gets
// a generic success for unknown or unverified addresses so the endpoint can't
// be used to probe which emails are registered; infrastructure failures still
// surface, because a swallowed sheet outage would make every reset silently
// vanish.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return nil
		}
		return err
	}
	if !u.Activated() {
		return nil
	}

	code, err := s.tokens.OTP()
	if err != nil {
		return domain.ErrRandomFailed(err)
	}

	// OTPs are stored as given: the user types the code back, so there is
	// nothing to gain from hashing a 6-digit value with a 10-minute window.
	if err := s.users.SetResetToken(ctx, email, code, s.expiryStamp(s.resetCodeTTL)); err != nil {
		return err
	}

	if err := s.mail.SendPasswordResetEmail(ctx, email, u.FirstName, code, s.resetLink(code, email)); err != nil {
		return domain.ErrMailFailed(err)
	}
	return nil
}

// VerifyOtp checks a recovery code and, on success, issues a short-lived
// token scoped to the reset-password operation only. An expired code is
// cleared on sight.
func (s *Service) VerifyOtp(ctx context.Context, email, code string) (string, error) {
	if code == "" {
		return "", domain.ErrInvalidCode()
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return "", domain.ErrInvalidCode()
		}
		return "", err
	}

	if u.ResetToken == "" || u.ResetToken != code {
		return "", domain.ErrInvalidCode()
	}

	if u.ResetTokenExpired(s.now()) {
		_ = s.users.ClearResetToken(ctx, email)
		return "", domain.ErrCodeExpired()
	}

	return s.signer.SignScoped(email, PurposeResetPassword, s.scopedTTL)
}

// ResetPassword sets a new password for the holder of a reset-scoped token
// and burns the recovery code.
func (s *Service) ResetPassword(ctx context.Context, scopedToken, newPassword string) error {
	email, err := s.signer.VerifyScoped(scopedToken, PurposeResetPassword)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.ErrHashFailed(err)
	}

	if err := s.users.UpdatePasswordHash(ctx, email, hash); err != nil {
		return err
	}
	return s.users.ClearResetToken(ctx, email)
}
