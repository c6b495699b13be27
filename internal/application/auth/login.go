package auth

import (
	"context"
	"strings"

	"github.com/universitas/manuales-backend/internal/domain"
)

type LoginResult struct {
	Token     string
	ExpiresIn int64 // seconds
	User      domain.User
}

// Login authenticates a user and issues a session token.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration);
// the not-verified outcome is only reachable after the password matched.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			// Hide not-found behind invalid credentials
			return LoginResult{}, domain.ErrInvalidCredentials()
		}
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if !u.Activated() {
		return LoginResult{}, domain.ErrAccountNotVerified()
	}

	role := u.EffectiveRole()
	token, err := s.signer.SignSession(u.ID, u.Email, role, s.sessionTTL)
	if err != nil {
		return LoginResult{}, err
	}

	u.Role = role
	return LoginResult{
		Token:     token,
		ExpiresIn: int64(s.sessionTTL.Seconds()),
		User:      u,
	}, nil
}
