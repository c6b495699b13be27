package auth

import (
	"context"
	"time"

	"github.com/universitas/manuales-backend/internal/domain"
)

/*
UserStore
---------
Persistence port for the Login sheet. Only describes WHAT the auth flows
need, not HOW rows and cells are addressed; the sheetrepo adapter owns the
header-to-column-letter map and keeps multi-field updates behind single
methods so atomicity can be added later without touching callers.

Lookups return domain.ErrUserNotFound on a clean miss and
domain.ErrStoreUnavailable on transport failure — never one for the other.
*/
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByResetToken(ctx context.Context, tokenValue string) (domain.User, error)
	FindByDeletionToken(ctx context.Context, tokenValue string) (domain.User, error)

	Create(ctx context.Context, u domain.User) error
	Delete(ctx context.Context, email string) error

	AssignID(ctx context.Context, email, id string) error
	UpdatePasswordHash(ctx context.Context, email, hash string) error
	UpdateProfile(ctx context.Context, email string, p domain.Profile) error
	UpdateRole(ctx context.Context, email, role string) error

	// Single-slot token storage: setting overwrites whatever was there.
	SetResetToken(ctx context.Context, email, value, expiry string) error
	ClearResetToken(ctx context.Context, email string) error
	SetDeletionToken(ctx context.Context, email, value, expiry string) error

	ListAll(ctx context.Context) ([]domain.UserSummary, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies bearer tokens. Session tokens carry identity claims;
scoped tokens authorize exactly one follow-up operation.
*/
type SessionClaims struct {
	UserID string
	Email  string
	Role   string
	Exp    time.Time
}

const (
	PurposeResetPassword     = "reset_password"
	PurposeProfileCompletion = "profile_completion"
)

type TokenSigner interface {
	SignSession(userID, email, role string, ttl time.Duration) (string, error)
	VerifySession(token string) (SessionClaims, error)
	SignScoped(email, purpose string, ttl time.Duration) (string, error)
	VerifyScoped(token, purpose string) (email string, err error)
}

/*
TokenGenerator
--------------
One-time secrets. Opaque tokens are mailed raw and stored only as Hash(raw);
OTPs are fixed-width numeric and stored as given.
*/
type TokenGenerator interface {
	Opaque() (string, error)
	Hash(raw string) string
	OTP() (string, error)
}

/*
MailSender
----------
External email collaborator. The service builds links; the sender owns
templates and transport.
*/
type MailSender interface {
	SendActivationEmail(ctx context.Context, to, name, link string) error
	SendPasswordResetEmail(ctx context.Context, to, name, code, link string) error
	SendDeletionEmail(ctx context.Context, to, name, link string) error
}
