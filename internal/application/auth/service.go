package auth

import (
	"net/url"
	"time"
)

type Service struct {
	users  UserStore
	hasher PasswordHasher
	signer TokenSigner
	tokens TokenGenerator
	mail   MailSender

	sessionTTL    time.Duration
	scopedTTL     time.Duration
	profileTTL    time.Duration
	activationTTL time.Duration
	resetCodeTTL  time.Duration
	deletionTTL   time.Duration

	// Base URL of this backend, used to build the /api/redirect and
	// deletion-confirmation links embedded in emails.
	baseURL string

	now func() time.Time
}

type Config struct {
	SessionTokenTTL    time.Duration
	ScopedTokenTTL     time.Duration // reset-authorization tokens
	ProfileTokenTTL    time.Duration // profile-completion tokens
	ActivationTokenTTL time.Duration
	ResetCodeTTL       time.Duration
	DeletionTokenTTL   time.Duration
	BaseURL            string
}

func NewService(users UserStore, hasher PasswordHasher, signer TokenSigner, tokens TokenGenerator, mail MailSender, cfg Config) *Service {
	sessionTTL := cfg.SessionTokenTTL
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	scopedTTL := cfg.ScopedTokenTTL
	if scopedTTL <= 0 {
		scopedTTL = 10 * time.Minute
	}
	profileTTL := cfg.ProfileTokenTTL
	if profileTTL <= 0 {
		profileTTL = 15 * time.Minute
	}
	activationTTL := cfg.ActivationTokenTTL
	if activationTTL <= 0 {
		activationTTL = 24 * time.Hour
	}
	resetCodeTTL := cfg.ResetCodeTTL
	if resetCodeTTL <= 0 {
		resetCodeTTL = 10 * time.Minute
	}
	deletionTTL := cfg.DeletionTokenTTL
	if deletionTTL <= 0 {
		deletionTTL = time.Hour
	}

	return &Service{
		users:  users,
		hasher: hasher,
		signer: signer,
		tokens: tokens,
		mail:   mail,

		sessionTTL:    sessionTTL,
		scopedTTL:     scopedTTL,
		profileTTL:    profileTTL,
		activationTTL: activationTTL,
		resetCodeTTL:  resetCodeTTL,
		deletionTTL:   deletionTTL,

		baseURL: cfg.BaseURL,
		now:     time.Now,
	}
}

// WithClock overrides the service clock; used by tests to cross expiry
// windows without sleeping.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *Service) expiryStamp(ttl time.Duration) string {
	return s.now().Add(ttl).UTC().Format(time.RFC3339)
}

func (s *Service) activationLink(rawToken string) string {
	return s.baseURL + "/api/redirect?type=verify&token=" + url.QueryEscape(rawToken)
}

func (s *Service) resetLink(otp, email string) string {
	return s.baseURL + "/api/redirect?otp=" + url.QueryEscape(otp) + "&email=" + url.QueryEscape(email)
}

func (s *Service) deletionLink(rawToken string) string {
	return s.baseURL + "/api/auth/confirm-deletion?token=" + url.QueryEscape(rawToken)
}
