package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/universitas/manuales-backend/internal/application/auth"
	"github.com/universitas/manuales-backend/internal/domain"
)

type JWTSigner struct {
	secret []byte
	issuer string
}

func NewJWTSigner(secret string, issuer string) *JWTSigner {
	return &JWTSigner{
		secret: []byte(secret),
		issuer: issuer,
	}
}

type sessionClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	// Purpose is only ever set on scoped tokens. Both token families share
	// the signing secret, so its presence is what tells them apart.
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// scopedClaims restrict a token to exactly one follow-up operation.
type scopedClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) SignSession(userID, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *JWTSigner) VerifySession(token string) (auth.SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if isJWTExpired(err) {
			return auth.SessionClaims{}, domain.ErrTokenExpired()
		}
		return auth.SessionClaims{}, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return auth.SessionClaims{}, domain.ErrTokenInvalid()
	}
	// A scoped token authorizes its one follow-up call and nothing else; it
	// must never pass as a session.
	if claims.Purpose != "" {
		return auth.SessionClaims{}, domain.ErrTokenInvalid()
	}

	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	return auth.SessionClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		Exp:    exp,
	}, nil
}

func (s *JWTSigner) SignScoped(email, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := scopedClaims{
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

// VerifyScoped rejects tokens signed for a different purpose: a
// profile-completion token must never authorize a password reset.
func (s *JWTSigner) VerifyScoped(token, purpose string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &scopedClaims{}, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if isJWTExpired(err) {
			return "", domain.ErrTokenExpired()
		}
		return "", domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*scopedClaims)
	if !ok || !parsed.Valid {
		return "", domain.ErrTokenInvalid()
	}
	if claims.Purpose != purpose {
		return "", domain.ErrTokenScopeMismatch(purpose)
	}
	if claims.Email == "" {
		return "", domain.ErrTokenInvalid()
	}
	return claims.Email, nil
}

func (s *JWTSigner) keyFunc(t *jwt.Token) (any, error) {
	// prevent alg confusion
	if t.Method != jwt.SigningMethodHS256 {
		return nil, domain.ErrTokenInvalid()
	}
	return s.secret, nil
}

func isJWTExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
