package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
)

// TokenGenerator produces the one-time secrets the auth flows hand out:
// high-entropy opaque tokens for activation/deletion links and fixed-width
// numeric codes for password recovery.
type TokenGenerator struct{}

func NewTokenGenerator() TokenGenerator { return TokenGenerator{} }

// Opaque returns a URL-safe token from 32 random bytes. Only its Hash is
// ever persisted.
func (TokenGenerator) Opaque() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Hash is the storage form of an opaque token: a stolen sheet snapshot
// cannot be replayed against the activation or deletion endpoints.
func (TokenGenerator) Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// OTP returns a 6-digit numeric code, zero-padded so the width is fixed.
func (TokenGenerator) OTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
