package security

import (
	"github.com/universitas/manuales-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes the passwords stored in the Login sheet. Rows written
// by earlier deployments used the same algorithm, so existing hashes keep
// verifying unchanged.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher falls back to the library default cost for zero or
// negative values; tests pass a low cost to keep hashing fast.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

// Compare returns the library's error untranslated; callers map a mismatch
// to their own credential error.
func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
