package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
)

// BcryptHasher implements ports.PasswordHasher with bcrypt, the scheme the
// stored password hashes use.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher. cost <= 0 falls back to bcrypt's
// default cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *BcryptHasher) Verify(password, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

var _ ports.PasswordHasher = (*BcryptHasher)(nil)
