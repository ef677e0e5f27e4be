package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// PasswordServiceImpl implements domain.PasswordService. The work factor
// comes from config so deployments can raise it without a code change; an
// out-of-range value falls back to the bcrypt default.
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a password service with the given bcrypt cost.
func NewPasswordService(cost int) domain.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{cost: cost}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
