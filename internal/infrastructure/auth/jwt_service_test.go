package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", "nvhealthlabs", time.Hour)

	user := &domain.User{
		ID:            42,
		Email:         "staff@example.com",
		Role:          domain.RoleCenterAdmin,
		CenterID:      3,
		EmailVerified: true,
	}

	token, expiresAt, err := svc.Generate(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	principal, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), principal.UserID)
	assert.Equal(t, "staff@example.com", principal.Email)
	assert.Equal(t, domain.RoleCenterAdmin, principal.Role)
	assert.Equal(t, uint(3), principal.CenterID)
	assert.True(t, principal.EmailVerified)
}

func TestJWTService_ValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", "nvhealthlabs", time.Hour)
	validator := NewJWTService("secret-b", "nvhealthlabs", time.Hour)

	token, _, err := issuer.Generate(&domain.User{ID: 1, Role: domain.RolePatient})
	require.NoError(t, err)

	_, err = validator.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTService_ValidateRejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", "nvhealthlabs", -time.Minute)

	token, _, err := svc.Generate(&domain.User{ID: 1, Role: domain.RolePatient})
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTService_ValidateRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", "nvhealthlabs", time.Hour)

	_, err := svc.Validate("not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTService_ValidateRejectsUnknownRole(t *testing.T) {
	svc := NewJWTService("test-secret", "nvhealthlabs", time.Hour)

	token, _, err := svc.Generate(&domain.User{ID: 1, Role: "superuser"})
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, svc.Verify(hash, "correct horse battery staple"))
	assert.False(t, svc.Verify(hash, "wrong password"))
}

func TestPasswordService_CostFallback(t *testing.T) {
	// Zero and out-of-range costs fall back to the bcrypt default.
	for _, cost := range []int{0, -1, bcrypt.MaxCost + 1} {
		svc := NewPasswordService(cost)

		hash, err := svc.Hash("pw")
		require.NoError(t, err)

		parsed, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, parsed)
	}
}
