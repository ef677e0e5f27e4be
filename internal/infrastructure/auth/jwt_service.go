package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// JWTServiceImpl implements domain.TokenService. The principal is trusted
// entirely from the signed claims; role changes take effect only when the
// token is reissued, a staleness window bounded by the token TTL.
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey, issuer string, ttl time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// Generate implements domain.TokenService
func (j *JWTServiceImpl) Generate(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.ttl)
	claims := jwt.MapClaims{
		"user_id":        user.ID,
		"email":          user.Email,
		"role":           user.Role,
		"center_id":      user.CenterID,
		"email_verified": user.EmailVerified,
		"iss":            j.issuer,
		"iat":            now.Unix(),
		"exp":            expiresAt.Unix(),
		"jti":            j.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate implements domain.TokenService
func (j *JWTServiceImpl) Validate(tokenString string) (*domain.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return j.secretKey, nil
	})

	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	role, ok := claims["role"].(string)
	if !ok || !domain.ValidRole(role) {
		return nil, domain.ErrTokenMalformed
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, domain.ErrTokenExpired
	}

	principal := &domain.Principal{
		UserID: uint(userID),
		Role:   role,
	}
	if email, ok := claims["email"].(string); ok {
		principal.Email = email
	}
	if centerID, ok := claims["center_id"].(float64); ok {
		principal.CenterID = uint(centerID)
	}
	if verified, ok := claims["email_verified"].(bool); ok {
		principal.EmailVerified = verified
	}

	return principal, nil
}
