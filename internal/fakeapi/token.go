package fakeapi

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MintToken issues an HS256 credential shaped like the hospital API's:
// {sub, role, exp}. A zero ttl leaves exp out.
func MintToken(secret string, subject string, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
	}
	if ttl != 0 {
		claims["exp"] = time.Now().Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
