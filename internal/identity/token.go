package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/room-booking/internal/application"
)

// ErrBadCredential is returned when a presented bearer credential cannot
// be parsed or verified.
var ErrBadCredential = errors.New("invalid bearer credential")

// credentialClaims carries the identity attributes embedded in the bearer
// token so verification can rebuild the identity without a lookup.
type credentialClaims struct {
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

func mintCredential(uid, email, displayName string, role application.Role, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	claims := credentialClaims{
		Email:       email,
		DisplayName: displayName,
		Role:        string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseCredential(raw string, secret []byte, now time.Time) (*credentialClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &credentialClaims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadCredential
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*credentialClaims)
	if !ok || !token.Valid {
		return nil, ErrBadCredential
	}
	return claims, nil
}
