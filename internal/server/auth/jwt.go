// Package auth implements the credential primitives of the server: signed
// bearer tokens and password hashing.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fittrackio/fittrack/internal/common"
)

// TokenManager issues and validates HS256-signed bearer tokens carrying the
// username as subject. Validation is a pure function of (token, secret, now):
// the clock is injected so expiry can be tested without sleeping.
type TokenManager struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenManager constructs a TokenManager. An empty secret is a
// configuration error: tokens signed with a known default would make every
// identity forgeable.
func NewTokenManager(secret []byte, validity time.Duration, now func() time.Time) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty signing secret", common.ErrorConfig)
	}
	if now == nil {
		now = time.Now
	}
	return &TokenManager{secret: secret, validity: validity, now: now}, nil
}

// Issue produces a token with subject=username expiring at now+validity.
func (m *TokenManager) Issue(username string) (string, error) {
	issuedAt := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.validity)),
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate checks the signature and expiry of tokenString and returns the
// embedded subject. Failures map onto the sentinel taxonomy:
// ErrorMalformedToken, ErrorInvalidSignature, ErrorTokenExpired.
func (m *TokenManager) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", common.ErrorTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", common.ErrorInvalidSignature
		default:
			return "", common.ErrorMalformedToken
		}
	}

	if !token.Valid {
		return "", common.ErrorInvalidSignature
	}

	return claims.Subject, nil
}
