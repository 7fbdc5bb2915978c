// Package token issues and verifies the signed tokens exchanged with the
// editing server. Tokens are compact HS256 JWTs over a shared symmetric
// secret; validity is entirely determined by the signature and the embedded
// expiry, there is no server-side session table.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/docbridge/internal/common"
)

// Service signs and verifies tokens. The secret and expiry are fixed at
// construction and never change for the process lifetime.
type Service struct {
	secret []byte
	expiry time.Duration
}

func NewService(secret string, expiry time.Duration) *Service {
	return &Service{secret: []byte(secret), expiry: expiry}
}

// Sign returns a compact token over a copy of claims with iat and exp
// (epoch seconds) added. The caller's map is not modified.
func (s *Service) Sign(claims map[string]any) (string, error) {
	now := time.Now().Unix()

	full := make(jwt.MapClaims, len(claims)+2)
	for k, v := range claims {
		full[k] = v
	}
	full["iat"] = now
	full["exp"] = now + int64(s.expiry.Seconds())

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, full)
	return t.SignedString(s.secret)
}

// Verify checks the signature and expiry of a token and returns its claims.
// The signature is verified before any claim is looked at; expiry is checked
// only after the signature passes. Failures map onto the shared taxonomy:
// common.ErrSignatureMismatch, common.ErrTokenExpired, common.ErrMalformedToken.
func (s *Service) Verify(tokenString string) (map[string]any, error) {
	parsed, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrSignatureMismatch
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		default:
			return nil, common.ErrMalformedToken
		}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, common.ErrMalformedToken
	}

	return map[string]any(claims), nil
}

// IsValid reports whether a token passes Verify.
func (s *Service) IsValid(tokenString string) bool {
	_, err := s.Verify(tokenString)
	return err == nil
}
