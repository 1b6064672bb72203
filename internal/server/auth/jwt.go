// Package auth issues and validates the HS256 bearer tokens handed out on
// login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/learnpoke/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenLifetime is how long an issued token stays valid.
const DefaultTokenLifetime = time.Hour

// Claims carries the subject (username) and token id as registered claims.
type Claims struct {
	jwt.RegisteredClaims
}

// Username returns the token subject.
func (c *Claims) Username() string { return c.Subject }

// TokenIssuer signs tokens for authenticated users.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// IssuerOption configures a TokenIssuer.
type IssuerOption func(*TokenIssuer)

// WithIssuerClock overrides the time source used for iat/exp.
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *TokenIssuer) { i.now = now }
}

// NewTokenIssuer returns an issuer signing with secret. A non-positive ttl
// selects DefaultTokenLifetime. An empty secret is a configuration error.
func NewTokenIssuer(secret []byte, ttl time.Duration, opts ...IssuerOption) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: token signing secret is empty", common.ErrConfigurationMissing)
	}
	if ttl <= 0 {
		ttl = DefaultTokenLifetime
	}

	i := &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue returns a signed token for username with a fresh token id.
func (i *TokenIssuer) Issue(username string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// TokenValidator checks signature and lifetime of presented tokens.
// Audience and issuer are not checked.
type TokenValidator struct {
	secret []byte
	now    func() time.Time
}

// ValidatorOption configures a TokenValidator.
type ValidatorOption func(*TokenValidator)

// WithValidatorClock overrides the time source used for lifetime checks.
func WithValidatorClock(now func() time.Time) ValidatorOption {
	return func(v *TokenValidator) { v.now = now }
}

// NewTokenValidator returns a validator for tokens signed with secret.
func NewTokenValidator(secret []byte, opts ...ValidatorOption) (*TokenValidator, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: token signing secret is empty", common.ErrConfigurationMissing)
	}

	v := &TokenValidator{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Validate parses tokenString and returns its claims when the signature is
// valid and iat <= now < exp. Expired tokens yield common.ErrTokenExpired,
// every other failure common.ErrInvalidToken.
func (v *TokenValidator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
