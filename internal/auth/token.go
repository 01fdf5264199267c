// Package auth issues and validates operator bearer tokens. TrafficWarden
// has a single privileged principal, the operator, who may wipe system
// configuration over the API. Tokens are short-lived HS256 JWTs signed
// with a shared secret from configuration; when no secret is configured
// the API middleware skips operator auth entirely.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token policy defaults.
const (
	// DefaultTokenTTL bounds how long a minted operator token stays valid.
	// Destructive operations are rare enough that operators can mint a
	// fresh token per session.
	DefaultTokenTTL = 12 * time.Hour

	DefaultIssuer   = "trafficwarden"
	DefaultAudience = "trafficwarden-api"
)

// Predefined token errors.
var (
	ErrInvalidToken = errors.New("invalid operator token")
	ErrTokenExpired = errors.New("operator token has expired")
)

// OperatorClaims are the claims carried by operator tokens.
type OperatorClaims struct {
	jwt.RegisteredClaims

	// Operator names the principal the token was minted for, for audit
	// logging on destructive routes.
	Operator string `json:"op"`
}

// TokenService mints and validates operator tokens.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// TokenConfig holds configuration for the token service.
type TokenConfig struct {
	// Secret is the HS256 signing secret shared between minting and
	// validation.
	Secret string

	// Issuer and Audience override the claim defaults.
	Issuer   string
	Audience string

	// TTL overrides the default token lifetime.
	TTL time.Duration
}

// NewTokenService creates a token service. Zero config fields fall back to
// the package defaults.
func NewTokenService(cfg TokenConfig) *TokenService {
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	audience := cfg.Audience
	if audience == "" {
		audience = DefaultAudience
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{
		secret:   []byte(cfg.Secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

// Generate mints a token for the named operator.
func (s *TokenService) Generate(operator string) (string, time.Time, error) {
	if operator == "" {
		operator = "operator"
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := OperatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   operator,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			ID:        generateTokenID(),
		},
		Operator: operator,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing operator token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate checks a token's signature, issuer, audience, and expiry, and
// returns its claims.
func (s *TokenService) Validate(tokenString string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// generateTokenID generates a unique token ID.
func generateTokenID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
