// Package auth issues and validates the signed bearer tokens that carry an
// authenticated session.
//
// A token only proves who the caller was at issuance. Validation re-reads the
// subject from the identity store, so deactivating an identity revokes every
// token issued for it and role changes apply on the next request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

const (
	defaultTTL     = 24 * time.Hour
	minSecretBytes = 32
)

// IdentityLookup resolves a username to an active identity, or returns
// domain.ErrUserNotFound.
type IdentityLookup interface {
	FindActiveByUsername(ctx context.Context, username string) (*domain.Identity, error)
}

// Claims is the token payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Config is read once at startup.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// TokenAuthority signs tokens with a symmetric secret (HS256).
type TokenAuthority struct {
	secret []byte
	ttl    time.Duration
	issuer string
	lookup IdentityLookup
	now    func() time.Time
	parser *jwt.Parser
}

// Option customises a TokenAuthority.
type Option func(*TokenAuthority)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(a *TokenAuthority) { a.now = now }
}

func NewTokenAuthority(cfg Config, lookup IdentityLookup, opts ...Option) (*TokenAuthority, error) {
	if len(cfg.Secret) < minSecretBytes {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", minSecretBytes)
	}
	if lookup == nil {
		return nil, errors.New("identity lookup is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	a := &TokenAuthority{
		secret: secret,
		ttl:    ttl,
		issuer: cfg.Issuer,
		lookup: lookup,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(a.now),
	)
	return a, nil
}

// TTL returns the lifetime of issued tokens.
func (a *TokenAuthority) TTL() time.Duration {
	return a.ttl
}

// IssueToken signs a token for identity. The caller must have checked that
// the identity is active.
func (a *TokenAuthority) IssueToken(identity *domain.Identity) (string, time.Time, error) {
	if identity == nil || identity.Username == "" {
		return "", time.Time{}, fmt.Errorf("issue token: %w", domain.ErrInvalidInput)
	}
	role, ok := domain.ParseRole(string(identity.Role))
	if !ok {
		return "", time.Time{}, fmt.Errorf("issue token: unknown role %q: %w", identity.Role, domain.ErrInvalidInput)
	}

	now := a.now().UTC()
	expiresAt := now.Add(a.ttl)
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateAndDecode checks the token and re-resolves its subject. Token
// problems come back as *domain.AuthError. A store failure other than "not
// found" is returned wrapped, so callers can tell an outage from a bad token.
func (a *TokenAuthority) ValidateAndDecode(ctx context.Context, tokenString string) (domain.Principal, error) {
	var claims Claims
	token, err := a.parser.ParseWithClaims(tokenString, &claims, a.keyFunc)
	if err != nil {
		return domain.Principal{}, classify(token, err)
	}
	if claims.Subject == "" {
		return domain.Principal{}, domain.NewAuthError(domain.MalformedToken, errors.New("missing subject"))
	}

	identity, err := a.lookup.FindActiveByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Principal{}, domain.NewAuthError(domain.UnknownOrInactiveSubject, err)
		}
		return domain.Principal{}, fmt.Errorf("resolve token subject: %w", err)
	}
	if !identity.Active {
		return domain.Principal{}, domain.NewAuthError(domain.UnknownOrInactiveSubject, nil)
	}

	return domain.Principal{Username: identity.Username, Role: identity.Role}, nil
}

func (a *TokenAuthority) keyFunc(*jwt.Token) (any, error) {
	return a.secret, nil
}

// classify maps a parser error onto the auth error kinds. The parser decodes
// the signature segment together with header and claims, so a malformed error
// raised after the signing method was resolved means the signature segment
// itself is broken.
func classify(token *jwt.Token, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		if token != nil && token.Method != nil {
			return domain.NewAuthError(domain.BadSignature, err)
		}
		return domain.NewAuthError(domain.MalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.NewAuthError(domain.BadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.NewAuthError(domain.Expired, err)
	default:
		return domain.NewAuthError(domain.MalformedToken, err)
	}
}
