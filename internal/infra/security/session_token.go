package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSessionToken indicates the token is malformed or its signature failed validation.
	ErrInvalidSessionToken = errors.New("invalid session token")
	// ErrExpiredSessionToken indicates the token is past its expiry.
	ErrExpiredSessionToken = errors.New("session token expired")
)

// SessionTokenCodec signs and verifies session tokens with HMAC-SHA256.
type SessionTokenCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewSessionTokenCodec constructs a codec. The secret must be non-empty;
// there is no insecure fallback.
func NewSessionTokenCodec(secret string, ttl time.Duration, issuer string) (*SessionTokenCodec, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionTokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// WithClock allows injection of a custom clock (primarily for testing).
func (c *SessionTokenCodec) WithClock(now func() time.Time) *SessionTokenCodec {
	if now != nil {
		c.now = now
	}
	return c
}

// SignClaims stamps registered claims onto the provided set and signs
// the token. Claim values are passed through untouched.
func (c *SessionTokenCodec) SignClaims(claims jwt.MapClaims) (string, error) {
	now := c.now().UTC()

	stamped := jwt.MapClaims{}
	for k, v := range claims {
		stamped[k] = v
	}
	if c.issuer != "" {
		stamped["iss"] = c.issuer
	}
	stamped["iat"] = jwt.NewNumericDate(now)
	stamped["exp"] = jwt.NewNumericDate(now.Add(c.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, stamped)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

// Parse validates the token signature and expiry and returns the raw
// claim set. Callers are responsible for normalizing claim shapes.
func (c *SessionTokenCodec) Parse(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSessionToken
		}
		return nil, ErrInvalidSessionToken
	}

	if parsed == nil || !parsed.Valid {
		return nil, ErrInvalidSessionToken
	}

	return claims, nil
}
