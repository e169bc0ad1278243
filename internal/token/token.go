// Package token implements the single bearer credential that gates every
// route for the lifetime of the process. A token is generated once at
// startup, never refreshed, and stops validating after its TTL elapses.
package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// tokenBytes is the amount of randomness backing a token value. 20 bytes
// gives 160 bits of entropy, comfortably above the 128-bit floor.
const tokenBytes = 20

var (
	// ErrInvalidTTL is returned when a token is requested with a
	// non-positive lifetime.
	ErrInvalidTTL = errors.New("token ttl must be positive")

	// ErrUnauthorized is returned for any failed validation. Mismatched
	// and expired tokens are deliberately indistinguishable so that
	// callers cannot leak which of the two happened.
	ErrUnauthorized = errors.New("unauthorized")
)

// Token is an opaque bearer credential with an absolute expiry. It is
// immutable once created; concurrent Validate calls need no locking.
type Token struct {
	value     string
	expiresAt time.Time

	now func() time.Time
}

// Option customizes token construction. Only used by tests.
type Option func(*Token)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(t *Token) { t.now = now }
}

// New generates a token valid for ttl from now. The value is drawn from
// crypto/rand and encoded with the unpadded URL-safe base64 alphabet so it
// can be embedded directly in a path segment.
func New(ttl time.Duration, opts ...Option) (*Token, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidTTL, ttl)
	}

	t := &Token{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}

	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("reading random source: %w", err)
	}

	t.value = base64.RawURLEncoding.EncodeToString(buf)
	t.expiresAt = t.now().Add(ttl)
	return t, nil
}

// Value returns the token string for embedding in URLs.
func (t *Token) Value() string { return t.value }

// ExpiresAt returns the absolute expiry time.
func (t *Token) ExpiresAt() time.Time { return t.expiresAt }

// Validate checks candidate against the token value and expiry. The value
// comparison is constant-time. Any failure yields ErrUnauthorized.
func (t *Token) Validate(candidate string) error {
	match := subtle.ConstantTimeCompare([]byte(candidate), []byte(t.value)) == 1
	if !match || !t.now().Before(t.expiresAt) {
		return ErrUnauthorized
	}
	return nil
}
