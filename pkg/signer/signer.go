// Package signer issues and checks HMAC-based, time-limited read
// capabilities for object keys. Verification is stateless: everything
// needed is in the (key, exp, sig) tuple and the server-held secret.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrInvalidSignature is returned when the signature does not match.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrExpired is returned when a correctly signed capability has expired.
	ErrExpired = errors.New("signature expired")
)

// Signer computes and verifies URL signatures with a shared secret.
type Signer struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// New creates a Signer. defaultTTL applies when Sign is called with a
// non-positive ttl.
func New(secret string, defaultTTL time.Duration) *Signer {
	return &Signer{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Sign returns the expiry timestamp and hex-encoded signature for key.
func (s *Signer) Sign(key string, ttl time.Duration) (int64, string) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	exp := s.now().Add(ttl).Unix()
	return exp, s.compute(key, exp)
}

// Verify checks the signature first and the expiry second. A forged
// signature is reported as invalid regardless of the timestamp.
func (s *Signer) Verify(key string, exp int64, sig string) error {
	expected := s.compute(key, exp)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return ErrInvalidSignature
	}
	if s.now().Unix() > exp {
		return ErrExpired
	}
	return nil
}

// compute builds hex(HMAC-SHA256(secret, key + "|" + exp)).
func (s *Signer) compute(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%d", key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

// EncodeKey renders a key opaque for URL transport.
func EncodeKey(key string) string {
	return base64.URLEncoding.EncodeToString([]byte(key))
}

// DecodeKey reverses EncodeKey.
func DecodeKey(encoded string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid encoded key: %w", err)
	}
	return string(raw), nil
}

// ParseExpiry parses the exp query parameter.
func ParseExpiry(raw string) (int64, error) {
	exp, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry: %w", err)
	}
	return exp, nil
}
