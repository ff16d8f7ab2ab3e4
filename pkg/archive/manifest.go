// Package archive bundles stored objects into ZIP streams. A batch
// manifest maps a short-lived token to an ordered key list; the stream
// is produced entry by entry so memory stays bounded regardless of
// archive size.
package archive

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"vaultfs/pkg/log"
	"vaultfs/pkg/models"
	"vaultfs/pkg/object"

	"github.com/google/uuid"
)

var (
	// ErrTokenNotFound covers unknown and expired tokens alike.
	ErrTokenNotFound = errors.New("invalid or expired batch token")

	// ErrAccessDenied is returned when a manifest key belongs to a
	// different owner.
	ErrAccessDenied = errors.New("access denied")

	// ErrEmptyManifest is returned for a batch request with no keys.
	ErrEmptyManifest = errors.New("empty key list")
)

// Archiver validates batch requests and streams ZIP archives.
type Archiver struct {
	store    *object.Store
	tokenTTL time.Duration

	mu     sync.Mutex
	tokens map[string]*models.BatchManifest
}

// New creates an Archiver. Tokens live for tokenTTL and may be consumed
// repeatedly until they expire.
func New(store *object.Store, tokenTTL time.Duration) *Archiver {
	return &Archiver{
		store:    store,
		tokenTTL: tokenTTL,
		tokens:   make(map[string]*models.BatchManifest),
	}
}

// CreateManifest validates that every key exists and belongs to ownerID
// before issuing a token. The first missing key fails the whole request
// so a batch can never silently shrink.
func (a *Archiver) CreateManifest(ownerID string, keys []string) (string, error) {
	if len(keys) == 0 {
		return "", ErrEmptyManifest
	}

	for _, key := range keys {
		meta, err := a.store.ReadMetadata(key)
		if err != nil {
			return "", err
		}
		if meta.OwnerID != "" && meta.OwnerID != ownerID {
			return "", fmt.Errorf("%w: %s", ErrAccessDenied, key)
		}
	}

	now := time.Now().UTC()
	manifest := &models.BatchManifest{
		Token:     uuid.NewString(),
		OwnerID:   ownerID,
		Keys:      append([]string(nil), keys...),
		ExpiresAt: now.Add(a.tokenTTL),
		CreatedAt: now,
	}

	a.mu.Lock()
	a.cleanupExpiredLocked(now)
	a.tokens[manifest.Token] = manifest
	a.mu.Unlock()

	log.Info().Str("token", manifest.Token).Int("keys", len(keys)).Msg("Batch manifest created")
	return manifest.Token, nil
}

// Resolve returns the key list for a live token.
func (a *Archiver) Resolve(token string) ([]string, error) {
	now := time.Now().UTC()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.cleanupExpiredLocked(now)
	manifest, ok := a.tokens[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return manifest.Keys, nil
}

func (a *Archiver) cleanupExpiredLocked(now time.Time) {
	for token, manifest := range a.tokens {
		if manifest.ExpiresAt.Before(now) {
			delete(a.tokens, token)
		}
	}
}
