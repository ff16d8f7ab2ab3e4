// Package index keeps a per-object SQLite row mirroring the metadata
// sidecars, so owner listings and usage sums do not rescan the tree.
// The sidecar files remain the source of truth; the index can be
// rebuilt from them at any time.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"vaultfs/pkg/models"

	_ "modernc.org/sqlite"
)

// Store manages object metadata rows in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a new index store backed by the database at dbPath.
func Open(dbPath string) (*Store, error) {
	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrDatabaseError, err)
	}

	ctx := context.Background()

	// Enable WAL mode for better concurrency
	if _, err := database.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to enable WAL mode: %w", ErrDatabaseError, err)
	}

	if _, err := database.ExecContext(ctx, Schema); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to initialize schema: %w", ErrDatabaseError, err)
	}

	return &Store{db: database}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces the row for meta.Key.
func (s *Store) Put(meta *models.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO objects (key, owner_id, filename, folder, size, mime, sha256, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		 owner_id = excluded.owner_id,
		 filename = excluded.filename,
		 folder = excluded.folder,
		 size = excluded.size,
		 mime = excluded.mime,
		 sha256 = excluded.sha256,
		 created_at = excluded.created_at`,
		meta.Key, meta.OwnerID, meta.OriginalName, meta.Folder, meta.Size, meta.Mime, meta.SHA256, meta.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return nil
}

// Get retrieves the row for a key.
func (s *Store) Get(key string) (*models.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta := &models.Metadata{Key: key}
	err := s.db.QueryRowContext(context.Background(),
		`SELECT owner_id, filename, folder, size, mime, sha256, created_at FROM objects WHERE key = ?`,
		key,
	).Scan(&meta.OwnerID, &meta.OriginalName, &meta.Folder, &meta.Size, &meta.Mime, &meta.SHA256, &meta.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return meta, nil
}

// Delete removes the row for a key. Deleting an absent row is not an
// error; the object store decides how to report missing objects.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(context.Background(), `DELETE FROM objects WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return nil
}

// List returns an owner's objects, newest first, optionally restricted
// to a folder prefix.
func (s *Store) List(ownerID, folder string) ([]models.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT key, owner_id, filename, folder, size, mime, sha256, created_at
	          FROM objects WHERE owner_id = ?`
	args := []interface{}{ownerID}

	if folder != "" {
		query += ` AND (folder = ? OR folder LIKE ?)`
		args = append(args, folder, folder+"/%")
	}
	query += ` ORDER BY created_at DESC, key`

	rows, err := s.db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer func() { _ = rows.Close() }()

	var objects []models.Metadata
	for rows.Next() {
		var meta models.Metadata
		scanErr := rows.Scan(&meta.Key, &meta.OwnerID, &meta.OriginalName, &meta.Folder,
			&meta.Size, &meta.Mime, &meta.SHA256, &meta.CreatedAt)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseError, scanErr)
		}
		objects = append(objects, meta)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return objects, nil
}

// SumUsage returns the committed byte usage for an owner.
func (s *Store) SumUsage(ownerID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var used int64
	err := s.db.QueryRowContext(context.Background(),
		`SELECT COALESCE(SUM(size), 0) FROM objects WHERE owner_id = ?`,
		ownerID,
	).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return used, nil
}
