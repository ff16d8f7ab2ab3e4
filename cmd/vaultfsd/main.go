package main

import (
	_ "embed"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vaultfs/pkg/archive"
	"vaultfs/pkg/auth"
	"vaultfs/pkg/index"
	"vaultfs/pkg/log"
	"vaultfs/pkg/object"
	"vaultfs/pkg/server"
	"vaultfs/pkg/signer"
	"vaultfs/pkg/upload"
)

const (
	storageDirPerm = 0750

	defaultSignedURLTTL  = time.Hour
	defaultSessionTTL    = 24 * time.Hour
	defaultBatchTokenTTL = time.Hour
	defaultSweepInterval = 10 * time.Minute
	defaultMaxPartSize   = 32 << 20
	defaultMaxUploadSize = 10 << 30
)

//go:embed VERSION
var Version string

func main() {
	// Initialize logger first
	_ = log.Logger

	root := flag.String("root", "build/data", "Storage root directory")
	port := flag.String("port", "8080", "Server port")
	baseURL := flag.String("base-url", "", "Public base URL for signed links (defaults to http://localhost:<port>)")
	dbPath := flag.String("db", "", "SQLite index path (defaults to <root>/index.db)")
	quota := flag.Int64("quota", 0, "Per-owner storage quota in bytes (0 disables)")
	signedTTL := flag.Duration("signed-url-ttl", defaultSignedURLTTL, "Default signed URL lifetime")
	sessionTTL := flag.Duration("session-ttl", defaultSessionTTL, "Idle upload session lifetime")
	batchTTL := flag.Duration("batch-ttl", defaultBatchTokenTTL, "Batch download token lifetime")
	sweepInterval := flag.Duration("sweep-interval", defaultSweepInterval, "Stale session sweep interval")
	maxPartSize := flag.Int64("max-part-size", defaultMaxPartSize, "Maximum size of one uploaded part in bytes")
	maxUploadSize := flag.Int64("max-upload-size", defaultMaxUploadSize, "Maximum total upload size in bytes")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		log.SetDebugMode()
		log.Debug().Msg("Debug mode enabled")
	}

	signingKey := os.Getenv("VAULTFS_SIGNING_KEY")
	if signingKey == "" {
		log.Fatal().Msg("VAULTFS_SIGNING_KEY must be set")
	}
	authSecret := os.Getenv("VAULTFS_AUTH_SECRET")
	if authSecret == "" {
		log.Fatal().Msg("VAULTFS_AUTH_SECRET must be set")
	}

	if err := os.MkdirAll(*root, storageDirPerm); err != nil {
		log.Fatal().Err(err).Str("root", *root).Msg("Failed to create storage root")
	}

	indexPath := *dbPath
	if indexPath == "" {
		indexPath = filepath.Join(*root, "index.db")
	}
	_, statErr := os.Stat(indexPath)
	freshIndex := os.IsNotExist(statErr)

	idx, err := index.Open(indexPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", indexPath).Msg("Failed to open index")
	}
	defer func() {
		if closeErr := idx.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close index")
		}
	}()

	store, err := object.New(*root, *quota, idx)
	if err != nil {
		log.Fatal().Err(err).Str("root", *root).Msg("Failed to open object store")
	}

	// A fresh index next to existing content means the database was
	// lost or moved; rebuild it from the sidecars on disk.
	if freshIndex {
		if err := store.Reindex(); err != nil {
			log.Fatal().Err(err).Msg("Reindex failed")
		}
	}

	uploads, err := upload.NewManager(store, upload.Config{
		MaxPartSize:   *maxPartSize,
		MaxUploadSize: *maxUploadSize,
		SessionTTL:    *sessionTTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to restore upload sessions")
	}
	uploads.StartSweeper(*sweepInterval)
	defer uploads.StopSweeper()

	publicURL := *baseURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("http://localhost:%s", *port)
	}

	srv := server.New(
		store,
		uploads,
		signer.New(signingKey, *signedTTL),
		archive.New(store, *batchTTL),
		auth.NewVerifier(authSecret),
		publicURL,
		strings.TrimSpace(Version),
	)

	if err := srv.Start(":" + *port); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
