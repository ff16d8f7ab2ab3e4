// Package server wires the upload core to its HTTP boundary. Handlers
// translate typed core errors into status codes and JSON bodies; all
// storage decisions stay in the core packages.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vaultfs/pkg/archive"
	"vaultfs/pkg/auth"
	"vaultfs/pkg/log"
	"vaultfs/pkg/object"
	"vaultfs/pkg/signer"
	"vaultfs/pkg/upload"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

// Server hosts the upload service HTTP API.
type Server struct {
	echo     *echo.Echo
	store    *object.Store
	uploads  *upload.Manager
	signer   *signer.Signer
	archiver *archive.Archiver
	verifier *auth.Verifier
	baseURL  string
	version  string
}

// New assembles a Server from its collaborators.
func New(store *object.Store, uploads *upload.Manager, sgn *signer.Signer, archiver *archive.Archiver, verifier *auth.Verifier, baseURL, version string) *Server {
	return &Server{
		echo:     echo.New(),
		store:    store,
		uploads:  uploads,
		signer:   sgn,
		archiver: archiver,
		verifier: verifier,
		baseURL:  baseURL,
		version:  version,
	}
}

// Start runs the server until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Start(addr string) error {
	s.setupRoutes()

	go func() {
		log.Info().
			Str("addr", addr).
			Str("version", s.version).
			Str("upload_root", s.store.Root()).
			Msg("Starting vaultfs server")

		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return s.Shutdown()
}

// Shutdown stops the HTTP server with a timeout.
func (s *Server) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func (s *Server) setupRoutes() {
	s.echo.HideBanner = true
	s.echo.HidePort = true

	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${status} ${method} ${uri} (${latency_human})\n",
	}))
	s.echo.Use(middleware.Recover())

	// Authenticated API.
	files := s.echo.Group("/v1/files", s.verifier.Middleware())
	files.POST("/init", s.initUpload)
	files.POST("/part", s.uploadPart)
	files.POST("/complete", s.completeUpload)
	files.DELETE("/uploads/:uploadId", s.abortUpload)
	files.GET("/all", s.listFiles)
	files.GET("/metadata/:key", s.getMetadata)
	files.GET("/signed-url", s.getSignedURL)
	files.POST("/batch-download", s.createBatchDownload)
	files.DELETE("/:key", s.deleteObject)

	// Capability-authorized fetch path: no session auth, the signed
	// URL itself is the credential.
	s.echo.GET("/get/:encodedKey", s.fetchObject)
	s.echo.GET("/v1/files/batch-download/:token", s.downloadBatch)

	s.echo.GET("/healthz", s.healthz)
}

// principal returns the verified identity or fails the request; the
// auth middleware guarantees it is present on authenticated routes.
func principal(ctx echo.Context) (*auth.Principal, error) {
	p, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "no principal")
	}
	return p, nil
}
