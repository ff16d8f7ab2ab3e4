package server

import (
	"errors"
	"fmt"
	"net/http"

	"vaultfs/pkg/archive"
	"vaultfs/pkg/log"
	"vaultfs/pkg/models"
	"vaultfs/pkg/object"

	"github.com/labstack/echo/v4"
)

func (s *Server) createBatchDownload(ctx echo.Context) error {
	p, err := principal(ctx)
	if err != nil {
		return err
	}

	var req models.BatchDownloadRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed request body",
		})
	}

	token, err := s.archiver.CreateManifest(p.UserID, req.Keys)
	if err != nil {
		var notFoundErr object.KeyNotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": fmt.Sprintf("file not found: %s", notFoundErr.Key),
			})
		}
		if errors.Is(err, archive.ErrAccessDenied) {
			return ctx.JSON(http.StatusForbidden, map[string]string{
				"error": err.Error(),
			})
		}
		if errors.Is(err, archive.ErrEmptyManifest) {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}
		log.Error().Err(err).Str("owner_id", p.UserID).Msg("Failed to create batch manifest")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to create batch manifest",
		})
	}

	return ctx.JSON(http.StatusOK, models.BatchDownloadResponse{Token: token})
}

func (s *Server) downloadBatch(ctx echo.Context) error {
	token := ctx.Param("token")

	keys, err := s.archiver.Resolve(token)
	if err != nil {
		return ctx.JSON(http.StatusNotFound, map[string]string{
			"error": err.Error(),
		})
	}

	header := ctx.Response().Header()
	header.Set(echo.HeaderContentType, "application/zip")
	header.Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", archive.ZipName(keys)))
	ctx.Response().WriteHeader(http.StatusOK)

	// Headers are out the door: a failure past this point terminates
	// the stream without a central directory so clients detect the
	// corruption instead of trusting a truncated archive.
	if err := s.archiver.Stream(token, ctx.Response()); err != nil {
		log.Error().Err(err).Str("token", token).Msg("Batch stream failed")
		return err
	}
	return nil
}
