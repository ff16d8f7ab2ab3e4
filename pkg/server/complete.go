package server

import (
	"errors"
	"net/http"

	"vaultfs/pkg/log"
	"vaultfs/pkg/models"
	"vaultfs/pkg/object"
	"vaultfs/pkg/upload"

	"github.com/labstack/echo/v4"
)

func (s *Server) completeUpload(ctx echo.Context) error {
	if _, err := principal(ctx); err != nil {
		return err
	}

	var req models.CompleteUploadRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed request body",
		})
	}

	meta, err := s.uploads.Complete(req.UploadID, req.SHA256, req.Meta)
	if err != nil {
		var notFoundErr upload.SessionNotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": notFoundErr.Error(),
			})
		}
		var incompleteErr upload.IncompleteUploadError
		if errors.As(err, &incompleteErr) {
			return ctx.JSON(http.StatusConflict, map[string]string{
				"error": incompleteErr.Error(),
			})
		}
		var hashErr object.HashMismatchError
		if errors.As(err, &hashErr) {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": hashErr.Error(),
			})
		}
		var sizeErr object.SizeMismatchError
		if errors.As(err, &sizeErr) {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": sizeErr.Error(),
			})
		}
		var quotaErr object.QuotaExceededError
		if errors.As(err, &quotaErr) {
			return ctx.JSON(http.StatusRequestEntityTooLarge, map[string]string{
				"error": quotaErr.Error(),
			})
		}
		log.Error().Err(err).Str("upload_id", req.UploadID).Msg("Failed to complete upload")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to complete upload",
		})
	}

	return ctx.JSON(http.StatusOK, models.CompleteUploadResponse{
		Key:    meta.Key,
		Size:   meta.Size,
		Mime:   meta.Mime,
		SHA256: meta.SHA256,
	})
}
