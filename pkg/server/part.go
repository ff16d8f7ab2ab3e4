package server

import (
	"bytes"
	"encoding/base64"
	"errors"
	"net/http"

	"vaultfs/pkg/log"
	"vaultfs/pkg/models"
	"vaultfs/pkg/upload"

	"github.com/labstack/echo/v4"
)

func (s *Server) uploadPart(ctx echo.Context) error {
	if _, err := principal(ctx); err != nil {
		return err
	}

	var req models.UploadPartRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed request body",
		})
	}

	chunk, err := base64.StdEncoding.DecodeString(req.ChunkBase64)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid base64 chunk data",
		})
	}

	if _, err := s.uploads.PutPart(req.UploadID, req.PartNumber, bytes.NewReader(chunk)); err != nil {
		var notFoundErr upload.SessionNotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": notFoundErr.Error(),
			})
		}
		var partErr upload.PartNumberError
		if errors.As(err, &partErr) {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": partErr.Error(),
			})
		}
		var tooLargeErr upload.PayloadTooLargeError
		if errors.As(err, &tooLargeErr) {
			return ctx.JSON(http.StatusRequestEntityTooLarge, map[string]string{
				"error": tooLargeErr.Error(),
			})
		}
		log.Error().Err(err).Str("upload_id", req.UploadID).Int("part", req.PartNumber).Msg("Failed to store part")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to store part",
		})
	}

	return ctx.JSON(http.StatusOK, models.UploadPartResponse{
		Status:     "success",
		PartNumber: req.PartNumber,
	})
}
