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

func (s *Server) initUpload(ctx echo.Context) error {
	p, err := principal(ctx)
	if err != nil {
		return err
	}

	var req models.InitUploadRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed request body",
		})
	}

	result, err := s.uploads.Init(p.UserID, req.Mode, req.Files, req.Folder, req.Parts)
	if err != nil {
		var invalidErr upload.InvalidInputError
		if errors.As(err, &invalidErr) {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": invalidErr.Error(),
			})
		}
		var quotaErr object.QuotaExceededError
		if errors.As(err, &quotaErr) {
			return ctx.JSON(http.StatusRequestEntityTooLarge, map[string]string{
				"error": quotaErr.Error(),
			})
		}
		log.Error().Err(err).Str("owner_id", p.UserID).Msg("Failed to init upload")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to init upload",
		})
	}

	return ctx.JSON(http.StatusOK, models.InitUploadResponse{
		UploadID: result.UploadID,
		Parts:    result.Parts,
	})
}
