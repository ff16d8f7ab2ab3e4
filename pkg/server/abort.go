package server

import (
	"errors"
	"net/http"

	"vaultfs/pkg/upload"

	"github.com/labstack/echo/v4"
)

func (s *Server) abortUpload(ctx echo.Context) error {
	if _, err := principal(ctx); err != nil {
		return err
	}

	uploadID := ctx.Param("uploadId")
	if err := s.uploads.Abort(uploadID); err != nil {
		var notFoundErr upload.SessionNotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": notFoundErr.Error(),
			})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to abort upload",
		})
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"status":   "aborted",
		"uploadId": uploadID,
	})
}
