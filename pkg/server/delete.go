package server

import (
	"errors"
	"net/http"

	"vaultfs/pkg/keypath"
	"vaultfs/pkg/log"
	"vaultfs/pkg/object"

	"github.com/labstack/echo/v4"
)

// deleteObject handles DELETE /v1/files/{key} requests.
func (s *Server) deleteObject(ctx echo.Context) error {
	p, err := principal(ctx)
	if err != nil {
		return err
	}

	key, err := keyParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid key encoding",
		})
	}

	meta, err := s.store.ReadMetadata(key)
	if err != nil {
		var notFoundErr object.KeyNotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": "file not found",
			})
		}
		var invalidErr keypath.InvalidKeyError
		if errors.As(err, &invalidErr) {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": invalidErr.Error(),
			})
		}
		log.Error().Err(err).Str("key", key).Msg("Failed to read metadata for delete")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	if meta.OwnerID != "" && meta.OwnerID != p.UserID {
		return ctx.JSON(http.StatusForbidden, map[string]string{
			"error": "access denied",
		})
	}

	if err := s.store.Delete(key); err != nil {
		var notFoundErr object.KeyNotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": "file not found",
			})
		}
		log.Error().Err(err).Str("key", key).Msg("Delete failed")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"status": "deleted",
		"key":    key,
	})
}
