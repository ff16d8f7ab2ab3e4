package server

import (
	"errors"
	"net/http"
	"time"

	"vaultfs/pkg/keypath"
	"vaultfs/pkg/log"
	"vaultfs/pkg/models"
	"vaultfs/pkg/object"
	"vaultfs/pkg/signer"

	"github.com/labstack/echo/v4"
)

// keyParam decodes the opaque key path parameter.
func keyParam(ctx echo.Context) (string, error) {
	return signer.DecodeKey(ctx.Param("key"))
}

func (s *Server) getMetadata(ctx echo.Context) error {
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
		log.Error().Err(err).Str("key", key).Msg("Failed to read metadata")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to read metadata",
		})
	}

	if meta.OwnerID != "" && meta.OwnerID != p.UserID {
		return ctx.JSON(http.StatusForbidden, map[string]string{
			"error": "access denied",
		})
	}

	return ctx.JSON(http.StatusOK, models.MetadataResponse{
		Size:      meta.Size,
		Mime:      meta.Mime,
		SHA256:    meta.SHA256,
		CreatedAt: meta.CreatedAt.Format(time.RFC3339),
	})
}
