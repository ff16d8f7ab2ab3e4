package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"vaultfs/pkg/models"
	"vaultfs/pkg/object"
	"vaultfs/pkg/signer"

	"github.com/labstack/echo/v4"
)

func (s *Server) getSignedURL(ctx echo.Context) error {
	p, err := principal(ctx)
	if err != nil {
		return err
	}

	key := ctx.QueryParam("key")
	if key == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "key parameter is required",
		})
	}

	ttl := 0
	if raw := ctx.QueryParam("ttl"); raw != "" {
		ttl, err = strconv.Atoi(raw)
		if err != nil || ttl < 0 {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid ttl",
			})
		}
	}

	meta, err := s.store.ReadMetadata(key)
	if err != nil {
		var notFoundErr object.KeyNotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": "file not found",
			})
		}
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}
	if meta.OwnerID != "" && meta.OwnerID != p.UserID {
		return ctx.JSON(http.StatusForbidden, map[string]string{
			"error": "access denied",
		})
	}

	exp, sig := s.signer.Sign(key, time.Duration(ttl)*time.Second)
	url := fmt.Sprintf("%s/get/%s?exp=%d&sig=%s", s.baseURL, signer.EncodeKey(key), exp, sig)

	return ctx.JSON(http.StatusOK, models.SignedURLResponse{
		URL:       url,
		ExpiresIn: int(exp - time.Now().Unix()),
	})
}
