package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"vaultfs/pkg/log"
	"vaultfs/pkg/object"
	"vaultfs/pkg/signer"

	"github.com/labstack/echo/v4"
)

// fetchObject serves object bytes on the unauthenticated capability
// path. The signed URL is the credential: signature and expiry failures
// both surface as the same 403 so the response cannot be used as a
// forgery oracle; the distinction is logged server-side.
func (s *Server) fetchObject(ctx echo.Context) error {
	key, err := signer.DecodeKey(ctx.Param("encodedKey"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid key encoding",
		})
	}

	exp, err := signer.ParseExpiry(ctx.QueryParam("exp"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid expiry",
		})
	}

	if err := s.signer.Verify(key, exp, ctx.QueryParam("sig")); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Rejected signed fetch")
		return ctx.JSON(http.StatusForbidden, map[string]string{
			"error": "invalid or expired signature",
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
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	rng, err := object.ParseRange(ctx.Request().Header.Get("Range"), meta.Size)
	if err != nil {
		var invalidErr object.InvalidRangeError
		if errors.As(err, &invalidErr) {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": invalidErr.Error(),
			})
		}
		var unsatErr object.RangeNotSatisfiableError
		if errors.As(err, &unsatErr) {
			ctx.Response().Header().Set("Content-Range", fmt.Sprintf("bytes */%d", meta.Size))
			return ctx.JSON(http.StatusRequestedRangeNotSatisfiable, map[string]string{
				"error": unsatErr.Error(),
			})
		}
		return err
	}

	rc, err := s.store.Open(key, rng)
	if err != nil {
		var notFoundErr object.KeyNotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": "file not found",
			})
		}
		log.Error().Err(err).Str("key", key).Msg("Failed to open object for fetch")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to open object",
		})
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("key", key).Msg("Failed to close object reader")
		}
	}()

	header := ctx.Response().Header()
	header.Set("Accept-Ranges", "bytes")

	if rng != nil {
		header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.Start, rng.End, meta.Size))
		header.Set(echo.HeaderContentLength, strconv.FormatInt(rng.Length(), 10))
		return ctx.Stream(http.StatusPartialContent, meta.Mime, rc)
	}

	header.Set(echo.HeaderContentLength, strconv.FormatInt(meta.Size, 10))
	return ctx.Stream(http.StatusOK, meta.Mime, rc)
}
