package server

import (
	"net/http"
	"time"

	"vaultfs/pkg/log"
	"vaultfs/pkg/models"

	"github.com/labstack/echo/v4"
)

func (s *Server) listFiles(ctx echo.Context) error {
	p, err := principal(ctx)
	if err != nil {
		return err
	}

	objects, err := s.store.Index().List(p.UserID, ctx.QueryParam("folder"))
	if err != nil {
		log.Error().Err(err).Str("owner_id", p.UserID).Msg("Failed to list files")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list files",
		})
	}

	files := make([]models.FileListItem, 0, len(objects))
	var totalSize int64
	for _, meta := range objects {
		files = append(files, models.FileListItem{
			Key:       meta.Key,
			Filename:  meta.OriginalName,
			Size:      meta.Size,
			Mime:      meta.Mime,
			CreatedAt: meta.CreatedAt.Format(time.RFC3339),
			Folder:    meta.Folder,
		})
		totalSize += meta.Size
	}

	return ctx.JSON(http.StatusOK, models.FileListResponse{
		Files:      files,
		TotalCount: len(files),
		TotalSize:  totalSize,
	})
}
