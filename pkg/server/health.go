package server

import (
	"net/http"

	"vaultfs/pkg/log"
	"vaultfs/pkg/models"

	"github.com/labstack/echo/v4"
)

const bytesPerGB = 1 << 30

func (s *Server) healthz(ctx echo.Context) error {
	usage, err := s.store.GetDiskUsage()
	if err != nil {
		log.Error().Err(err).Msg("Health check failed to stat disk")
		return ctx.JSON(http.StatusServiceUnavailable, models.HealthResponse{Status: "unhealthy"})
	}

	writable := s.store.Writable()
	freeGB := float64(usage.SpaceAvailable) / bytesPerGB

	status := "healthy"
	code := http.StatusOK
	if !writable || freeGB < 1 {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	return ctx.JSON(code, models.HealthResponse{
		Status:     status,
		DiskFreeGB: freeGB,
		Writable:   writable,
	})
}
