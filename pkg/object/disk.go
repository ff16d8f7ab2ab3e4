package object

import (
	"os"
	"path/filepath"
	"syscall"

	"vaultfs/pkg/log"
	"vaultfs/pkg/models"

	"github.com/google/uuid"
)

// GetDiskUsage returns filesystem statistics for the upload root.
func (s *Store) GetDiskUsage() (*models.DiskUsage, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(s.root, &stat); err != nil {
		log.Error().Err(err).Str("root", s.root).Msg("Failed to stat upload root filesystem")
		return nil, err
	}

	bsize := uint64(stat.Bsize) //nolint:gosec // block size is never negative in practice
	total := stat.Blocks * bsize
	available := stat.Bavail * bsize
	free := stat.Bfree * bsize

	return &models.DiskUsage{
		SpaceUsed:      int64(total - free), //nolint:gosec // safe for disk sizes
		SpaceAvailable: int64(available),    //nolint:gosec // safe for disk sizes
		TotalSpace:     int64(total),        //nolint:gosec // safe for disk sizes
	}, nil
}

// Writable probes that the upload root accepts writes.
func (s *Store) Writable() bool {
	probe := filepath.Join(s.root, ".write_test-"+uuid.NewString()[:8])
	if err := os.WriteFile(probe, nil, filePerm); err != nil {
		return false
	}
	_ = os.Remove(probe)
	return true
}
