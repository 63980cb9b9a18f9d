package adapters

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/domain"
)

type fileImageStore struct {
	logger  outbound.LoggerPort
	baseDir string
}

func NewFileImageStore(baseDir string, logger outbound.LoggerPort) outbound.ImageStorePort {
	return &fileImageStore{
		logger:  logger,
		baseDir: baseDir,
	}
}

// Save writes the image to a path derived from its original file name. The run
// ID prefix keeps concurrent uploads of equally named files apart.
func (f *fileImageStore) Save(ctx context.Context, runID string, image domain.ImageAsset) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(f.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	path := filepath.Join(f.baseDir, fmt.Sprintf("%s-%s", runID, image.BaseName()))
	if err := os.WriteFile(path, image.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	f.logger.DebugWithFields("Persisted uploaded image", map[string]interface{}{
		"run_id": runID,
		"path":   path,
	})

	return path, nil
}

func (f *fileImageStore) Remove(_ context.Context, path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
