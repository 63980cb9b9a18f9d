package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/config"
)

const audioFileExtension = ".flac"

type fileAudioStore struct {
	logger    outbound.LoggerPort
	baseDir   string
	fixedName string
	mutex     sync.Mutex
}

// NewFileAudioStore keeps one artifact per run unless a fixed file name is
// configured, in which case every run overwrites the same file.
func NewFileAudioStore(conf *config.StorageConfig, logger outbound.LoggerPort) outbound.AudioStorePort {
	return &fileAudioStore{
		logger:    logger,
		baseDir:   conf.AudioDir,
		fixedName: conf.AudioFileName,
	}
}

func (f *fileAudioStore) Save(ctx context.Context, runID string, audio []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(f.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	path := f.pathFor(runID)
	if f.fixedName != "" {
		f.mutex.Lock()
		defer f.mutex.Unlock()
	}

	if err := f.writeAtomically(path, audio); err != nil {
		f.logger.ErrorWithFields(err, "Failed to write audio artifact", map[string]interface{}{
			"run_id": runID,
			"path":   path,
		})
		return "", err
	}

	f.logger.DebugWithFields("Audio artifact written", map[string]interface{}{
		"run_id": runID,
		"path":   path,
		"size":   len(audio),
	})

	return path, nil
}

func (f *fileAudioStore) Open(_ context.Context, location string) (io.ReadCloser, error) {
	path, err := f.resolve(location)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes a per-run artifact. The fixed artifact belongs to whichever
// run wrote last, so it is never removed on behalf of an older run.
func (f *fileAudioStore) Remove(_ context.Context, location string) error {
	if f.fixedName != "" {
		return nil
	}
	path, err := f.resolve(location)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *fileAudioStore) pathFor(runID string) string {
	if f.fixedName != "" {
		return filepath.Join(f.baseDir, f.fixedName)
	}
	return filepath.Join(f.baseDir, runID+audioFileExtension)
}

func (f *fileAudioStore) writeAtomically(path string, audio []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".audio-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(audio)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (f *fileAudioStore) resolve(location string) (string, error) {
	base, err := filepath.Abs(f.baseDir)
	if err != nil {
		return "", err
	}
	path, err := filepath.Abs(location)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", fmt.Errorf("audio location %q is outside of %q", location, f.baseDir)
	}
	return path, nil
}
