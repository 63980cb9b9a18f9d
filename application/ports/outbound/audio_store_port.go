package outbound

import (
	"context"
	"io"
)

type AudioStorePort interface {
	Save(ctx context.Context, runID string, audio []byte) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	Remove(ctx context.Context, location string) error
}
