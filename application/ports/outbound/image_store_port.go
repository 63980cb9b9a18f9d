package outbound

import (
	"context"

	"github.com/enw/img2audio/domain"
)

type ImageStorePort interface {
	Save(ctx context.Context, runID string, image domain.ImageAsset) (string, error)
	Remove(ctx context.Context, path string) error
}
