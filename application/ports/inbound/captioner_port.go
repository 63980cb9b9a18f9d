package inbound

import (
	"context"

	"github.com/enw/img2audio/domain"
)

type CaptionParams struct {
	RunID string
	Image domain.ImageAsset
}

type CaptionerPort interface {
	Caption(ctx context.Context, params CaptionParams) (string, error)
}
