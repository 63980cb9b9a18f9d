package outbound

import (
	"context"

	"github.com/enw/img2audio/domain"
)

type DescribeImageRequest struct {
	RunID string
	Image domain.ImageAsset
}

type ImageDescriberPort interface {
	Describe(ctx context.Context, req DescribeImageRequest) (string, error)
}
