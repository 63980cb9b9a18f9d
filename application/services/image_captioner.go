package services

import (
	"context"
	"errors"
	"strings"

	"github.com/enw/img2audio/application/ports/inbound"
	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/domain"
)

type imageCaptioner struct {
	logger    outbound.LoggerPort
	describer outbound.ImageDescriberPort
}

func NewImageCaptioner(logger outbound.LoggerPort, describer outbound.ImageDescriberPort) inbound.CaptionerPort {
	return &imageCaptioner{
		logger:    logger,
		describer: describer,
	}
}

func (c *imageCaptioner) Caption(ctx context.Context, params inbound.CaptionParams) (string, error) {
	if len(params.Image.Data) == 0 {
		return "", domain.InvalidInput("image is empty")
	}

	caption, err := c.describer.Describe(ctx, outbound.DescribeImageRequest{
		RunID: params.RunID,
		Image: params.Image,
	})
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to caption image", map[string]interface{}{
			"run_id": params.RunID,
			"image":  params.Image.Name,
		})
		return "", err
	}

	caption = strings.TrimSpace(caption)
	if caption == "" {
		return "", domain.MalformedResponse(errors.New("caption is empty"))
	}

	c.logger.DebugWithFields("Image captioned", map[string]interface{}{
		"run_id":  params.RunID,
		"caption": caption,
	})

	return caption, nil
}
