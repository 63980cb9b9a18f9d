package inbound

import (
	"context"

	"github.com/enw/img2audio/domain"
)

type SpeakParams struct {
	RunID string
	Story string
}

type SpeakerPort interface {
	Speak(ctx context.Context, params SpeakParams) (*domain.AudioArtifact, error)
}
