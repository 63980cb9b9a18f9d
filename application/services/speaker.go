package services

import (
	"context"

	"github.com/enw/img2audio/application/ports/inbound"
	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/domain"
)

type speaker struct {
	logger      outbound.LoggerPort
	synthesizer outbound.SpeechSynthesizerPort
	audioStore  outbound.AudioStorePort
}

func NewSpeaker(logger outbound.LoggerPort, synthesizer outbound.SpeechSynthesizerPort, audioStore outbound.AudioStorePort) inbound.SpeakerPort {
	return &speaker{
		logger:      logger,
		synthesizer: synthesizer,
		audioStore:  audioStore,
	}
}

func (s *speaker) Speak(ctx context.Context, params inbound.SpeakParams) (*domain.AudioArtifact, error) {
	if params.Story == "" {
		return nil, domain.InvalidInput("story is empty")
	}

	audio, err := s.synthesizer.Synthesize(ctx, params.Story)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to synthesize speech", map[string]interface{}{
			"run_id": params.RunID,
		})
		return nil, err
	}

	location, err := s.audioStore.Save(ctx, params.RunID, audio)
	if err != nil {
		return nil, domain.WriteFailure(err)
	}

	return &domain.AudioArtifact{
		RunID:       params.RunID,
		Location:    location,
		ContentType: domain.AudioContentType,
		Size:        len(audio),
	}, nil
}
