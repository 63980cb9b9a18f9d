package services

import (
	"context"

	"github.com/enw/img2audio/application/ports/inbound"
	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/domain"
	"github.com/google/uuid"
)

type storyPipeline struct {
	logger         outbound.LoggerPort
	captioner      inbound.CaptionerPort
	storyGenerator inbound.StoryGeneratorPort
	speaker        inbound.SpeakerPort
}

func NewStoryPipeline(logger outbound.LoggerPort, captioner inbound.CaptionerPort,
	storyGenerator inbound.StoryGeneratorPort, speaker inbound.SpeakerPort) inbound.StoryPipelinePort {
	return &storyPipeline{
		logger:         logger,
		captioner:      captioner,
		storyGenerator: storyGenerator,
		speaker:        speaker,
	}
}

// Run executes caption, story and speech in order and stops at the first
// failure. The returned run always carries whatever was produced so far; on
// error it never carries audio.
func (s *storyPipeline) Run(ctx context.Context, params inbound.RunPipelineParams) (*domain.StoryRun, error) {
	runID := params.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	run := domain.NewStoryRun(runID)
	logger := s.logger.With(map[string]interface{}{"run_id": runID})

	logger.InfoWithFields("Starting story pipeline", map[string]interface{}{
		"image":  params.Image.Name,
		"format": params.Image.Format,
	})

	caption, err := s.captioner.Caption(ctx, inbound.CaptionParams{RunID: runID, Image: params.Image})
	if err != nil {
		return s.fail(logger, run, domain.CaptionStage, err)
	}
	run.Caption = caption
	s.notify(params.Observer, run, domain.CaptionStage)

	story, err := s.storyGenerator.Generate(ctx, run.Caption)
	if err != nil {
		return s.fail(logger, run, domain.StoryStage, err)
	}
	run.Story = story
	s.notify(params.Observer, run, domain.StoryStage)

	artifact, err := s.speaker.Speak(ctx, inbound.SpeakParams{RunID: runID, Story: run.Story})
	if err != nil {
		return s.fail(logger, run, domain.SpeechStage, err)
	}
	run.Audio = artifact
	s.notify(params.Observer, run, domain.SpeechStage)

	logger.InfoWithFields("Story pipeline complete", map[string]interface{}{
		"audio_location": artifact.Location,
		"audio_size":     artifact.Size,
	})

	return run, nil
}

func (s *storyPipeline) fail(logger outbound.LoggerPort, run *domain.StoryRun, stage domain.Stage, err error) (*domain.StoryRun, error) {
	run.FailedStage = stage
	run.Audio = nil
	logger.ErrorWithFields(err, "Story pipeline failed", map[string]interface{}{
		"stage": stage,
		"kind":  domain.KindOf(err),
	})
	return run, &domain.StageError{Stage: stage, Err: err}
}

func (s *storyPipeline) notify(observer inbound.PipelineObserver, run *domain.StoryRun, stage domain.Stage) {
	if observer == nil {
		return
	}
	observer.OnStage(run.ToEvent(stage))
}
