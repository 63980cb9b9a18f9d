package inbound

import (
	"context"

	"github.com/enw/img2audio/domain"
)

// PipelineObserver is notified after every stage that completes successfully.
type PipelineObserver interface {
	OnStage(event domain.StageEvent)
}

type ObserverFunc func(event domain.StageEvent)

func (f ObserverFunc) OnStage(event domain.StageEvent) {
	f(event)
}

type RunPipelineParams struct {
	RunID    string
	Image    domain.ImageAsset
	Observer PipelineObserver
}

type StoryPipelinePort interface {
	Run(ctx context.Context, params RunPipelineParams) (*domain.StoryRun, error)
}
