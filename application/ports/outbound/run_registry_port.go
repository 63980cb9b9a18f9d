package outbound

import "github.com/enw/img2audio/domain"

type RunRegistryPort interface {
	Put(run *domain.StoryRun)
	Get(runID string) (*domain.StoryRun, bool)
}
