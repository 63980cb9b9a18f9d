package adapters

import (
	"context"
	"time"

	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/domain"
	"github.com/patrickmn/go-cache"
)

// cacheRunRegistry keeps recent run traces in memory so the presentation layer
// can show the caption, story and audio after the request that produced them.
// Expired runs take their audio artifact with them.
type cacheRunRegistry struct {
	logger     outbound.LoggerPort
	runs       *cache.Cache
	audioStore outbound.AudioStorePort
}

func NewCacheRunRegistry(ttl time.Duration, audioStore outbound.AudioStorePort, logger outbound.LoggerPort) outbound.RunRegistryPort {
	r := &cacheRunRegistry{
		logger:     logger,
		runs:       cache.New(ttl, ttl/2+time.Second),
		audioStore: audioStore,
	}
	r.runs.OnEvicted(r.onEvicted)
	return r
}

func (r *cacheRunRegistry) Put(run *domain.StoryRun) {
	r.runs.SetDefault(run.ID, run)
}

func (r *cacheRunRegistry) Get(runID string) (*domain.StoryRun, bool) {
	value, ok := r.runs.Get(runID)
	if !ok {
		return nil, false
	}
	run, ok := value.(*domain.StoryRun)
	return run, ok
}

func (r *cacheRunRegistry) onEvicted(runID string, value interface{}) {
	run, ok := value.(*domain.StoryRun)
	if !ok || run.Audio == nil {
		return
	}
	if err := r.audioStore.Remove(context.Background(), run.Audio.Location); err != nil {
		r.logger.ErrorWithFields(err, "Failed to remove expired audio artifact", map[string]interface{}{
			"run_id":   runID,
			"location": run.Audio.Location,
		})
		return
	}
	r.logger.DebugWithFields("Expired run removed", map[string]interface{}{
		"run_id": runID,
	})
}
