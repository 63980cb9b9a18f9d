package domain

type Stage string

const (
	CaptionStage Stage = "caption"
	StoryStage   Stage = "story"
	SpeechStage  Stage = "speech"
)

const AudioContentType = "audio/flac"

type AudioArtifact struct {
	RunID       string `json:"run_id"`
	Location    string `json:"location"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// StoryRun is the trace of a single pipeline invocation. Audio is only set when
// every stage succeeded.
type StoryRun struct {
	ID          string         `json:"id"`
	Caption     string         `json:"caption,omitempty"`
	Story       string         `json:"story,omitempty"`
	Audio       *AudioArtifact `json:"audio,omitempty"`
	FailedStage Stage          `json:"failed_stage,omitempty"`
}

func NewStoryRun(id string) *StoryRun {
	return &StoryRun{ID: id}
}

func (r *StoryRun) Completed() bool {
	return r.Audio != nil && r.FailedStage == ""
}

type StageEvent struct {
	RunID   string         `json:"run_id"`
	Stage   Stage          `json:"stage"`
	Caption string         `json:"caption,omitempty"`
	Story   string         `json:"story,omitempty"`
	Audio   *AudioArtifact `json:"audio,omitempty"`
}

func (r *StoryRun) ToEvent(stage Stage) StageEvent {
	event := StageEvent{
		RunID: r.ID,
		Stage: stage,
	}
	switch stage {
	case CaptionStage:
		event.Caption = r.Caption
	case StoryStage:
		event.Story = r.Story
	case SpeechStage:
		event.Audio = r.Audio
	}
	return event
}
