package dto

import (
	"github.com/enw/img2audio/domain"
)

type CreateStoryResponse struct {
	ID        string `json:"id"`
	Caption   string `json:"caption"`
	Story     string `json:"story"`
	AudioURL  string `json:"audio_url"`
	AudioSize int    `json:"audio_size"`
}

type StoryRunResponse struct {
	ID          string `json:"id"`
	Caption     string `json:"caption,omitempty"`
	Story       string `json:"story,omitempty"`
	AudioURL    string `json:"audio_url,omitempty"`
	AudioSize   int    `json:"audio_size,omitempty"`
	FailedStage string `json:"failed_stage,omitempty"`
}

// StageEventResponse is the payload of the caption, story and audio events on
// the streaming endpoint.
type StageEventResponse struct {
	ID        string `json:"id"`
	Stage     string `json:"stage"`
	Caption   string `json:"caption,omitempty"`
	Story     string `json:"story,omitempty"`
	AudioURL  string `json:"audio_url,omitempty"`
	AudioSize int    `json:"audio_size,omitempty"`
}

type ErrorResponse struct {
	ID      string `json:"id,omitempty"`
	Error   string `json:"error"`
	Stage   string `json:"stage,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Caption string `json:"caption,omitempty"`
	Story   string `json:"story,omitempty"`
}

func AudioURL(runID string) string {
	return "/stories/" + runID + "/audio"
}

func NewCreateStoryResponse(run *domain.StoryRun) CreateStoryResponse {
	res := CreateStoryResponse{
		ID:      run.ID,
		Caption: run.Caption,
		Story:   run.Story,
	}
	if run.Audio != nil {
		res.AudioURL = AudioURL(run.ID)
		res.AudioSize = run.Audio.Size
	}
	return res
}

func NewStoryRunResponse(run *domain.StoryRun) StoryRunResponse {
	res := StoryRunResponse{
		ID:          run.ID,
		Caption:     run.Caption,
		Story:       run.Story,
		FailedStage: string(run.FailedStage),
	}
	if run.Audio != nil {
		res.AudioURL = AudioURL(run.ID)
		res.AudioSize = run.Audio.Size
	}
	return res
}

func NewStageEventResponse(event domain.StageEvent) StageEventResponse {
	res := StageEventResponse{
		ID:      event.RunID,
		Stage:   string(event.Stage),
		Caption: event.Caption,
		Story:   event.Story,
	}
	if event.Audio != nil {
		res.AudioURL = AudioURL(event.RunID)
		res.AudioSize = event.Audio.Size
	}
	return res
}
