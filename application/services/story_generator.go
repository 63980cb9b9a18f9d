package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/enw/img2audio/application/ports/inbound"
	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/domain"
)

const storyPromptTemplate = "You are a story teller;\n" +
	"You can generate a short story based on a simple narrative, the story should be no more than %d words;\n" +
	"\n" +
	"CONTEXT: %s\n" +
	"STORY:\n"

const storyLabel = "STORY:"

type GenerationSettings struct {
	Model       string
	Temperature float32
	MaxWords    int
}

type storyGenerator struct {
	logger     outbound.LoggerPort
	completion outbound.CompletionPort
	settings   GenerationSettings
}

func NewStoryGenerator(logger outbound.LoggerPort, completion outbound.CompletionPort, settings GenerationSettings) inbound.StoryGeneratorPort {
	return &storyGenerator{
		logger:     logger,
		completion: completion,
		settings:   settings,
	}
}

// Generate turns a scenario into a short story. The word bound is part of the
// prompt only; longer stories are returned unchanged.
func (s *storyGenerator) Generate(ctx context.Context, scenario string) (string, error) {
	scenario = strings.TrimSpace(scenario)
	if scenario == "" {
		return "", domain.InvalidInput("scenario is empty")
	}

	completion, err := s.completion.Complete(ctx, outbound.CompletionRequest{
		Model:       s.settings.Model,
		Temperature: s.settings.Temperature,
		Prompt:      BuildStoryPrompt(scenario, s.settings.MaxWords),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to generate story", map[string]interface{}{
			"model": s.settings.Model,
		})
		return "", err
	}

	story := cleanStory(completion)
	if story == "" {
		return "", domain.MalformedResponse(fmt.Errorf("completion contained no story"))
	}

	if words := len(strings.Fields(story)); words > s.settings.MaxWords {
		s.logger.WarnWithFields("Story exceeds the requested length", map[string]interface{}{
			"words":     words,
			"max_words": s.settings.MaxWords,
		})
	}

	return story, nil
}

func BuildStoryPrompt(scenario string, maxWords int) string {
	return fmt.Sprintf(storyPromptTemplate, maxWords, scenario)
}

// cleanStory strips template scaffolding the model may echo back.
func cleanStory(completion string) string {
	story := strings.TrimSpace(completion)
	if index := strings.LastIndex(story, storyLabel); index != -1 {
		story = story[index+len(storyLabel):]
	}
	story = strings.TrimSpace(story)
	if len(story) >= 2 && story[0] == '"' && story[len(story)-1] == '"' {
		story = strings.TrimSpace(story[1 : len(story)-1])
	}
	return story
}
