package config

import (
	"fmt"
	"strings"
)

type StoryProvider string

const (
	OpenAIStoryProvider StoryProvider = "openai"
	GeminiStoryProvider StoryProvider = "gemini"
)

type StoryConfig struct {
	Provider    StoryProvider
	Temperature float32
	MaxWords    int
}

func GetStoryConfig(src *Source) (*StoryConfig, error) {
	provider := StoryProvider(strings.ToLower(src.GetOrDefault("STORY_PROVIDER", string(OpenAIStoryProvider))))
	if provider != OpenAIStoryProvider && provider != GeminiStoryProvider {
		return nil, fmt.Errorf("unknown STORY_PROVIDER %q", provider)
	}

	temperature, err := src.GetFloat("STORY_TEMPERATURE", 1)
	if err != nil {
		return nil, err
	}
	if temperature < 0 || temperature > 2 {
		return nil, fmt.Errorf("STORY_TEMPERATURE must be between 0 and 2")
	}

	maxWords, err := src.GetInt("STORY_MAX_WORDS", 120)
	if err != nil {
		return nil, err
	}
	if maxWords <= 0 {
		return nil, fmt.Errorf("STORY_MAX_WORDS must be positive")
	}

	return &StoryConfig{
		Provider:    provider,
		Temperature: float32(temperature),
		MaxWords:    maxWords,
	}, nil
}
