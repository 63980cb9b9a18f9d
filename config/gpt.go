package config

import (
	"fmt"
)

type GptConfig struct {
	ApiUrl string
	ApiKey string
	Model  string
}

func GetGptConfig(src *Source) (*GptConfig, error) {
	apiKey := src.Get("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY must be set")
	}
	return &GptConfig{
		ApiUrl: src.GetOrDefault("GPT_API_URL", "https://api.openai.com/v1"),
		ApiKey: apiKey,
		Model:  src.GetOrDefault("GPT_MODEL", "gpt-3.5-turbo"),
	}, nil
}
