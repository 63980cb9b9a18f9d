package config

import "fmt"

type GeminiConfig struct {
	ApiKey string
	Model  string
}

func GetGeminiConfig(src *Source) (*GeminiConfig, error) {
	apiKey := src.Get("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY must be set")
	}
	return &GeminiConfig{
		ApiKey: apiKey,
		Model:  src.GetOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
	}, nil
}
