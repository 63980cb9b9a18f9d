package config

import (
	"fmt"
	"os"
	"time"
)

const DefaultRemoteCallTimeout = 60 * time.Second

// Config is loaded once at process start and treated as read-only afterwards.
// Provider sections are nil when the selected mode does not need them.
type Config struct {
	Mock              bool
	RemoteCallTimeout time.Duration
	Server            *ServerConfig
	Storage           *StorageConfig
	Captioner         *CaptionerConfig
	Story             *StoryConfig
	HuggingFace       *HuggingFaceConfig
	Gpt               *GptConfig
	Gemini            *GeminiConfig
}

func Load() (*Config, error) {
	src, err := NewSource(os.Getenv(ConfigFileEnv))
	if err != nil {
		return nil, err
	}
	return LoadFrom(src)
}

func LoadFrom(src *Source) (*Config, error) {
	mock, err := src.GetBool("PIPELINE_MOCK")
	if err != nil {
		return nil, err
	}

	timeout, err := src.GetDuration("REMOTE_CALL_TIMEOUT", DefaultRemoteCallTimeout)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("REMOTE_CALL_TIMEOUT must be positive")
	}

	conf := &Config{
		Mock:              mock,
		RemoteCallTimeout: timeout,
	}

	if conf.Server, err = GetServerConfig(src); err != nil {
		return nil, err
	}
	if conf.Storage, err = GetStorageConfig(src); err != nil {
		return nil, err
	}
	if conf.Captioner, err = GetCaptionerConfig(src); err != nil {
		return nil, err
	}
	if conf.Story, err = GetStoryConfig(src); err != nil {
		return nil, err
	}

	if mock {
		return conf, nil
	}

	if conf.HuggingFace, err = GetHuggingFaceConfig(src); err != nil {
		return nil, err
	}

	switch conf.Story.Provider {
	case OpenAIStoryProvider:
		conf.Gpt, err = GetGptConfig(src)
	case GeminiStoryProvider:
		conf.Gemini, err = GetGeminiConfig(src)
	}
	if err != nil {
		return nil, err
	}

	return conf, nil
}
