package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const ConfigFileEnv = "STORY_CONFIG_FILE"

// Source resolves configuration keys. Environment variables win over values
// from the optional YAML file.
type Source struct {
	values map[string]any
}

func NewSource(path string) (*Source, error) {
	values := make(map[string]any)
	if path == "" {
		return &Source{values: values}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &Source{values: values}, nil
}

func (s *Source) Get(key string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return strings.TrimSpace(value)
	}
	value, ok := s.values[key]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func (s *Source) GetOrDefault(key, defaultValue string) string {
	value := s.Get(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (s *Source) GetInt(key string, defaultValue int) (int, error) {
	value := s.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return intValue, nil
}

func (s *Source) GetFloat(key string, defaultValue float64) (float64, error) {
	value := s.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return floatValue, nil
}

func (s *Source) GetBool(key string) (bool, error) {
	value := s.Get(key)
	if value == "" {
		return false, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return boolValue, nil
}

func (s *Source) GetDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := s.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return duration, nil
}
