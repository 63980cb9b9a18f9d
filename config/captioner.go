package config

import (
	"fmt"
	"strings"
)

type CaptionerMode string

const (
	RemoteCaptionerMode CaptionerMode = "remote"
	LocalCaptionerMode  CaptionerMode = "local"
)

type CaptionerConfig struct {
	Mode        CaptionerMode
	LocalBinary string
	LocalModel  string
	LocalArgs   []string
	ImageDir    string
}

func GetCaptionerConfig(src *Source) (*CaptionerConfig, error) {
	mode := CaptionerMode(strings.ToLower(src.GetOrDefault("CAPTIONER_MODE", string(RemoteCaptionerMode))))
	conf := &CaptionerConfig{
		Mode:     mode,
		ImageDir: src.GetOrDefault("IMAGE_DIR", "media/images"),
	}

	switch mode {
	case RemoteCaptionerMode:
		return conf, nil
	case LocalCaptionerMode:
		conf.LocalBinary = src.Get("LOCAL_CAPTIONER_BINARY")
		if conf.LocalBinary == "" {
			return nil, fmt.Errorf("LOCAL_CAPTIONER_BINARY must be set")
		}
		conf.LocalModel = src.Get("LOCAL_CAPTIONER_MODEL")
		if conf.LocalModel == "" {
			return nil, fmt.Errorf("LOCAL_CAPTIONER_MODEL must be set")
		}
		conf.LocalArgs = strings.Fields(src.Get("LOCAL_CAPTIONER_ARGS"))
		return conf, nil
	default:
		return nil, fmt.Errorf("unknown CAPTIONER_MODE %q", mode)
	}
}
