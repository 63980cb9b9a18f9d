package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

type AudioStoreBackend string

const (
	FileAudioStoreBackend AudioStoreBackend = "file"
	S3AudioStoreBackend   AudioStoreBackend = "s3"
)

type StorageConfig struct {
	Backend AudioStoreBackend
	// AudioDir holds one artifact per run.
	AudioDir string
	// AudioFileName switches the file store to a single fixed artifact that
	// every run overwrites.
	AudioFileName string
	S3            *S3Config
}

func GetStorageConfig(src *Source) (*StorageConfig, error) {
	backend := AudioStoreBackend(strings.ToLower(src.GetOrDefault("AUDIO_STORE", string(FileAudioStoreBackend))))
	conf := &StorageConfig{
		Backend:       backend,
		AudioDir:      src.GetOrDefault("AUDIO_DIR", "media/audio"),
		AudioFileName: src.Get("AUDIO_FILE_NAME"),
	}

	if conf.AudioFileName != "" && filepath.Base(conf.AudioFileName) != conf.AudioFileName {
		return nil, fmt.Errorf("AUDIO_FILE_NAME must be a plain file name")
	}

	switch backend {
	case FileAudioStoreBackend:
		return conf, nil
	case S3AudioStoreBackend:
		s3Config, err := GetS3Config(src)
		if err != nil {
			return nil, err
		}
		conf.S3 = s3Config
		return conf, nil
	default:
		return nil, fmt.Errorf("unknown AUDIO_STORE %q", backend)
	}
}
