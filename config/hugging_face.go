package config

import "fmt"

const (
	DefaultCaptionApiUrl = "https://api-inference.huggingface.co/models/Salesforce/blip-image-captioning-base"
	DefaultSpeechApiUrl  = "https://api-inference.huggingface.co/models/facebook/fastspeech2-en-ljspeech"
)

type HuggingFaceConfig struct {
	ApiToken      string
	CaptionApiUrl string
	SpeechApiUrl  string
}

func GetHuggingFaceConfig(src *Source) (*HuggingFaceConfig, error) {
	apiToken := src.Get("HUGGINGFACEHUB_API_TOKEN")
	if apiToken == "" {
		return nil, fmt.Errorf("HUGGINGFACEHUB_API_TOKEN must be set")
	}

	return &HuggingFaceConfig{
		ApiToken:      apiToken,
		CaptionApiUrl: src.GetOrDefault("CAPTION_API_URL", DefaultCaptionApiUrl),
		SpeechApiUrl:  src.GetOrDefault("SPEECH_API_URL", DefaultSpeechApiUrl),
	}, nil
}
