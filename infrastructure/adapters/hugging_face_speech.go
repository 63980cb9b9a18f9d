package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/config"
	"github.com/enw/img2audio/domain"
)

type SpeechRequest struct {
	Inputs string `json:"inputs"`
}

type huggingFaceSpeech struct {
	ContentFetcher
	logger  outbound.LoggerPort
	hfConf  *config.HuggingFaceConfig
	timeout time.Duration
}

func NewHuggingFaceSpeech(contentFetcher ContentFetcher, hfConf *config.HuggingFaceConfig, timeout time.Duration,
	logger outbound.LoggerPort) outbound.SpeechSynthesizerPort {
	return &huggingFaceSpeech{
		ContentFetcher: contentFetcher,
		logger:         logger,
		hfConf:         hfConf,
		timeout:        timeout,
	}
}

func (h *huggingFaceSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := h.getRequest(ctx, text)
	if err != nil {
		h.logger.Error(err, "Failed to construct the HTTP request for speech synthesis")
		return nil, domain.RemoteUnavailable(err)
	}

	audio, err := h.FetchContent(req)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, domain.MalformedResponse(errors.New("speech response has an empty body"))
	}

	return audio, nil
}

func (h *huggingFaceSpeech) getRequest(ctx context.Context, text string) (*http.Request, error) {
	jsonPayload, err := json.Marshal(SpeechRequest{Inputs: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.hfConf.SpeechApiUrl, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, err
	}

	reqHeaders := map[string]string{
		"Authorization": "Bearer " + h.hfConf.ApiToken,
		"Content-Type":  "application/json",
		"Accept":        domain.AudioContentType,
	}
	for key, value := range reqHeaders {
		req.Header.Set(key, value)
	}

	return req, nil
}
