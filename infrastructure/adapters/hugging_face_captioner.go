package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/config"
	"github.com/enw/img2audio/domain"
)

// captionCandidate covers the labeled-text objects returned by captioning
// models. Only the first non-empty field is used.
type captionCandidate struct {
	GeneratedText string `json:"generated_text"`
	Label         string `json:"label"`
	Text          string `json:"text"`
}

func (c captionCandidate) text() string {
	for _, value := range []string{c.GeneratedText, c.Label, c.Text} {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

type huggingFaceCaptioner struct {
	ContentFetcher
	logger  outbound.LoggerPort
	hfConf  *config.HuggingFaceConfig
	timeout time.Duration
}

func NewHuggingFaceCaptioner(contentFetcher ContentFetcher, hfConf *config.HuggingFaceConfig, timeout time.Duration,
	logger outbound.LoggerPort) outbound.ImageDescriberPort {
	return &huggingFaceCaptioner{
		ContentFetcher: contentFetcher,
		logger:         logger,
		hfConf:         hfConf,
		timeout:        timeout,
	}
}

func (h *huggingFaceCaptioner) Describe(ctx context.Context, req outbound.DescribeImageRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	httpReq, err := h.getRequest(ctx, req.Image)
	if err != nil {
		h.logger.Error(err, "Failed to create the HTTP request")
		return "", domain.RemoteUnavailable(err)
	}

	rawRes, err := h.FetchContent(httpReq)
	if err != nil {
		return "", err
	}

	caption, err := parseCaption(rawRes)
	if err != nil {
		h.logger.ErrorWithFields(err, "Failed to parse the caption response", map[string]interface{}{
			"run_id": req.RunID,
			"body":   truncate(string(rawRes), maxErrorBodyBytes),
		})
		return "", domain.MalformedResponse(err)
	}

	return caption, nil
}

func (h *huggingFaceCaptioner) getRequest(ctx context.Context, image domain.ImageAsset) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.hfConf.CaptionApiUrl, bytes.NewReader(image.Data))
	if err != nil {
		return nil, err
	}

	reqHeaders := map[string]string{
		"Authorization": "Bearer " + h.hfConf.ApiToken,
		"Content-Type":  string(image.Format),
		"Accept":        "application/json",
	}
	for key, value := range reqHeaders {
		req.Header.Set(key, value)
	}

	return req, nil
}

// parseCaption accepts either a single object or an array of objects and
// returns the first caption found.
func parseCaption(payload []byte) (string, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return "", errors.New("empty caption response")
	}

	var candidates []captionCandidate
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &candidates); err != nil {
			return "", fmt.Errorf("failed to decode caption array: %w", err)
		}
	case '{':
		var candidate captionCandidate
		if err := json.Unmarshal(trimmed, &candidate); err != nil {
			return "", fmt.Errorf("failed to decode caption object: %w", err)
		}
		candidates = append(candidates, candidate)
	default:
		return "", errors.New("caption response is not a JSON object or array")
	}

	for _, candidate := range candidates {
		if text := candidate.text(); text != "" {
			return text, nil
		}
	}

	return "", errors.New("caption response has no text field")
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	for limit > 0 && !utf8.RuneStart(value[limit]) {
		limit--
	}
	return value[:limit]
}
