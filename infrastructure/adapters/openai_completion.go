package adapters

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/config"
	"github.com/enw/img2audio/domain"
	"github.com/sashabaranov/go-openai"
)

var rejectionCodes = map[string]struct{}{
	"content_filter":           {},
	"content_policy_violation": {},
	"insufficient_quota":       {},
	"rate_limit_exceeded":      {},
}

type openAICompletion struct {
	logger  outbound.LoggerPort
	client  *openai.Client
	timeout time.Duration
}

func NewOpenAICompletion(gptConfig *config.GptConfig, timeout time.Duration, logger outbound.LoggerPort) outbound.CompletionPort {
	clientConfig := openai.DefaultConfig(gptConfig.ApiKey)
	clientConfig.BaseURL = strings.TrimRight(gptConfig.ApiUrl, "/")
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &openAICompletion{
		logger:  logger,
		client:  openai.NewClientWithConfig(clientConfig),
		timeout: timeout,
	}
}

func (o *openAICompletion) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: openAITemperature(req.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		o.logger.ErrorWithFields(err, "Chat completion request failed", map[string]interface{}{
			"model": req.Model,
		})
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", domain.MalformedResponse(errors.New("completion has no choices"))
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", domain.GenerationRejected(errors.New("completion stopped by the content filter"))
	}

	text := strings.TrimSpace(choice.Message.Content)
	if text == "" {
		return "", domain.MalformedResponse(errors.New("completion text is empty"))
	}

	return text, nil
}

// openAITemperature keeps an explicit zero on the wire. The client drops a
// zero temperature from the request and the API then applies its default of 1.
func openAITemperature(temperature float32) float32 {
	if temperature == 0 {
		return math.SmallestNonzeroFloat32
	}
	return temperature
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return domain.GenerationRejected(err)
		}
		if _, ok := rejectionCodes[apiErr.Type]; ok {
			return domain.GenerationRejected(err)
		}
		if code, ok := apiErr.Code.(string); ok {
			if _, rejected := rejectionCodes[code]; rejected {
				return domain.GenerationRejected(err)
			}
		}
		return domain.RemoteUnavailable(err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return domain.GenerationRejected(err)
	}

	return domain.RemoteUnavailable(err)
}
