package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/config"
	"github.com/enw/img2audio/domain"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type geminiCompletion struct {
	logger       outbound.LoggerPort
	geminiConfig *config.GeminiConfig
	timeout      time.Duration
}

func NewGeminiCompletion(geminiConfig *config.GeminiConfig, timeout time.Duration, logger outbound.LoggerPort) outbound.CompletionPort {
	return &geminiCompletion{
		logger:       logger,
		geminiConfig: geminiConfig,
		timeout:      timeout,
	}
}

func (g *geminiCompletion) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.geminiConfig.ApiKey))
	if err != nil {
		g.logger.Error(err, "Failed to create gemini client")
		return "", domain.RemoteUnavailable(err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			g.logger.Error(err, "Failed to close gemini client")
		}
	}()

	modelName := req.Model
	if modelName == "" {
		modelName = g.geminiConfig.Model
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(req.Temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		g.logger.ErrorWithFields(err, "Gemini generation failed", map[string]interface{}{
			"model": modelName,
		})
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", domain.GenerationRejected(err)
		}
		return "", domain.RemoteUnavailable(err)
	}

	return geminiText(resp)
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", domain.MalformedResponse(errors.New("gemini response is empty"))
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", domain.GenerationRejected(fmt.Errorf("prompt blocked: %v", resp.PromptFeedback.BlockReason))
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", domain.MalformedResponse(errors.New("gemini returned no candidates"))
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", domain.GenerationRejected(errors.New("candidate stopped for safety"))
	}
	if candidate.Content == nil {
		return "", domain.MalformedResponse(errors.New("gemini candidate has no content"))
	}

	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", domain.MalformedResponse(errors.New("gemini candidate has no text"))
	}
	return text, nil
}
