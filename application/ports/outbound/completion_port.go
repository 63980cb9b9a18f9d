package outbound

import "context"

type CompletionRequest struct {
	Model       string
	Temperature float32
	Prompt      string
}

type CompletionPort interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
