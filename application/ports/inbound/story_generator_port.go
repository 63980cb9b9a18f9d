package inbound

import "context"

type StoryGeneratorPort interface {
	Generate(ctx context.Context, scenario string) (string, error)
}
