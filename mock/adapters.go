// Package mockgenerator provides offline stand-ins for the remote inference
// services. They back PIPELINE_MOCK mode for local development and double as
// test fakes: every call is counted and results can be scripted.
package mockgenerator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/enw/img2audio/application/ports/outbound"
)

// DefaultDelay makes offline runs slow enough to watch the stream endpoint.
const DefaultDelay = 300 * time.Millisecond

const (
	DefaultCaption = "a dog running on a beach"
	DefaultStory   = "The dog ran along the shore, chasing the waves as they rolled in. " +
		"Every time the water touched its paws it barked with joy and ran back to the dunes. " +
		"When the sun went down it lay in the warm sand, tired and happy, and watched the sea turn gold."
)

// Calls counts invocations and is safe for concurrent use.
type Calls struct {
	count atomic.Int32
}

func (c *Calls) Count() int {
	return int(c.count.Load())
}

func (c *Calls) record() {
	c.count.Add(1)
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Describer struct {
	Calls
	Caption string
	Err     error
	Delay   time.Duration

	mutex    sync.Mutex
	Requests []outbound.DescribeImageRequest
}

func (d *Describer) Describe(ctx context.Context, req outbound.DescribeImageRequest) (string, error) {
	d.record()
	d.mutex.Lock()
	d.Requests = append(d.Requests, req)
	d.mutex.Unlock()
	if err := wait(ctx, d.Delay); err != nil {
		return "", err
	}
	if d.Err != nil {
		return "", d.Err
	}
	return d.Caption, nil
}

type Completion struct {
	Calls
	Text  string
	Err   error
	Delay time.Duration

	mutex    sync.Mutex
	Requests []outbound.CompletionRequest
}

func (c *Completion) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	c.record()
	c.mutex.Lock()
	c.Requests = append(c.Requests, req)
	c.mutex.Unlock()
	if err := wait(ctx, c.Delay); err != nil {
		return "", err
	}
	if c.Err != nil {
		return "", c.Err
	}
	return c.Text, nil
}

type SpeechSynthesizer struct {
	Calls
	Audio []byte
	Err   error
	Delay time.Duration

	mutex  sync.Mutex
	Inputs []string
}

func (s *SpeechSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.record()
	s.mutex.Lock()
	s.Inputs = append(s.Inputs, text)
	s.mutex.Unlock()
	if err := wait(ctx, s.Delay); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Audio, nil
}

// Offline bundles the three fakes with canned output for PIPELINE_MOCK mode.
type Offline struct {
	Describer   *Describer
	Completion  *Completion
	Synthesizer *SpeechSynthesizer
}

func NewOffline(delay time.Duration) *Offline {
	return &Offline{
		Describer:   &Describer{Caption: DefaultCaption, Delay: delay},
		Completion:  &Completion{Text: DefaultStory, Delay: delay},
		Synthesizer: &SpeechSynthesizer{Audio: SilentFlac(), Delay: delay},
	}
}
