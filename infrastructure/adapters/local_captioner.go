package adapters

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/config"
	"github.com/enw/img2audio/domain"
)

// localCaptioner runs a captioning model binary against a file copy of the
// image. The model reads from disk, so the upload is persisted first.
type localCaptioner struct {
	logger     outbound.LoggerPort
	imageStore outbound.ImageStorePort
	conf       *config.CaptionerConfig
	timeout    time.Duration
	// one model instance at a time; local hardware rarely fits two.
	slot chan struct{}
}

func NewLocalCaptioner(imageStore outbound.ImageStorePort, conf *config.CaptionerConfig, timeout time.Duration,
	logger outbound.LoggerPort) outbound.ImageDescriberPort {
	return &localCaptioner{
		logger:     logger,
		imageStore: imageStore,
		conf:       conf,
		timeout:    timeout,
		slot:       make(chan struct{}, 1),
	}
}

func (l *localCaptioner) Describe(ctx context.Context, req outbound.DescribeImageRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	imagePath, err := l.imageStore.Save(ctx, req.RunID, req.Image)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", domain.RemoteUnavailable(ctxErr)
		}
		l.logger.ErrorWithFields(err, "Failed to persist image for local captioning", map[string]interface{}{
			"run_id": req.RunID,
		})
		return "", domain.WriteFailure(err)
	}
	defer func() {
		if err := l.imageStore.Remove(context.Background(), imagePath); err != nil {
			l.logger.Error(err, "Failed to remove the image copy")
		}
	}()

	// Waiting for the model counts against the same deadline as running it.
	select {
	case l.slot <- struct{}{}:
	case <-ctx.Done():
		l.logger.WarnWithFields("Gave up waiting for the local captioning model", map[string]interface{}{
			"run_id": req.RunID,
		})
		return "", domain.RemoteUnavailable(ctx.Err())
	}
	defer func() { <-l.slot }()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, l.conf.LocalBinary, l.buildArgs(imagePath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		l.logger.ErrorWithFields(err, "Local captioning model failed", map[string]interface{}{
			"run_id": req.RunID,
			"binary": l.conf.LocalBinary,
			"stderr": truncate(stderr.String(), maxErrorBodyBytes),
		})
		return "", domain.RemoteUnavailable(err)
	}

	caption := cleanModelOutput(stdout.String())
	if caption == "" {
		return "", domain.MalformedResponse(errors.New("local captioning model produced no text"))
	}

	return caption, nil
}

func (l *localCaptioner) buildArgs(imagePath string) []string {
	args := []string{"-m", l.conf.LocalModel, "--image", imagePath}
	return append(args, l.conf.LocalArgs...)
}

// cleanModelOutput keeps the last non-empty line; llava-style binaries print
// loader diagnostics before the answer.
func cleanModelOutput(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
