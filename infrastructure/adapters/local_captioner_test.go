package adapters

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/config"
	"github.com/enw/img2audio/domain"
)

// writeModelScript creates an executable that mimics a llava-style binary.
func writeModelScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "llava-cli")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestLocalCaptioner(t *testing.T, binary string, timeout time.Duration) (outbound.ImageDescriberPort, string) {
	t.Helper()
	imageDir := filepath.Join(t.TempDir(), "images")
	logger := nopLogger()
	conf := &config.CaptionerConfig{
		Mode:        config.LocalCaptionerMode,
		LocalBinary: binary,
		LocalModel:  "ggml-model-q4_k.gguf",
		LocalArgs:   []string{"--temp", "0.1"},
		ImageDir:    imageDir,
	}
	return NewLocalCaptioner(NewFileImageStore(imageDir, logger), conf, timeout, logger), imageDir
}

func TestLocalCaptioner_Describe(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	binary := writeModelScript(t, `echo "$@" > `+argsFile+`
echo "clip_model_load: loaded"
echo ""
echo "  a dog running on a beach  "`)
	captioner, imageDir := newTestLocalCaptioner(t, binary, 5*time.Second)

	caption, err := captioner.Describe(context.Background(), outbound.DescribeImageRequest{RunID: "run-1", Image: beachImage()})
	if err != nil {
		t.Fatal("Failed to describe image:", err)
	}
	if caption != "a dog running on a beach" {
		t.Errorf("caption = %q", caption)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	want := "-m ggml-model-q4_k.gguf --image " + filepath.Join(imageDir, "run-1-beach.jpg") + " --temp 0.1"
	if strings.TrimSpace(string(args)) != want {
		t.Errorf("args = %q, want %q", strings.TrimSpace(string(args)), want)
	}

	entries, _ := os.ReadDir(imageDir)
	if len(entries) != 0 {
		t.Errorf("expected the image copy to be removed, found %d files", len(entries))
	}
}

func TestLocalCaptioner_Failures(t *testing.T) {
	cases := []struct {
		name    string
		script  string
		timeout time.Duration
		want    error
	}{
		{name: "non-zero exit", script: "echo 'failed to load model' >&2\nexit 1", timeout: 5 * time.Second, want: domain.ErrRemoteUnavailable},
		{name: "blank output", script: "echo ''", timeout: 5 * time.Second, want: domain.ErrMalformedResponse},
		{name: "timeout", script: "exec sleep 5", timeout: 100 * time.Millisecond, want: domain.ErrRemoteUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			captioner, _ := newTestLocalCaptioner(t, writeModelScript(t, tc.script), tc.timeout)

			_, err := captioner.Describe(context.Background(), outbound.DescribeImageRequest{RunID: "run-1", Image: beachImage()})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLocalCaptioner_QueuedCallHonoursDeadline(t *testing.T) {
	started := filepath.Join(t.TempDir(), "started")
	binary := writeModelScript(t, "touch "+started+"\nexec sleep 2")
	captioner, _ := newTestLocalCaptioner(t, binary, 5*time.Second)

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = captioner.Describe(context.Background(), outbound.DescribeImageRequest{RunID: "run-1", Image: beachImage()})
	}()
	defer func() { <-firstDone }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(started); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first model run never started")
		}
		time.Sleep(10 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	begin := time.Now()
	_, err := captioner.Describe(ctx, outbound.DescribeImageRequest{RunID: "run-2", Image: beachImage()})
	elapsed := time.Since(begin)

	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected remote unavailable, got %v", err)
	}
	if elapsed > time.Second {
		t.Errorf("queued call returned after %v, its deadline was 100ms", elapsed)
	}
}

func TestLocalCaptioner_ImageCopyFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}
	ran := filepath.Join(dir, "ran")
	binary := writeModelScript(t, "touch "+ran+"\necho 'a dog'")

	logger := nopLogger()
	imageDir := filepath.Join(blocker, "images")
	conf := &config.CaptionerConfig{
		Mode:        config.LocalCaptionerMode,
		LocalBinary: binary,
		LocalModel:  "ggml-model-q4_k.gguf",
		ImageDir:    imageDir,
	}
	captioner := NewLocalCaptioner(NewFileImageStore(imageDir, logger), conf, time.Second, logger)

	_, err := captioner.Describe(context.Background(), outbound.DescribeImageRequest{RunID: "run-1", Image: beachImage()})
	if !errors.Is(err, domain.ErrWriteFailure) {
		t.Fatalf("expected write failure, got %v", err)
	}
	if domain.IsRetryable(err) {
		t.Error("a local disk failure should not be reported as retryable")
	}
	if _, err := os.Stat(ran); err == nil {
		t.Error("model must not run without an image copy")
	}
}

func TestCleanModelOutput(t *testing.T) {
	cases := map[string]string{
		"a cat":                         "a cat",
		"loading\n\na cat on a mat\n\n": "a cat on a mat",
		"   \n  ":                       "",
	}
	for input, want := range cases {
		if got := cleanModelOutput(input); got != want {
			t.Errorf("cleanModelOutput(%q) = %q, want %q", input, got, want)
		}
	}
}
