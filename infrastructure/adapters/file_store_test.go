package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/enw/img2audio/config"
)

func TestFileImageStore_SaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store := NewFileImageStore(dir, nopLogger())

	image := beachImage()
	image.Name = "../../escape/beach.jpg"

	path, err := store.Save(context.Background(), "run-1", image)
	if err != nil {
		t.Fatal("Failed to save image:", err)
	}
	if path != filepath.Join(dir, "run-1-beach.jpg") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(data, image.Data) {
		t.Fatalf("stored image mismatch: %v", err)
	}

	if err := store.Remove(context.Background(), path); err != nil {
		t.Fatal("Failed to remove image:", err)
	}
	if err := store.Remove(context.Background(), path); err != nil {
		t.Error("removing a missing image should not fail:", err)
	}
}

func TestFileAudioStore_PerRun(t *testing.T) {
	dir := t.TempDir()
	store := NewFileAudioStore(&config.StorageConfig{AudioDir: dir}, nopLogger())
	ctx := context.Background()

	first, err := store.Save(ctx, "run-1", []byte("first"))
	if err != nil {
		t.Fatal("Failed to save audio:", err)
	}
	second, err := store.Save(ctx, "run-2", []byte("second"))
	if err != nil {
		t.Fatal("Failed to save audio:", err)
	}
	if first == second {
		t.Fatal("runs should get distinct artifacts")
	}
	if first != filepath.Join(dir, "run-1.flac") {
		t.Errorf("location = %q", first)
	}

	assertAudio(t, store.Open, first, "first")
	assertAudio(t, store.Open, second, "second")

	if err := store.Remove(ctx, first); err != nil {
		t.Fatal("Failed to remove audio:", err)
	}
	if _, err := os.Stat(first); !os.IsNotExist(err) {
		t.Error("expected the artifact to be removed")
	}
	assertAudio(t, store.Open, second, "second")
}

func TestFileAudioStore_FixedPath(t *testing.T) {
	dir := t.TempDir()
	store := NewFileAudioStore(&config.StorageConfig{AudioDir: dir, AudioFileName: "audio.flac"}, nopLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		location, err := store.Save(ctx, fmt.Sprintf("run-%d", i), []byte(fmt.Sprintf("payload-%d", i)))
		if err != nil {
			t.Fatal("Failed to save audio:", err)
		}
		if location != filepath.Join(dir, "audio.flac") {
			t.Fatalf("location = %q", location)
		}
	}
	assertAudio(t, store.Open, filepath.Join(dir, "audio.flac"), "payload-2")

	if err := store.Remove(ctx, filepath.Join(dir, "audio.flac")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "audio.flac")); err != nil {
		t.Error("the shared artifact should survive removal on behalf of a run")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected a single file, found %d", len(entries))
	}
}

func TestFileAudioStore_ConcurrentFixedWrites(t *testing.T) {
	dir := t.TempDir()
	store := NewFileAudioStore(&config.StorageConfig{AudioDir: dir, AudioFileName: "audio.flac"}, nopLogger())

	payloads := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		payload := string(bytes.Repeat([]byte{byte('a' + i)}, 4096))
		payloads[payload] = true
		wg.Add(1)
		go func(i int, payload string) {
			defer wg.Done()
			if _, err := store.Save(context.Background(), fmt.Sprintf("run-%d", i), []byte(payload)); err != nil {
				t.Error(err)
			}
		}(i, payload)
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(dir, "audio.flac"))
	if err != nil {
		t.Fatal(err)
	}
	if !payloads[string(data)] {
		t.Error("artifact should hold exactly one complete payload")
	}
}

func TestFileAudioStore_RejectsForeignLocations(t *testing.T) {
	dir := t.TempDir()
	store := NewFileAudioStore(&config.StorageConfig{AudioDir: filepath.Join(dir, "audio")}, nopLogger())

	outside := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, location := range []string{outside, filepath.Join(dir, "audio", "..", "secret.txt")} {
		if _, err := store.Open(context.Background(), location); err == nil {
			t.Errorf("expected %q to be rejected", location)
		}
		if err := store.Remove(context.Background(), location); err == nil {
			t.Errorf("expected removal of %q to be rejected", location)
		}
	}
	if _, err := os.Stat(outside); err != nil {
		t.Error("file outside the audio directory must not be touched")
	}
}

func assertAudio(t *testing.T, open func(context.Context, string) (io.ReadCloser, error), location, want string) {
	t.Helper()
	reader, err := open(context.Background(), location)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", location, err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != want {
		t.Errorf("audio at %s = %q, want %q", location, data, want)
	}
}
