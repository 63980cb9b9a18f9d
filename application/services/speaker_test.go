package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/enw/img2audio/application/ports/inbound"
	"github.com/enw/img2audio/domain"
	mockgenerator "github.com/enw/img2audio/mock"
)

func TestSpeaker_Speak(t *testing.T) {
	audio := bytes.Repeat([]byte{0x42}, 2048)
	synthesizer := &mockgenerator.SpeechSynthesizer{Audio: audio}
	store := mockgenerator.NewAudioStore()
	speaker := NewSpeaker(nopLogger(), synthesizer, store)

	artifact, err := speaker.Speak(context.Background(), inbound.SpeakParams{RunID: "run-1", Story: "Once upon a time."})
	if err != nil {
		t.Fatal("Failed to speak:", err)
	}
	if artifact.Size != 2048 || artifact.RunID != "run-1" || artifact.ContentType != domain.AudioContentType {
		t.Errorf("unexpected artifact: %+v", artifact)
	}
	if synthesizer.Inputs[0] != "Once upon a time." {
		t.Errorf("synthesizer input = %q", synthesizer.Inputs[0])
	}
	if store.Len() != 1 {
		t.Errorf("store holds %d artifacts, want 1", store.Len())
	}
}

func TestSpeaker_WriteFailure(t *testing.T) {
	store := mockgenerator.NewAudioStore()
	store.Err = errors.New("permission denied")
	speaker := NewSpeaker(nopLogger(), &mockgenerator.SpeechSynthesizer{Audio: []byte("flac")}, store)

	artifact, err := speaker.Speak(context.Background(), inbound.SpeakParams{RunID: "run-1", Story: "story"})
	if !errors.Is(err, domain.ErrWriteFailure) {
		t.Fatalf("expected write failure, got %v", err)
	}
	if artifact != nil {
		t.Error("no artifact should be returned on failure")
	}
}

func TestSpeaker_SynthesisFailureSkipsStore(t *testing.T) {
	store := mockgenerator.NewAudioStore()
	synthesizer := &mockgenerator.SpeechSynthesizer{Err: domain.RemoteUnavailable(errors.New("503"))}
	speaker := NewSpeaker(nopLogger(), synthesizer, store)

	_, err := speaker.Speak(context.Background(), inbound.SpeakParams{RunID: "run-1", Story: "story"})
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected remote unavailable, got %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("store called %d times, want 0", store.Count())
	}
}

func TestSpeaker_EmptyStory(t *testing.T) {
	synthesizer := &mockgenerator.SpeechSynthesizer{Audio: []byte("flac")}
	speaker := NewSpeaker(nopLogger(), synthesizer, mockgenerator.NewAudioStore())

	_, err := speaker.Speak(context.Background(), inbound.SpeakParams{RunID: "run-1"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if synthesizer.Count() != 0 {
		t.Error("synthesizer should not be called for an empty story")
	}
}
