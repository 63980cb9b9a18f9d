package mockgenerator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// AudioStore keeps artifacts in memory.
type AudioStore struct {
	Calls
	Err error

	mutex   sync.Mutex
	objects map[string][]byte
}

func NewAudioStore() *AudioStore {
	return &AudioStore{objects: make(map[string][]byte)}
}

func (a *AudioStore) Save(_ context.Context, runID string, audio []byte) (string, error) {
	a.record()
	if a.Err != nil {
		return "", a.Err
	}
	location := "memory://" + runID
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.objects[location] = append([]byte(nil), audio...)
	return location, nil
}

func (a *AudioStore) Open(_ context.Context, location string) (io.ReadCloser, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	audio, ok := a.objects[location]
	if !ok {
		return nil, fmt.Errorf("no audio at %s", location)
	}
	return io.NopCloser(bytes.NewReader(audio)), nil
}

func (a *AudioStore) Remove(_ context.Context, location string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	delete(a.objects, location)
	return nil
}

func (a *AudioStore) Len() int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return len(a.objects)
}
