package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRemoteUnavailable  = errors.New("remote service unavailable")
	ErrMalformedResponse  = errors.New("malformed response")
	ErrGenerationRejected = errors.New("generation rejected")
	ErrWriteFailure       = errors.New("write failure")
	ErrInvalidInput       = errors.New("invalid input")
)

const (
	RemoteUnavailableKind  = "RemoteUnavailable"
	MalformedResponseKind  = "MalformedResponse"
	GenerationRejectedKind = "GenerationRejected"
	WriteFailureKind       = "WriteFailure"
	InvalidInputKind       = "InvalidInput"
	UnknownKind            = "Unknown"
)

func RemoteUnavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
}

func MalformedResponse(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
}

func GenerationRejected(err error) error {
	return fmt.Errorf("%w: %w", ErrGenerationRejected, err)
}

func WriteFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrWriteFailure, err)
}

func InvalidInput(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// StageError identifies the pipeline stage an invocation failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// KindOf maps an error onto the pipeline failure taxonomy.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return InvalidInputKind
	case errors.Is(err, ErrGenerationRejected):
		return GenerationRejectedKind
	case errors.Is(err, ErrMalformedResponse):
		return MalformedResponseKind
	case errors.Is(err, ErrWriteFailure):
		return WriteFailureKind
	case errors.Is(err, ErrRemoteUnavailable):
		return RemoteUnavailableKind
	default:
		return UnknownKind
	}
}

// IsRetryable reports whether the failure came from a remote service and may
// succeed on a later attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable)
}
