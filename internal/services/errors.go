package services

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrArtifactNotFound   = errors.New("artifact not found")
	ErrPayloadTooLarge    = errors.New("file exceeds the maximum allowed upload size")
	ErrUnsupportedFormat  = errors.New("unsupported file type")
	ErrInvalidURL         = errors.New("invalid artifact url")
	ErrConcurrencyTimeout = errors.New("timed out waiting for the session to become available")
	ErrEmptyTranscript    = errors.New("session has no turns to summarize")
)

type GenerationFailureKind string

const (
	GenerationTimeout      GenerationFailureKind = "timeout"
	GenerationTransport    GenerationFailureKind = "transport_error"
	GenerationInvalidReply GenerationFailureKind = "invalid_reply"
)

// GenerationError wraps any failure of the generation round trip: the call
// itself (timeout, transport) or the structured reply failing validation.
// The orchestrator never retries these; the session is left untouched so the
// caller can retry without duplicating turns.
type GenerationError struct {
	Kind GenerationFailureKind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failure (%s): %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newGenerationError(kind GenerationFailureKind, format string, args ...any) *GenerationError {
	return &GenerationError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// GenerationFailureOf reports whether err is a generation failure and, if so,
// which kind.
func GenerationFailureOf(err error) (GenerationFailureKind, bool) {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind, true
	}
	return "", false
}
