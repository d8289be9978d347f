package services

import (
	"errors"
	"fmt"
)

var (
	ErrExtraction          = errors.New("extraction error")
	ErrInsufficientText    = errors.New("insufficient text")
	ErrUnsupportedKind     = errors.New("unsupported document kind")
	ErrBackendUnconfigured = errors.New("classification backend not configured")
	ErrBackendCall         = errors.New("classification backend call failed")
	ErrMalformedResponse   = errors.New("malformed classification response")
)

// ExtractionError carries the decoder detail for a file that could not be read.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Filename == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

func newExtractionError(filename string, format string, args ...any) error {
	return &ExtractionError{Filename: filename, Err: fmt.Errorf(format, args...)}
}
