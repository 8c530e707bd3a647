package sentencepiece

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNotFound means the model resource does not exist.
	ErrNotFound = errors.New("model not found")

	// ErrPermissionDenied means access to the model resource was refused.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParse means the model is malformed or cannot be compiled.
	ErrParse = errors.New("malformed model")

	// ErrConfig means a compiled model violates a processor invariant.
	ErrConfig = errors.New("invalid model configuration")

	// ErrRange means a vocabulary index is out of range.
	ErrRange = errors.New("index out of range")

	// ErrEngine means segmentation or desegmentation failed.
	ErrEngine = errors.New("segmentation engine failure")

	// ErrLoaderConsumed means Load was called on a loader that already ran.
	ErrLoaderConsumed = errors.New("model loader already consumed")
)

// EngineError carries the diagnostic of a failed engine operation.
//
// It matches ErrEngine with errors.Is.
type EngineError struct {
	Op      string // Operation that failed ("encode", "sample", "decode")
	Message string // Engine diagnostic
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("sentencepiece %s: %s", e.Op, e.Message)
}

// Is reports whether target is ErrEngine.
func (e *EngineError) Is(target error) bool {
	return target == ErrEngine
}

func engineErrorf(op, format string, args ...any) *EngineError {
	return &EngineError{Op: op, Message: fmt.Sprintf(format, args...)}
}
