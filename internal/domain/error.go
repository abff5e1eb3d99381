package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound              = errors.New("entity not found")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidExecContext    = errors.New("invalid executor context")
	ErrReadDatabaseRow       = errors.New("failed to read database row")
	ErrGenerationFailed      = errors.New("text generation failed")
	ErrMalformedModelOutput  = errors.New("model returned malformed output")
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
	ErrRateLimited           = errors.New("too many requests")
)
