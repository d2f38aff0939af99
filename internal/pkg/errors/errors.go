package errors

import (
	"errors"
	"fmt"
)

var (
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
	ErrInvalidConfiguration  = errors.New("invalid configuration")
	ErrEmbeddingService      = errors.New("embedding service error")
	ErrQueryService          = errors.New("query service error")
	ErrNotFound              = errors.New("not found")
	ErrTooMany               = errors.New("too many requests")
	ErrInternal              = errors.New("internal")
)

// IndexingError reports a failed indexing run. Ordinal is the zero-based
// position of the chunk that failed, or -1 when the failure happened before
// any per-chunk work started.
type IndexingError struct {
	VideoID string
	Ordinal int
	Err     error
}

func (e *IndexingError) Error() string {
	if e.Ordinal < 0 {
		return fmt.Sprintf("index video %s: %v", e.VideoID, e.Err)
	}
	return fmt.Sprintf("index video %s: chunk %d: %v", e.VideoID, e.Ordinal, e.Err)
}

func (e *IndexingError) Unwrap() error {
	return e.Err
}

func IsTranscriptUnavailable(err error) bool {
	return errors.Is(err, ErrTranscriptUnavailable)
}

func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}
