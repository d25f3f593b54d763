package domain

import "errors"

var (
	ErrNotFound          = errors.New("job not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// Pipeline stage failures. Stages wrap these with detail so callers can
	// match with errors.Is while the stored message keeps the specifics.
	ErrExtractionFailed  = errors.New("audio extraction failed")
	ErrUploadFailed      = errors.New("upload to object storage failed")
	ErrRecognitionFailed = errors.New("batch recognition failed")
	ErrTimeout           = errors.New("timed out waiting for recognition operation")
	ErrParseFailed       = errors.New("failed to parse recognition results")
)
