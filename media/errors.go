package media

import "errors"

// Failures surfaced by the pipeline. Stages wrap these with context, so
// callers should match with errors.Is.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrInvalidRange        = errors.New("invalid range")
	ErrDecodeFailure       = errors.New("decode failure")
	ErrIOFailure           = errors.New("io failure")
)
