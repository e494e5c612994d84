package docmodel

import "errors"

// Hard failures surface to the caller, degraded ones are logged and swallowed.
var (
	ErrUnsupportedFormat    = errors.New("unsupported document format")
	ErrExtractionFailed     = errors.New("document text extraction failed")
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
	ErrIndexWrite           = errors.New("index write failed")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrLanguageTimeout      = errors.New("language service timeout")
	ErrLanguageUnavailable  = errors.New("language service unavailable")
)
