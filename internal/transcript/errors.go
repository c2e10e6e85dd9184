package transcript

import "fmt"

// MetadataFetchError reports that a content id could not be resolved from the
// URL or that the public metadata lookup failed. Not retried; surfaced to the
// caller with a human-readable message.
type MetadataFetchError struct {
	URL string
	Err error
}

func (e *MetadataFetchError) Error() string {
	return fmt.Sprintf("metadata fetch for %s: %v", e.URL, e.Err)
}

func (e *MetadataFetchError) Unwrap() error { return e.Err }

// TranscriptionError reports that an uploaded payload could not be processed.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }
