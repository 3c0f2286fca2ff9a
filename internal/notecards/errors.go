package notecards

import "errors"

// Error is a pipeline failure kind. Every error returned by Service wraps exactly one.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrMissingCredential     = Error("missing API credential")
	ErrInvalidURL            = Error("invalid YouTube URL")
	ErrTranscriptUnavailable = Error("transcript unavailable")
	ErrGenerationFailed      = Error("note card generation failed")
)

// UserMessage returns the single human-readable message shown for err.
// Causes stay in the logs.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return "API key not found. Please set up your environment variable correctly."
	case errors.Is(err, ErrInvalidURL):
		return "Invalid YouTube URL."
	case errors.Is(err, ErrTranscriptUnavailable):
		return "Error extracting transcript."
	case errors.Is(err, ErrGenerationFailed):
		return "Failed to generate note cards."
	default:
		return "Something went wrong."
	}
}
