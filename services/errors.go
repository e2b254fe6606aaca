package services

import (
	"errors"
	"fmt"
)

// ErrNoSubtitles is returned when parsing the input yields zero subtitle
// blocks. The pipeline fails with it before any network call is made.
var ErrNoSubtitles = errors.New("no subtitle lines found in file")

// TranslationServiceError means the remote translation call itself failed:
// transport error, non-OK API status, or a response that could not be parsed
// as a sequence of strings. It aborts the run; the pipeline never substitutes
// partial output for a failed call.
type TranslationServiceError struct {
	Reason string
	Err    error
}

func (e *TranslationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("translation service: %s: %v", e.Reason, e.Err)
	}
	return "translation service: " + e.Reason
}

func (e *TranslationServiceError) Unwrap() error {
	return e.Err
}

func serviceError(reason string, err error) *TranslationServiceError {
	return &TranslationServiceError{Reason: reason, Err: err}
}

// malformedResponse marks a response that was not a JSON array of strings.
func malformedResponse(err error) *TranslationServiceError {
	return &TranslationServiceError{Reason: "malformed response", Err: err}
}
