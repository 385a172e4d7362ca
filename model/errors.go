package model

import (
	"errors"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrResource        = errors.New("resource error")
	ErrZeroDuration    = errors.New("zero duration")
	ErrSampling        = errors.New("sampling error")
	ErrNoImage         = errors.New("missing image data")
	ErrTransport       = errors.New("transport error")
	ErrTimeout         = errors.New("request timed out")
	ErrStatus          = errors.New("unexpected status code")
	ErrResponseFormat  = errors.New("malformed response")
	ErrResponseContent = errors.New("missing response content")
	ErrCancelled       = errors.New("analysis cancelled")
)

// AnalysisError is a terminal analysis failure. Message is meant for display.
type AnalysisError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// UserMessage returns the message to display for err.
func UserMessage(err error) string {
	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		return analysisErr.Message
	}
	return "Error: " + err.Error()
}
