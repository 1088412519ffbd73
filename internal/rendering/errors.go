// Package rendering turns a prepared résumé document into PDF or DOCX bytes.
package rendering

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPhotoFormat is returned when a photo cannot be decoded or
	// is in a format the target backend cannot embed.
	ErrUnsupportedPhotoFormat = errors.New("unsupported photo format")

	// ErrTranscoderUnavailable is returned when a photo needs conversion to PNG
	// but no transcoder is configured.
	ErrTranscoderUnavailable = errors.New("photo transcoder unavailable")

	// ErrInvalidDataURL is returned for photo strings that are not base64 data URLs.
	ErrInvalidDataURL = errors.New("invalid data url")
)

// PhotoError reports a photo that could not be prepared for embedding.
type PhotoError struct {
	MIME string
	Err  error
}

func (e *PhotoError) Error() string {
	if e.MIME != "" {
		return fmt.Sprintf("photo error (%s): %v", e.MIME, e.Err)
	}
	return fmt.Sprintf("photo error: %v", e.Err)
}

func (e *PhotoError) Unwrap() error {
	return e.Err
}

// RenderError represents a general rendering failure
type RenderError struct {
	Format  string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	prefix := "render error"
	if e.Format != "" {
		prefix = e.Format + " render error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
