package ingestion

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoTextExtracted is returned when a file parsed but held no text, as with
// scanned PDFs.
var ErrNoTextExtracted = errors.New("no text extracted")

// UnsupportedFileTypeError is returned for extensions ExtractText cannot read.
type UnsupportedFileTypeError struct {
	Ext       string
	Supported []string
}

func (e *UnsupportedFileTypeError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported file type %s, supported: %s", ext, strings.Join(e.Supported, ", "))
}

// ExtractionError wraps a parser failure for one format.
type ExtractionError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extraction failed: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
