package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-ats/internal/generation"
	"github.com/jonathan/cv-ats/internal/ingestion"
	"github.com/jonathan/cv-ats/internal/llm"
	"github.com/jonathan/cv-ats/internal/rendering"
	"github.com/jonathan/cv-ats/internal/types"
	"github.com/jonathan/cv-ats/internal/unlock"
)

// Error codes sent in the "error" field of failed responses.
const (
	CodeInvalidJSON          = "invalid_json"
	CodeMissingMarkdown      = "missing_markdown"
	CodeWebpNotSupported     = "webp_not_supported"
	CodeUnsupportedImageType = "unsupported_image_type"
	CodeTranscoderDisabled   = "transcoder_unavailable"
	CodeMissingFile          = "missing_file"
	CodeFileTooLarge         = "file_too_large"
	CodeUnsupportedFileType  = "unsupported_file_type"
	CodeNoTextExtracted      = "no_text_extracted"
	CodeMissingFields        = "missing_fields"
	CodeInvalidRequest       = "invalid_request"
	CodeMissingCode          = "missing_code"
	CodeInvalidCode          = "invalid_code"
	CodeMissingSubID         = "missing_subid"
	CodeForbidden            = "forbidden"
	CodeNoOffer              = "no_offer"
	CodeRateLimited          = "rate_limited"
	CodeLocked               = "locked"
	CodeMissingAPIKey        = "missing_api_key"
	CodeEmptyResponse        = "empty_response"
	CodeInternal             = "internal_error"
)

const (
	hintNoText = "Si el PDF es escaneado (imagen), no se puede extraer texto sin OCR."
	hintWebp   = "Mandá la foto como PNG/JPG."
	hintPhoto  = "Este servidor solo acepta fotos PNG o JPG."
)

// APIError is a failure reported to the client as {"ok": false, "error": Code}.
type APIError struct {
	Status    int
	Code      string
	Hint      string
	Fields    []string
	Supported []string
	Cause     error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%d): %v", e.Code, e.Status, e.Cause)
	}
	return fmt.Sprintf("%s (%d)", e.Code, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

func newAPIError(status int, code string) *APIError {
	return &APIError{Status: status, Code: code}
}

// toAPIError maps domain errors to their client-facing code. Anything
// unrecognized is an internal error.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var unsupported *ingestion.UnsupportedFileTypeError
	if errors.As(err, &unsupported) {
		return &APIError{Status: http.StatusBadRequest, Code: CodeUnsupportedFileType, Supported: unsupported.Supported, Cause: err}
	}

	var photoErr *rendering.PhotoError
	if errors.As(err, &photoErr) {
		if errors.Is(err, rendering.ErrTranscoderUnavailable) {
			if strings.Contains(strings.ToLower(photoErr.MIME), "webp") {
				return &APIError{Status: http.StatusBadRequest, Code: CodeWebpNotSupported, Hint: hintWebp, Cause: err}
			}
			return &APIError{Status: http.StatusBadRequest, Code: CodeTranscoderDisabled, Hint: hintPhoto, Cause: err}
		}
		return &APIError{Status: http.StatusBadRequest, Code: CodeUnsupportedImageType, Cause: err}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return &APIError{Status: http.StatusBadRequest, Code: CodeInvalidRequest, Fields: types.FieldErrors(err), Cause: err}
	}

	switch {
	case errors.Is(err, ingestion.ErrNoTextExtracted):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: CodeNoTextExtracted, Hint: hintNoText, Cause: err}
	case errors.Is(err, unlock.ErrMissingCode):
		return &APIError{Status: http.StatusBadRequest, Code: CodeMissingCode, Cause: err}
	case errors.Is(err, unlock.ErrInvalidCode):
		return &APIError{Status: http.StatusUnauthorized, Code: CodeInvalidCode, Cause: err}
	case errors.Is(err, unlock.ErrMissingTrackingID):
		return &APIError{Status: http.StatusBadRequest, Code: CodeMissingSubID, Cause: err}
	case errors.Is(err, unlock.ErrMissingToken), errors.Is(err, unlock.ErrInvalidToken):
		return &APIError{Status: http.StatusForbidden, Code: CodeLocked, Cause: err}
	case errors.Is(err, llm.ErrMissingAPIKey):
		return &APIError{Status: http.StatusInternalServerError, Code: CodeMissingAPIKey, Cause: err}
	case errors.Is(err, generation.ErrEmptyResponse):
		return &APIError{Status: http.StatusBadGateway, Code: CodeEmptyResponse, Cause: err}
	}

	return &APIError{Status: http.StatusInternalServerError, Code: CodeInternal, Cause: err}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return toAPIError(err).Status
}
