package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-ats/internal/generation"
	"github.com/jonathan/cv-ats/internal/ingestion"
	"github.com/jonathan/cv-ats/internal/llm"
	"github.com/jonathan/cv-ats/internal/rendering"
	"github.com/jonathan/cv-ats/internal/types"
	"github.com/jonathan/cv-ats/internal/unlock"
)

func TestToAPIError(t *testing.T) {
	invalid := &types.ImproveRequest{CVText: "x", TargetRole: "y", Country: "AR"}

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"api error", newAPIError(http.StatusBadRequest, CodeMissingMarkdown), http.StatusBadRequest, CodeMissingMarkdown},
		{"wrapped api error", fmt.Errorf("ctx: %w", newAPIError(http.StatusNotFound, CodeNoOffer)), http.StatusNotFound, CodeNoOffer},
		{"unsupported file", &ingestion.UnsupportedFileTypeError{Ext: "rtf", Supported: []string{"pdf"}}, http.StatusBadRequest, CodeUnsupportedFileType},
		{"no text", fmt.Errorf("pdf: %w", ingestion.ErrNoTextExtracted), http.StatusUnprocessableEntity, CodeNoTextExtracted},
		{"webp without transcoder", &rendering.PhotoError{MIME: "image/webp", Err: rendering.ErrTranscoderUnavailable}, http.StatusBadRequest, CodeWebpNotSupported},
		{"gif without transcoder", &rendering.PhotoError{MIME: "image/gif", Err: rendering.ErrTranscoderUnavailable}, http.StatusBadRequest, CodeTranscoderDisabled},
		{"bad photo", &rendering.PhotoError{Err: rendering.ErrInvalidDataURL}, http.StatusBadRequest, CodeUnsupportedImageType},
		{"validation", invalid.Validate(), http.StatusBadRequest, CodeInvalidRequest},
		{"missing code", unlock.ErrMissingCode, http.StatusBadRequest, CodeMissingCode},
		{"invalid code", unlock.ErrInvalidCode, http.StatusUnauthorized, CodeInvalidCode},
		{"missing subid", unlock.ErrMissingTrackingID, http.StatusBadRequest, CodeMissingSubID},
		{"missing token", unlock.ErrMissingToken, http.StatusForbidden, CodeLocked},
		{"invalid token", fmt.Errorf("%w: expired", unlock.ErrInvalidToken), http.StatusForbidden, CodeLocked},
		{"no api key", llm.ErrMissingAPIKey, http.StatusInternalServerError, CodeMissingAPIKey},
		{"empty answer", generation.ErrEmptyResponse, http.StatusBadGateway, CodeEmptyResponse},
		{"render failure", &rendering.RenderError{Format: "pdf", Message: "boom"}, http.StatusInternalServerError, CodeInternal},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := toAPIError(tt.err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestToAPIError_Details(t *testing.T) {
	apiErr := toAPIError(&ingestion.UnsupportedFileTypeError{Ext: "rtf", Supported: []string{"pdf", "docx"}})
	assert.Equal(t, []string{"pdf", "docx"}, apiErr.Supported)

	invalid := &types.ImproveRequest{CVText: "x", TargetRole: "y", Email: "nope"}
	apiErr = toAPIError(invalid.Validate())
	assert.Equal(t, []string{"email: email"}, apiErr.Fields)

	apiErr = toAPIError(&rendering.PhotoError{MIME: "image/webp", Err: rendering.ErrTranscoderUnavailable})
	assert.Equal(t, hintWebp, apiErr.Hint)
}

func TestHTTPStatus_Nil(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
}

func TestAPIError_Error(t *testing.T) {
	cause := errors.New("disk full")
	err := &APIError{Status: http.StatusInternalServerError, Code: CodeInternal, Cause: cause}

	assert.Equal(t, "internal_error (500): disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "missing_file (400)", newAPIError(http.StatusBadRequest, CodeMissingFile).Error())
}
