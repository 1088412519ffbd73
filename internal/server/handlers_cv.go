package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/cv-ats/internal/ingestion"
	"github.com/jonathan/cv-ats/internal/preview"
	"github.com/jonathan/cv-ats/internal/rendering"
	"github.com/jonathan/cv-ats/internal/scoring"
)

// exportRequest is the body of the PDF and DOCX routes.
type exportRequest struct {
	Markdown     string `json:"markdown"`
	Filename     string `json:"filename,omitempty"`
	PhotoDataURL string `json:"photoDataUrl,omitempty"`
}

type markdownRequest struct {
	Markdown string `json:"markdown"`
	Title    string `json:"title,omitempty"`
}

type scoreResponse struct {
	OK bool `json:"ok"`
	*scoring.Report
}

type previewResponse struct {
	OK   bool   `json:"ok"`
	HTML string `json:"html"`
}

type extractResponse struct {
	OK   bool                `json:"ok"`
	Text string              `json:"text"`
	Meta *ingestion.Metadata `json:"meta"`
}

// handleExport renders the posted markdown with renderer and sends it as an
// attachment.
func (s *Server) handleExport(renderer rendering.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exportRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.errorResponse(w, err)
			return
		}
		if strings.TrimSpace(req.Markdown) == "" {
			s.errorResponse(w, newAPIError(http.StatusBadRequest, CodeMissingMarkdown))
			return
		}

		photo, err := rendering.PreparePhoto(r.Context(), req.PhotoDataURL, s.transcoder)
		if err != nil {
			s.errorResponse(w, err)
			return
		}

		data, err := rendering.RenderMarkdown(renderer, req.Markdown, photo)
		if err != nil {
			s.errorResponse(w, err)
			return
		}

		filename := rendering.Filename(req.Filename, renderer)
		w.Header().Set("Content-Type", renderer.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			log.Printf("[%s] failed to write %s: %v", renderer.Extension(), filename, err)
		}
	}
}

// handleScore grades the posted markdown.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req markdownRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if strings.TrimSpace(req.Markdown) == "" {
		s.errorResponse(w, newAPIError(http.StatusBadRequest, CodeMissingMarkdown))
		return
	}

	s.jsonResponse(w, http.StatusOK, scoreResponse{OK: true, Report: scoring.Score(req.Markdown)})
}

// handlePreview returns sanitized HTML for the posted markdown.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req markdownRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if strings.TrimSpace(req.Markdown) == "" {
		s.errorResponse(w, newAPIError(http.StatusBadRequest, CodeMissingMarkdown))
		return
	}

	html, err := preview.Render(req.Markdown)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, previewResponse{OK: true, HTML: html})
}

// handleExtract reads the text of an uploaded résumé (multipart field "file").
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, &APIError{Status: http.StatusRequestEntityTooLarge, Code: CodeFileTooLarge, Cause: err})
			return
		}
		s.errorResponse(w, &APIError{Status: http.StatusBadRequest, Code: CodeMissingFile, Cause: err})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	filename := header.Filename
	if filename == "" {
		filename = "upload"
	}

	text, err := ingestion.ExtractText(filename, data)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	meta := ingestion.NewMetadata(filename, text)
	log.Printf("[extract] %s: %d characters", meta.Format, meta.Characters)
	s.jsonResponse(w, http.StatusOK, extractResponse{OK: true, Text: text, Meta: meta})
}
