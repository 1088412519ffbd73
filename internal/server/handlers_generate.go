package server

import (
	"net/http"

	"github.com/jonathan/cv-ats/internal/llm"
	"github.com/jonathan/cv-ats/internal/types"
)

type cvResponse struct {
	OK bool   `json:"ok"`
	CV string `json:"cv"`
}

// handleImprove rewrites an existing résumé for a target role.
func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	var req types.ImproveRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	req.Normalize()
	if req.CVText == "" || req.TargetRole == "" {
		s.errorResponse(w, newAPIError(http.StatusBadRequest, CodeMissingFields))
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, err)
		return
	}
	if s.generator == nil {
		s.errorResponse(w, llm.ErrMissingAPIKey)
		return
	}
	if !s.allowModelCall(w, r) {
		return
	}

	cv, err := s.generator.Improve(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, cvResponse{OK: true, CV: cv})
}

// handleCreate writes a résumé from structured candidate data.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req types.CreateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	req.Normalize()
	if req.TargetRole == "" {
		s.errorResponse(w, newAPIError(http.StatusBadRequest, CodeMissingFields))
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, err)
		return
	}
	if s.generator == nil {
		s.errorResponse(w, llm.ErrMissingAPIKey)
		return
	}
	if !s.allowModelCall(w, r) {
		return
	}

	cv, err := s.generator.Create(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, cvResponse{OK: true, CV: cv})
}
