package server

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/cv-ats/internal/unlock"
)

type unlockRequest struct {
	Code       string `json:"code"`
	TrackingID string `json:"trackingId,omitempty"`
}

type unlockResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token,omitempty"`
}

type statusResponse struct {
	Unlocked bool   `json:"unlocked"`
	Token    string `json:"token,omitempty"`
}

type offerSummary struct {
	ID      string `json:"id"`
	Network string `json:"network"`
	Name    string `json:"name"`
}

type offerResponse struct {
	OK         bool         `json:"ok"`
	TrackingID string       `json:"trackingId"`
	OS         unlock.OS    `json:"os"`
	Offer      offerSummary `json:"offer"`
	URL        string       `json:"url"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// handleUnlock redeems an unlock code.
func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := s.unlock.RedeemCode(req.Code); err != nil {
		s.errorResponse(w, err)
		return
	}

	resp := unlockResponse{OK: true}
	if s.unlock.TokensEnabled() {
		subject := firstNonEmpty(req.TrackingID, unlock.NewTrackingID())
		token, err := s.unlock.IssueToken(subject, unlock.MethodCode)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		resp.Token = token
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handlePostback records a completed offer reported by the CPA network.
func (s *Server) handlePostback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if secret := s.cfg.PostbackSecret; secret != "" {
		if subtle.ConstantTimeCompare([]byte(q.Get("secret")), []byte(secret)) != 1 {
			s.errorResponse(w, newAPIError(http.StatusForbidden, CodeForbidden))
			return
		}
	}

	trackingID := firstNonEmpty(q.Get("subid"), q.Get("sub_id"), q.Get("clickid"))
	if err := s.unlock.MarkUnlocked(r.Context(), trackingID); err != nil {
		s.errorResponse(w, err)
		return
	}

	log.Printf("[cpa] postback unlocked %s", trackingID)
	s.jsonResponse(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleStatus reports whether a tracking id has been unlocked. Unlocked
// callers also receive an unlock token when tokens are configured.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	trackingID := firstNonEmpty(q.Get("subid"), q.Get("tracking_id"))

	unlocked, err := s.unlock.IsUnlocked(r.Context(), trackingID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	resp := statusResponse{Unlocked: unlocked}
	if unlocked && s.unlock.TokensEnabled() {
		token, err := s.unlock.IssueToken(trackingID, unlock.MethodCPA)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		resp.Token = token
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleOffer picks an offer for the caller's device and returns its link
// with a tracking id attached.
func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	device := unlock.OS(strings.ToLower(strings.TrimSpace(q.Get("os"))))
	if device == "" {
		device = unlock.DetectOS(r.UserAgent())
	}
	trackingID := firstNonEmpty(q.Get("subid"), unlock.NewTrackingID())

	offer, ok := s.offers.Pick(device)
	if !ok {
		s.errorResponse(w, newAPIError(http.StatusNotFound, CodeNoOffer))
		return
	}
	link, err := offer.URLFor(trackingID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, offerResponse{
		OK:         true,
		TrackingID: trackingID,
		OS:         device,
		Offer:      offerSummary{ID: offer.ID, Network: offer.Network, Name: offer.Name},
		URL:        link,
	})
}

// requireUnlock guards exports behind a valid unlock token when the server
// is configured to require one.
func (s *Server) requireUnlock(next http.HandlerFunc) http.HandlerFunc {
	if !s.cfg.RequireUnlock {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.unlock.ValidateToken(unlockToken(r)); err != nil {
			s.errorResponse(w, err)
			return
		}
		next(w, r)
	}
}

// unlockToken reads the token from X-Unlock-Token or a bearer Authorization header.
func unlockToken(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get("X-Unlock-Token")); t != "" {
		return t
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
