// Package server provides the HTTP API of the résumé service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-ats/internal/generation"
	"github.com/jonathan/cv-ats/internal/rendering"
	"github.com/jonathan/cv-ats/internal/server/ratelimit"
	"github.com/jonathan/cv-ats/internal/unlock"
)

// DefaultMaxBodyBytes caps request bodies when Config.MaxBodyBytes is unset.
const DefaultMaxBodyBytes = 10 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	cfg         Config
	unlock      *unlock.Service
	offers      *unlock.Catalog
	generator   *generation.Generator
	transcoder  rendering.Transcoder
	rateLimiter *ratelimit.Limiter
	quota       *ratelimit.Quota
}

// Config holds server configuration
type Config struct {
	Port           int
	AllowedOrigins []string
	MaxBodyBytes   int64
	// RequireUnlock makes the PDF and DOCX exports demand a valid unlock token.
	RequireUnlock bool
	// PostbackSecret, when set, must be sent as ?secret= on postbacks.
	PostbackSecret string
	// TranscodePhotos enables conversion of WEBP and other photos to PNG.
	TranscodePhotos bool

	Unlock *unlock.Service
	Offers *unlock.Catalog
	// Generator is nil when no model API key is configured.
	Generator *generation.Generator
	RateLimit *ratelimit.Config
	// Quota limits calls to the model routes.
	Quota *ratelimit.Quota
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Unlock == nil {
		return nil, errors.New("server requires an unlock service")
	}
	if cfg.RequireUnlock && !cfg.Unlock.TokensEnabled() {
		return nil, errors.New("require unlock needs a token secret")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.Offers == nil {
		cfg.Offers = unlock.NewCatalog(nil, nil)
	}

	s := &Server{
		cfg:         cfg,
		unlock:      cfg.Unlock,
		offers:      cfg.Offers,
		generator:   cfg.Generator,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		quota:       cfg.Quota,
	}
	if cfg.TranscodePhotos {
		s.transcoder = rendering.ImageTranscoder{}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Documents
	mux.HandleFunc("POST /api/cv/pdf", s.requireUnlock(s.handleExport(rendering.NewPDFRenderer())))
	mux.HandleFunc("POST /api/cv/docx", s.requireUnlock(s.handleExport(rendering.NewDocxRenderer())))
	mux.HandleFunc("POST /api/cv/score", s.handleScore)
	mux.HandleFunc("POST /api/cv/preview", s.handlePreview)
	mux.HandleFunc("POST /api/cv/extract", s.handleExtract)

	// Model-backed writing
	mux.HandleFunc("POST /api/cv/improve", s.handleImprove)
	mux.HandleFunc("POST /api/cv/create", s.handleCreate)

	// Unlocking
	mux.HandleFunc("POST /api/unlock", s.handleUnlock)
	mux.HandleFunc("GET /api/cpa/postback", s.handlePostback)
	mux.HandleFunc("GET /api/cpa/status", s.handleStatus)
	mux.HandleFunc("GET /api/cpa/offer", s.handleOffer)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // model calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	log.Println("Server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowAll := slices.Contains(s.cfg.AllowedOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.cfg.AllowedOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Unlock-Token")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowModelCall charges the caller one request of the shared model quota.
// It writes the 429 response itself and returns false when over quota.
func (s *Server) allowModelCall(w http.ResponseWriter, r *http.Request) bool {
	if !s.quota.Enabled() {
		return true
	}
	allowed, info, err := s.quota.Allow(r.Context(), s.extractClientID(r))
	if err != nil {
		s.errorResponse(w, err)
		return false
	}
	if !allowed {
		s.setRateLimitHeaders(w, info)
		s.rateLimitResponse(w, info)
		return false
	}
	return true
}

// statusRecorder captures the status code for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		log.Printf("[%s] %s %s %s", r.Method, r.URL.Path, r.RemoteAddr, requestID)
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d completed in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "ok",
		"llm":    s.generator != nil,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

type errorBody struct {
	OK        bool     `json:"ok"`
	Error     string   `json:"error"`
	Hint      string   `json:"hint,omitempty"`
	Fields    []string `json:"fields,omitempty"`
	Supported []string `json:"supported,omitempty"`
}

// errorResponse writes {"ok": false, "error": code} for err. Internal errors
// are logged with their cause; the client only sees the code.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		log.Printf("[server] %s: %v", apiErr.Code, err)
	}
	s.jsonResponse(w, apiErr.Status, errorBody{
		Error:     apiErr.Code,
		Hint:      apiErr.Hint,
		Fields:    apiErr.Fields,
		Supported: apiErr.Supported,
	})
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"ok":        false,
		"error":     CodeRateLimited,
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// decodeJSON reads a size-limited JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &APIError{Status: http.StatusRequestEntityTooLarge, Code: CodeFileTooLarge, Cause: err}
		}
		return &APIError{Status: http.StatusBadRequest, Code: CodeInvalidJSON, Cause: err}
	}
	return nil
}
