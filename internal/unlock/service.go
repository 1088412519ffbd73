// Package unlock implements the export gate: CPA postback tracking, unlock
// codes, signed unlock tokens and offer rotation.
package unlock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/cv-ats/internal/store"
)

// DefaultUnlockTTL is how long a completed offer keeps a tracking id unlocked.
const DefaultUnlockTTL = 48 * time.Hour

const keyPrefix = "cpa:unlocked:"

// Config configures a Service.
type Config struct {
	// Codes are accepted verbatim after trimming.
	Codes []string
	// CodeHashes are bcrypt hashes of accepted codes.
	CodeHashes []string
	// UnlockTTL defaults to DefaultUnlockTTL.
	UnlockTTL time.Duration
	// Tokens is optional; without it IssueToken and ValidateToken fail with
	// ErrTokensDisabled.
	Tokens *TokenIssuer
}

// Service records and checks unlocks.
type Service struct {
	store  store.Store
	codes  map[string]struct{}
	hashes []string
	ttl    time.Duration
	tokens *TokenIssuer
}

// NewService creates a Service backed by st.
func NewService(st store.Store, cfg Config) *Service {
	codes := make(map[string]struct{}, len(cfg.Codes))
	for _, c := range cfg.Codes {
		if c = strings.TrimSpace(c); c != "" {
			codes[c] = struct{}{}
		}
	}

	var hashes []string
	for _, h := range cfg.CodeHashes {
		if h = strings.TrimSpace(h); h != "" {
			hashes = append(hashes, h)
		}
	}

	ttl := cfg.UnlockTTL
	if ttl <= 0 {
		ttl = DefaultUnlockTTL
	}

	return &Service{store: st, codes: codes, hashes: hashes, ttl: ttl, tokens: cfg.Tokens}
}

// NewTrackingID returns a fresh id to attach to an offer link.
func NewTrackingID() string {
	return uuid.NewString()
}

func unlockKey(trackingID string) string {
	return keyPrefix + trackingID
}

// MarkUnlocked records a completed offer for trackingID.
func (s *Service) MarkUnlocked(ctx context.Context, trackingID string) error {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return ErrMissingTrackingID
	}
	if err := s.store.Set(ctx, unlockKey(trackingID), "1", s.ttl); err != nil {
		return fmt.Errorf("failed to record unlock: %w", err)
	}
	return nil
}

// IsUnlocked reports whether trackingID completed an offer within the TTL.
// A blank id is never unlocked.
func (s *Service) IsUnlocked(ctx context.Context, trackingID string) (bool, error) {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return false, nil
	}
	_, err := s.store.Get(ctx, unlockKey(trackingID))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check unlock: %w", err)
	}
	return true, nil
}

// RedeemCode checks code against the configured plain codes and hashes.
func (s *Service) RedeemCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrMissingCode
	}
	if _, ok := s.codes[code]; ok {
		return nil
	}
	for _, h := range s.hashes {
		if bcrypt.CompareHashAndPassword([]byte(h), []byte(code)) == nil {
			return nil
		}
	}
	return ErrInvalidCode
}

// TokensEnabled reports whether the service can issue unlock tokens.
func (s *Service) TokensEnabled() bool {
	return s.tokens != nil
}

// IssueToken signs an unlock token for subject.
func (s *Service) IssueToken(subject, method string) (string, error) {
	if s.tokens == nil {
		return "", ErrTokensDisabled
	}
	return s.tokens.GenerateToken(subject, method)
}

// ValidateToken checks an unlock token.
func (s *Service) ValidateToken(token string) (*Claims, error) {
	if s.tokens == nil {
		return nil, ErrTokensDisabled
	}
	return s.tokens.ValidateToken(token)
}

// HashCode returns the bcrypt hash of code for use in CodeHashes.
func HashCode(code string, cost int) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrMissingCode
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}
	return string(hash), nil
}
