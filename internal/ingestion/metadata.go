package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// Metadata describes one extraction.
type Metadata struct {
	Filename   string `json:"filename"`
	Format     string `json:"format"`
	Timestamp  string `json:"timestamp"` // RFC3339
	Hash       string `json:"hash"`      // SHA256 of the extracted text
	Characters int    `json:"characters"`
}

// NewMetadata describes text extracted from filename.
func NewMetadata(filename, text string) *Metadata {
	return &Metadata{
		Filename:   filename,
		Format:     FormatOf(filename),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Hash:       computeHash(text),
		Characters: utf8.RuneCountInString(text),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return b, nil
}
