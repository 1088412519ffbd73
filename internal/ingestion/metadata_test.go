package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	m := NewMetadata("Mi CV.PDF", "Ana Pérez")

	assert.Equal(t, "Mi CV.PDF", m.Filename)
	assert.Equal(t, "pdf", m.Format)
	assert.Equal(t, 9, m.Characters)
	assert.Len(t, m.Hash, 64)
	_, err := time.Parse(time.RFC3339, m.Timestamp)
	assert.NoError(t, err)

	assert.Equal(t, m.Hash, NewMetadata("otro.txt", "Ana Pérez").Hash, "hash depends only on text")
}

func TestMetadata_ToJSON(t *testing.T) {
	b, err := NewMetadata("cv.txt", "hola").ToJSON()
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.ElementsMatch(t, []string{"filename", "format", "timestamp", "hash", "characters"}, keys(fields))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
