package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(CVFile, "improve-system")
	require.NoError(t, err)
	assert.Contains(t, prompt, "optimización de CV para sistemas ATS")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(CVFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestList_CVPrompts(t *testing.T) {
	keys, err := List(CVFile)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"country-rules-CO",
		"country-rules-MX",
		"country-rules-US",
		"create-system",
		"create-user",
		"improve-system",
		"improve-user",
	}, keys)
}

func TestFormat(t *testing.T) {
	got := Format("Puesto: {{.TargetRole}} en {{.CountryName}} {{.Missing}}", map[string]string{
		"TargetRole":  "Analista",
		"CountryName": "México",
	})
	assert.Equal(t, "Puesto: Analista en México {{.Missing}}", got)
}

func TestFormat_ValuesAreNotReexpanded(t *testing.T) {
	got := Format("{{.A}}", map[string]string{"A": "{{.B}}", "B": "x"})
	assert.Equal(t, "{{.B}}", got)
}

func TestRender(t *testing.T) {
	got, err := Render(CVFile, "create-user", map[string]string{
		"CountryName":    "Colombia",
		"TargetRole":     "Contador",
		"CountryRules":   "- regla",
		"CandidateBlock": "DATOS DEL CANDIDATO:",
	})
	require.NoError(t, err)
	assert.Contains(t, got, "Puesto objetivo: Contador")
	assert.Contains(t, got, "orientado a Colombia")
	assert.NotContains(t, got, "{{.")
}
