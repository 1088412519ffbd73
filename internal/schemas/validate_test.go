package schemas

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-ats/internal/scoring"
	schemafiles "github.com/jonathan/cv-ats/schemas"
)

const sampleCV = `# Ana Pérez

## Datos de contacto
- ana@example.com

## Experiencia laboral
Analista contable — ACME
- Corto
- Reduje el tiempo de cierre mensual un 30%
`

func TestLoad_CachesCompiledSchema(t *testing.T) {
	a, err := Load(schemafiles.ScoreReport)
	require.NoError(t, err)
	b, err := Load(schemafiles.ScoreReport)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, schemafiles.ScoreReport, a.Name())
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("nope.schema.json")
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "nope.schema.json", loadErr.Name)
}

func TestValidateReport_ScoredDocument(t *testing.T) {
	report := scoring.Score(sampleCV)
	require.NotEmpty(t, report.Warnings)

	assert.NoError(t, ValidateReport(report))
}

func TestValidateReport_EmptyDocument(t *testing.T) {
	assert.NoError(t, ValidateReport(scoring.Score("")))
}

func TestValidateReport_RejectsTamperedReport(t *testing.T) {
	report := scoring.Score(sampleCV)
	report.OutOf = 12
	report.Criteria = report.Criteria[:3]

	err := ValidateReport(report)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.GreaterOrEqual(t, len(validationErr.Errors), 2)
}

func TestValidateFile(t *testing.T) {
	data, err := json.Marshal(scoring.Score(sampleCV))
	require.NoError(t, err)

	dir := t.TempDir()
	good := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(good, data, 0o644))
	assert.NoError(t, ValidateFile(schemafiles.ScoreReport, good))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"score": "diez"}`), 0o644))
	assert.Error(t, ValidateFile(schemafiles.ScoreReport, bad))

	err = ValidateFile(schemafiles.ScoreReport, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSchema_ValidateMalformedDocument(t *testing.T) {
	s, err := Load(schemafiles.ScoreReport)
	require.NoError(t, err)

	err = s.Validate([]byte("{ invalid json }"))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestValidateJSONString(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["person"],
		"properties": {
			"person": {
				"type": "object",
				"required": ["name"],
				"properties": {"name": {"type": "string"}}
			}
		}
	}`

	assert.NoError(t, ValidateJSONString(schemaContent, `{"person": {"name": "Ana"}}`))

	err := ValidateJSONString(schemaContent, `{"person": {}}`)
	require.Error(t, err)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Len(t, validationErr.Errors, 1)
	assert.Contains(t, validationErr.Errors[0].Field, "person")
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "score", Message: "is required"},
			{Field: "out_of", Message: "must be 10"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. score: is required")
	assert.Contains(t, msg, "2. out_of: must be 10")
}
