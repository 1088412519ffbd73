package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestAllSchemaFiles_ValidJSONSchema(t *testing.T) {
	matches, err := filepath.Glob("*.schema.json")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, schemaFile := range matches {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err)

			var v interface{}
			require.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON")

			_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			assert.NoError(t, err, "schema should compile")
		})
	}
}

func TestRead_EmbeddedMatchesDisk(t *testing.T) {
	embedded, err := Read(ScoreReport)
	require.NoError(t, err)

	onDisk, err := os.ReadFile(ScoreReport)
	require.NoError(t, err)
	assert.Equal(t, onDisk, embedded)

	_, err = Read("missing.schema.json")
	assert.Error(t, err)
}
