// Package schemas embeds the JSON Schemas describing the service's outputs.
package schemas

import "embed"

// ScoreReport is the schema file for scoring reports.
const ScoreReport = "score_report.schema.json"

//go:embed *.schema.json
var files embed.FS

// Read returns the contents of a schema file.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}
