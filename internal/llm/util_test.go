package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "# Ana\n## Resumen", "# Ana\n## Resumen"},
		{"markdown fence", "```markdown\n# Ana\n- uno\n```", "# Ana\n- uno"},
		{"md fence with padding", "  ```md\n# Ana\n```  ", "# Ana"},
		{"bare fence", "```\n# Ana\n```", "# Ana"},
		{"heading on fence line", "```# Ana\n## Resumen\n```", "# Ana\n## Resumen"},
		{"unterminated", "```markdown\n# Ana", "# Ana"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCodeFence(tt.input))
		})
	}
}
