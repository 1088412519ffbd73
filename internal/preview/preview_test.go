package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := Render("# Ana Pérez\n## Experiencia laboral\n- Reduje costos **20%**")
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>Ana Pérez</h1>")
	assert.Contains(t, out, "<h2>Experiencia laboral</h2>")
	assert.Contains(t, out, "<li>Reduje costos <strong>20%</strong></li>")
}

func TestRender_Sanitizes(t *testing.T) {
	out, err := Render("Hola <script>alert(1)</script>\n\n[link](javascript:alert(1))\n\n<img src=x onerror=alert(1)>")
	require.NoError(t, err)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "onerror")
}

func TestPage(t *testing.T) {
	out, err := Page("Ana <CV>", "# Ana")
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "<title>Ana &lt;CV&gt;</title>")
	assert.Contains(t, s, "<h1>Ana</h1>")

	out, err = Page("", "texto")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>CV</title>")
}
