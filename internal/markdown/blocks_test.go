package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBlocks(t *testing.T) {
	body := Lines{
		"",
		"## **Experiencia**",
		"### Analista",
		"#### Demasiado profundo",
		"- Logré **30%** menos",
		"• Viñeta unicode",
		"-sin espacio",
		"   texto libre  ",
		"# Segundo título",
	}

	got := RenderBlocks(body)

	assert.Equal(t, []Block{
		Blank(),
		Heading(2, "Experiencia"),
		Heading(3, "Analista"),
		Paragraph("#### Demasiado profundo"),
		Bullet("Logré 30% menos"),
		Paragraph("• Viñeta unicode"),
		Paragraph("-sin espacio"),
		Paragraph("texto libre"),
		Heading(1, "Segundo título"),
	}, got)
}

func TestRenderBlocks_TrimsAfterStrippingBold(t *testing.T) {
	got := RenderBlocks(Lines{"- ** Logro**", "## ** Título **", "**  texto**"})

	assert.Equal(t, []Block{
		Bullet("Logro"),
		Heading(2, "Título"),
		Paragraph("texto"),
	}, got)
}

func TestRenderBlocks_OneBlockPerLine(t *testing.T) {
	body := SplitLines("a\n\n- b\n## c\n")
	assert.Len(t, RenderBlocks(body), len(body))
}

func TestPrepare(t *testing.T) {
	doc := Prepare(sampleCV)

	assert.Equal(t, "Ana Pérez", doc.Name)
	assert.Equal(t, []string{
		"Celular: +52 55 1234 5678 | Email: ana@example.com",
		"Ciudad: CDMX | LinkedIn: linkedin.com/in/ana",
	}, doc.Contact)

	require.NotEmpty(t, doc.Blocks)
	assert.Contains(t, doc.Blocks, Heading(2, "Resumen profesional"))
	assert.Contains(t, doc.Blocks, Bullet("Automaticé reportes semanales"))
	assert.NotContains(t, doc.Blocks, Heading(1, "Ana Pérez"))
}

func TestPrepare_PlaceholderName(t *testing.T) {
	doc := Prepare("## Resumen\ntexto")

	assert.Equal(t, PlaceholderName, doc.Name)
	assert.Empty(t, doc.Contact)
	assert.Equal(t, []Block{Heading(2, "Resumen"), Paragraph("texto")}, doc.Blocks)
}
