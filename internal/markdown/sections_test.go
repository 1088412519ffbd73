package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCV = `# **Ana Pérez**

## Datos de contacto
- Celular: +52 55 1234 5678
- Email: ana@example.com
- Ciudad: CDMX
- LinkedIn: linkedin.com/in/ana

## Resumen profesional
Analista con 5 años de experiencia.

## Experiencia laboral
Analista — ACME (2020–2024)
- Reduje tiempos de cierre un 30%
- Automaticé reportes semanales
`

func TestSplitLines_CRLF(t *testing.T) {
	lines := SplitLines("a\r\nb\nc")
	assert.Equal(t, Lines{"a", "b", "c"}, lines)
}

func TestLines_String(t *testing.T) {
	assert.Equal(t, "a\nb", Lines{"a", "b"}.String())
}

func TestStripBold(t *testing.T) {
	assert.Equal(t, "Ana Pérez", StripBold("**Ana** **Pérez**"))
	assert.Equal(t, "unbalanced", StripBold("**unbalanced"))
	assert.Equal(t, "", StripBold(""))
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want string
	}{
		{"bold name", sampleCV, "Ana Pérez"},
		{"indented heading", "   #   Juan  \n", "Juan"},
		{"no heading", "## Resumen\ntexto", ""},
		{"h2 is not a name", "## Nombre\n# Real", "Real"},
		{"hash without space", "#Nombre\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractName(tt.md))
		})
	}
}

func TestRemoveNameHeading_OnlyFirst(t *testing.T) {
	in := Lines{"# Ana", "texto", "# Otro", "fin"}
	out := RemoveNameHeading(in)

	assert.Equal(t, Lines{"texto", "# Otro", "fin"}, out)
	assert.Equal(t, Lines{"# Ana", "texto", "# Otro", "fin"}, in, "input must not be modified")
}

func TestExtractContact_Basic(t *testing.T) {
	contact, body := ExtractContact(SplitLines(sampleCV))

	assert.Equal(t, []string{
		"Celular: +52 55 1234 5678",
		"Email: ana@example.com",
		"Ciudad: CDMX",
		"LinkedIn: linkedin.com/in/ana",
	}, contact)
	assert.NotContains(t, body, ContactHeading)
	assert.Contains(t, body, "## Resumen profesional")
}

func TestExtractContact_RunsToEnd(t *testing.T) {
	contact, body := ExtractContact(Lines{"intro", "## Datos de contacto", "- a@b.com", "", "**Tel** 1"})

	assert.Equal(t, []string{"a@b.com", "Tel 1"}, contact)
	assert.Equal(t, Lines{"intro"}, body)
}

func TestExtractContact_WrongCaseIsBody(t *testing.T) {
	contact, body := ExtractContact(Lines{"## Datos de Contacto", "a@b.com"})

	assert.Empty(t, contact)
	assert.NotNil(t, contact)
	assert.Equal(t, Lines{"## Datos de Contacto", "a@b.com"}, body)
}

func TestSectionize(t *testing.T) {
	got := Sectionize(sampleCV)

	assert.Equal(t, "Ana Pérez", got.Name)
	assert.Len(t, got.ContactLines, 4)
	for _, l := range got.Body {
		assert.NotEqual(t, "# **Ana Pérez**", l)
		assert.NotEqual(t, ContactHeading, l)
	}
	assert.Equal(t, "", got.Body[0])
}

func TestSectionize_IdempotentWithoutContact(t *testing.T) {
	md := "## Resumen\ntexto\n- punto"
	first := Sectionize(md)
	second := Sectionize(first.Body.String())

	assert.Equal(t, first.Body, second.Body)
	assert.Empty(t, second.ContactLines)
}

func TestExtractSection(t *testing.T) {
	assert.Equal(t, "Analista con 5 años de experiencia.", ExtractSection(sampleCV, "Resumen profesional"))
	assert.Equal(t, "", ExtractSection(sampleCV, "Educación"))

	exp := ExtractSection(sampleCV, "Experiencia laboral")
	require.NotEmpty(t, exp)
	assert.Contains(t, exp, "- Automaticé reportes semanales")
}

func TestHasSection(t *testing.T) {
	assert.True(t, HasSection(sampleCV, "Experiencia laboral"))
	assert.True(t, HasSection("##   resumen PROFESIONAL   \n", "Resumen profesional"))
	assert.False(t, HasSection("### Resumen profesional", "Resumen profesional"))
	assert.False(t, HasSection("texto ## Resumen profesional", "Resumen profesional"))
	assert.True(t, HasSection("## Herramientas / Tecnologías", "Herramientas / Tecnologías"))
}

func TestSectionize_RecoversAllContent(t *testing.T) {
	tests := []struct {
		name string
		doc  []string
		// contact block is doc[from:to], heading included; from < 0 means none
		from, to int
	}{
		{
			name: "contact after name",
			doc: []string{
				"# Ana Pérez", "", "## Datos de contacto", "- Tel: 555-1234", "", "- **ana@x.com**",
				"## Resumen", "texto", "# Otro título", "## Extra", "- punto",
			},
			from: 2, to: 6,
		},
		{
			name: "contact before name",
			doc: []string{
				"## Datos de contacto", "- Ciudad de México", "## Experiencia", "# Ana", "- logro", "# Segundo",
			},
			from: 0, to: 2,
		},
		{
			name: "contact runs to end",
			doc: []string{
				"# Ana", "## Resumen", "texto", "## Datos de contacto", "-- linkedin.com/in/ana", "", "Tel: 1",
			},
			from: 3, to: 7,
		},
		{
			name: "no contact",
			doc:  []string{"intro", "# Ana", "## Perfil", "# Ana otra vez", "", "## Fin"},
			from: -1, to: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sectionize(strings.Join(tt.doc, "\n"))

			nameIdx := -1
			for i, l := range tt.doc {
				if strings.HasPrefix(strings.TrimSpace(l), "# ") {
					nameIdx = i
					break
				}
			}

			var wantBody Lines
			wantContact := []string{}
			for i, l := range tt.doc {
				switch {
				case tt.from >= 0 && i == tt.from:
				case tt.from >= 0 && i > tt.from && i < tt.to:
					if c := strings.TrimSpace(l); c != "" {
						wantContact = append(wantContact, StripBold(strings.TrimSpace(strings.TrimLeft(c, "-"))))
					}
				case i == nameIdx:
				default:
					wantBody = append(wantBody, l)
				}
			}

			assert.Equal(t, wantBody, got.Body)
			assert.Equal(t, wantContact, got.ContactLines)
		})
	}
}
