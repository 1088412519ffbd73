package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullCV = `# Ana Pérez

## Datos de contacto
- Celular: +52 55 1234 5678
- ana@example.com

## Resumen profesional
Analista financiera con cinco años de experiencia en cierres contables.

## Competencias clave
- Conciliaciones bancarias
- Análisis de costos

## Experiencia laboral
Analista contable — ACME (2020–2024)
- Reduje el tiempo de cierre mensual un 30% con conciliaciones automáticas
- Implementé tableros de control de gastos por centro de costo

## Educación
Licenciatura en Contaduría — UNAM

## Herramientas / Tecnologías
Excel, SAP, Power BI
`

func ids(cs []Criterion) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestScore_FullDocument(t *testing.T) {
	r := Score(fullCV)

	assert.Equal(t, 10, r.Score)
	assert.Equal(t, 10, r.OutOf)
	assert.Equal(t, []string{"name", "contact", "summary", "skills", "exp", "expBullets", "edu", "tools", "noTables", "noEmoji"}, ids(r.Criteria))
	assert.Equal(t, []string{"length"}, ids(r.Advisory))
	assert.Empty(t, r.Warnings)
	assert.NotNil(t, r.Warnings)
}

func TestScore_MissingEducationCostsOnePoint(t *testing.T) {
	without := strings.Replace(fullCV, "## Educación\nLicenciatura en Contaduría — UNAM\n\n", "", 1)
	require.NotEqual(t, fullCV, without)

	full := Score(fullCV)
	missing := Score(without)

	edu, ok := missing.Criterion(CriterionEducation)
	require.True(t, ok)
	assert.False(t, edu.Pass)
	assert.Equal(t, full.Score-1, missing.Score)
}

func TestScore_ExpBulletsNeedsTwoPerRole(t *testing.T) {
	one := "## Experiencia laboral\nPuesto — Empresa\n- Lideré la migración de datos contables"
	two := one + "\n- Automaticé la conciliación bancaria diaria"

	c, _ := Score(one).Criterion(CriterionExpBullets)
	assert.False(t, c.Pass)
	assert.Equal(t, []RoleReport{{Header: "Puesto — Empresa", Bullets: 1, OK: false}}, c.Detail)

	c, _ = Score(two).Criterion(CriterionExpBullets)
	assert.True(t, c.Pass)
}

func TestScore_ExpBulletsFailsWithoutRoles(t *testing.T) {
	c, _ := Score("# Ana Pérez\n## Experiencia laboral\n\n## Educación").Criterion(CriterionExpBullets)
	assert.False(t, c.Pass)
	assert.Empty(t, c.Detail)
}

func TestScore_Name(t *testing.T) {
	c, _ := Score("# Ana\ntexto").Criterion(CriterionName)
	assert.False(t, c.Pass, "three characters is too short")

	c, _ = Score("# José").Criterion(CriterionName)
	assert.True(t, c.Pass)

	c, _ = Score("## Resumen profesional").Criterion(CriterionName)
	assert.False(t, c.Pass)
}

func TestScore_Contact(t *testing.T) {
	for _, md := range []string{"TELÉFONO 1", "Telefono 1", "a@b", "LinkedIn", "celular"} {
		c, _ := Score(md).Criterion(CriterionContact)
		assert.True(t, c.Pass, md)
	}
	c, _ := Score("sin datos").Criterion(CriterionContact)
	assert.False(t, c.Pass)
}

func TestScore_SectionMatching(t *testing.T) {
	c, _ := Score("##  resumen profesional  ").Criterion(CriterionSummary)
	assert.True(t, c.Pass)

	c, _ = Score("### Resumen profesional").Criterion(CriterionSummary)
	assert.False(t, c.Pass)
}

func TestScore_Tables(t *testing.T) {
	table := "| Puesto | Empresa |\n|---|---|\n| A | B |"
	c, _ := Score(table).Criterion(CriterionNoTables)
	assert.False(t, c.Pass)

	c, _ = Score("Excel | SAP | Power BI").Criterion(CriterionNoTables)
	assert.True(t, c.Pass, "pipes without a separator row are not a table")
}

func TestScore_Emoji(t *testing.T) {
	c, _ := Score("Logros 🚀").Criterion(CriterionNoEmoji)
	assert.False(t, c.Pass)

	c, _ = Score("Logros ★").Criterion(CriterionNoEmoji)
	assert.True(t, c.Pass)
}

func TestScore_LengthIsAdvisory(t *testing.T) {
	short := Score(fullCV)
	length, ok := short.Criterion(CriterionLength)
	require.True(t, ok)
	assert.False(t, length.Pass)
	assert.Equal(t, 10, short.Score)

	padded := fullCV + "\n" + strings.Repeat("palabra ", 120)
	length, _ = Score(padded).Criterion(CriterionLength)
	assert.True(t, length.Pass)

	huge := strings.Repeat("x", 7001)
	length, _ = Score(huge).Criterion(CriterionLength)
	assert.False(t, length.Pass)
}

func TestScore_NeverPanicsOnOddInput(t *testing.T) {
	for _, md := range []string{"", "\r\n\r\n", "#", "## Experiencia laboral", "- - -", "|||"} {
		r := Score(md)
		assert.Len(t, r.Criteria, 10)
		assert.GreaterOrEqual(t, r.Score, 0)
		assert.LessOrEqual(t, r.Score, 10)
	}
}
