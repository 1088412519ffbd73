package scoring

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cv-ats/internal/markdown"
)

// Criterion IDs in report order.
const (
	CriterionName       = "name"
	CriterionContact    = "contact"
	CriterionSummary    = "summary"
	CriterionSkills     = "skills"
	CriterionExperience = "exp"
	CriterionExpBullets = "expBullets"
	CriterionEducation  = "edu"
	CriterionTools      = "tools"
	CriterionNoTables   = "noTables"
	CriterionNoEmoji    = "noEmoji"
	CriterionLength     = "length"
)

// Thresholds used by the checks.
const (
	OutOf = 10

	minNameLength     = 4
	minBulletsPerRole = 2
	minLength         = 800
	maxLength         = 7000
)

var (
	nameRe       = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	emojiRe      = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}]`)
	tableRowRe   = regexp.MustCompile(`\|.+\|`)
	tableSepRe   = regexp.MustCompile(`\n\|[-:\s|]+\|`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	contactKeywords = []string{"celular", "teléfono", "telefono", "@", "linkedin"}
)

// RoleReport is the per-role detail of the experience-bullets criterion.
type RoleReport struct {
	Header  string `json:"header"`
	Bullets int    `json:"bullets"`
	OK      bool   `json:"ok"`
}

// Criterion is one pass/fail check.
type Criterion struct {
	ID     string       `json:"id"`
	Label  string       `json:"label"`
	Pass   bool         `json:"pass"`
	Detail []RoleReport `json:"detail,omitempty"`
}

// Report is the result of Score. Criteria holds the ten counted checks in a
// fixed order; Advisory holds checks reported but not counted.
type Report struct {
	Score    int         `json:"score"`
	OutOf    int         `json:"out_of"`
	Criteria []Criterion `json:"criteria"`
	Advisory []Criterion `json:"advisory"`
	Warnings []string    `json:"warnings"`
}

// Criterion returns the counted or advisory criterion with id.
func (r *Report) Criterion(id string) (Criterion, bool) {
	for _, list := range [][]Criterion{r.Criteria, r.Advisory} {
		for _, c := range list {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Criterion{}, false
}

// Score grades md. It never fails: a missing section fails its criterion.
func Score(md string) *Report {
	roles := ParseExperienceRoles(md)
	expPass, detail := bulletsPerRole(roles)

	criteria := []Criterion{
		{ID: CriterionName, Label: "Incluye nombre (# ...)", Pass: utf8.RuneCountInString(scoreName(md)) >= minNameLength},
		{ID: CriterionContact, Label: "Tiene datos de contacto", Pass: hasContact(md)},
		{ID: CriterionSummary, Label: "Incluye Resumen profesional", Pass: markdown.HasSection(md, "Resumen profesional")},
		{ID: CriterionSkills, Label: "Incluye Competencias clave", Pass: markdown.HasSection(md, "Competencias clave")},
		{ID: CriterionExperience, Label: "Incluye Experiencia laboral", Pass: markdown.HasSection(md, ExperienceHeading)},
		{ID: CriterionExpBullets, Label: "Experiencia con bullets suficientes (≥2 por puesto)", Pass: expPass, Detail: detail},
		{ID: CriterionEducation, Label: "Incluye Educación", Pass: markdown.HasSection(md, "Educación")},
		{ID: CriterionTools, Label: "Incluye Herramientas / Tecnologías", Pass: markdown.HasSection(md, "Herramientas / Tecnologías")},
		{ID: CriterionNoTables, Label: "Sin tablas/columnas (Markdown)", Pass: !containsTable(md)},
		{ID: CriterionNoEmoji, Label: "Sin emojis", Pass: !emojiRe.MatchString(md)},
	}

	score := 0
	for _, c := range criteria {
		if c.Pass {
			score++
		}
	}

	return &Report{
		Score:    score,
		OutOf:    OutOf,
		Criteria: criteria,
		Advisory: []Criterion{
			{ID: CriterionLength, Label: "Extensión razonable", Pass: lengthOK(md)},
		},
		Warnings: BulletWarnings(roles),
	}
}

// scoreName is the first "# " heading as matched anywhere in the document,
// without stripping bold markers.
func scoreName(md string) string {
	m := nameRe.FindStringSubmatch(md)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func hasContact(md string) bool {
	lower := strings.ToLower(md)
	for _, k := range contactKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func containsTable(md string) bool {
	return tableRowRe.MatchString(md) && tableSepRe.MatchString(md)
}

func lengthOK(md string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(whitespaceRe.ReplaceAllString(md, " ")))
	return n >= minLength && n <= maxLength
}

// bulletsPerRole passes when there is at least one role and every role has
// enough bullets.
func bulletsPerRole(roles []ExperienceRole) (bool, []RoleReport) {
	report := make([]RoleReport, 0, len(roles))
	pass := len(roles) > 0
	for _, r := range roles {
		ok := len(r.Bullets) >= minBulletsPerRole
		report = append(report, RoleReport{Header: r.Header, Bullets: len(r.Bullets), OK: ok})
		pass = pass && ok
	}
	return pass, report
}
