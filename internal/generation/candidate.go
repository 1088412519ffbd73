package generation

import (
	"fmt"
	"strings"

	"github.com/jonathan/cv-ats/internal/types"
)

// CandidateBlock renders the structured create input as the plain-text block
// the create prompt embeds. Empty values render as empty labels; the photo is
// never included.
func CandidateBlock(req *types.CreateRequest) string {
	var sb strings.Builder
	p := req.Profile

	sb.WriteString("DATOS DEL CANDIDATO:\n")
	fmt.Fprintf(&sb, "Nombre: %s\n", p.FullName)
	fmt.Fprintf(&sb, "Ubicación: %s\n", joinNonEmpty(", ", p.City, p.StateOrRegion))
	fmt.Fprintf(&sb, "Teléfono/WhatsApp: %s\n", p.PhoneWhatsapp)
	fmt.Fprintf(&sb, "Email: %s\n", p.Email)
	fmt.Fprintf(&sb, "LinkedIn: %s\n", p.LinkedIn)
	fmt.Fprintf(&sb, "Website/Portfolio: %s\n\n", p.Website)

	fmt.Fprintf(&sb, "Puesto objetivo: %s\n", req.TargetRole)
	fmt.Fprintf(&sb, "Industria (si aplica): %s\n\n", req.Industry)

	sb.WriteString("Resumen aportado por el candidato (si está vacío, crear uno):\n")
	sb.WriteString(req.Summary)
	sb.WriteString("\n\n")

	sb.WriteString("EXPERIENCIA:\n")
	sb.WriteString(experienceBlock(req.Experience))
	sb.WriteString("\n\n")

	sb.WriteString("EDUCACIÓN:\n")
	sb.WriteString(educationBlock(req.Education))
	sb.WriteString("\n\n")

	sb.WriteString("COMPETENCIAS (funcionales/soft):\n")
	sb.WriteString(strings.Join(req.Skills.Competencies, ", "))
	sb.WriteString("\n\n")

	sb.WriteString("HERRAMIENTAS / TECNOLOGÍAS:\n")
	sb.WriteString(strings.Join(req.Skills.ToolsTech, ", "))
	sb.WriteString("\n\n")

	langs := make([]string, 0, len(req.Languages))
	for _, l := range req.Languages {
		langs = append(langs, l.Name+": "+l.Level)
	}
	sb.WriteString("IDIOMAS:\n")
	sb.WriteString(strings.Join(langs, " | "))
	sb.WriteString("\n\n")

	sb.WriteString("CURSOS / CERTIFICACIONES:\n")
	sb.WriteString(strings.Join(req.Certifications, " | "))
	sb.WriteString("\n\n")

	sb.WriteString("PROYECTOS (si aplica):\n")
	sb.WriteString(projectsBlock(req.Projects))
	sb.WriteString("\n\n")

	sb.WriteString("(US opcional) Permiso de trabajo:\n")
	if req.Country == types.CountryUS && req.USWork != nil {
		sb.WriteString("Autorización: " + req.USWork.WorkAuthorization)
		if req.USWork.RequiresSponsorship != "" {
			sb.WriteString(" | Sponsorship: " + req.USWork.RequiresSponsorship)
		}
	}

	return strings.TrimSpace(sb.String())
}

func experienceBlock(items []types.Experience) string {
	entries := make([]string, 0, len(items))
	for i, e := range items {
		header := fmt.Sprintf("%d) Puesto: %s | Empresa: %s", i+1, e.Title, e.Company)
		if e.Location != "" {
			header += " | Ubicación: " + e.Location
		}
		if dates := joinNonEmpty(" - ", e.Start, e.End); dates != "" {
			header += " | Fechas: " + dates
		}

		var achievement string
		if e.TopAchievement != "" {
			achievement = "Logro principal (si existe): " + e.TopAchievement
		}
		entries = append(entries, joinNonEmpty("\n", header, achievement, bulletList(e.Bullets)))
	}
	return strings.Join(entries, "\n\n")
}

func educationBlock(items []types.Education) string {
	entries := make([]string, 0, len(items))
	for i, ed := range items {
		lines := []string{
			fmt.Sprintf("%d) Nivel: %s", i+1, ed.Level),
			"Institución: " + ed.School,
			"Carrera/Título: " + ed.Degree,
			"Estado: " + ed.Status,
			"Año/Periodo: " + ed.Year,
			"Ubicación: " + ed.Location,
			"Detalles: " + strings.Join(ed.Details, " | "),
		}
		entries = append(entries, strings.TrimSpace(strings.Join(lines, "\n")))
	}
	return strings.Join(entries, "\n\n")
}

func projectsBlock(items []types.Project) string {
	entries := make([]string, 0, len(items))
	for i, p := range items {
		var link string
		if p.Link != "" {
			link = "Link: " + p.Link
		}
		entries = append(entries, joinNonEmpty("\n", fmt.Sprintf("%d) %s", i+1, p.Name), link, bulletList(p.Bullets)))
	}
	return strings.Join(entries, "\n\n")
}

func bulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, b := range items {
		lines = append(lines, "- "+b)
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
