// Package scoring grades résumé markdown against a fixed ATS checklist.
package scoring

import (
	"strings"

	"github.com/jonathan/cv-ats/internal/markdown"
)

// ExperienceHeading is the section parsed into roles.
const ExperienceHeading = "Experiencia laboral"

// roleHeaderMarker is the em dash separating position and company in a role
// header ("Analista — ACME").
const roleHeaderMarker = "—"

// fallbackRoleHeader names the role collecting lines seen before any header.
const fallbackRoleHeader = "Experiencia"

// ExperienceRole is one position in the experience section
type ExperienceRole struct {
	Header  string   `json:"header"`
	Bullets []string `json:"bullets"`
}

// ParseExperienceRoles splits the experience section into roles. A non-bullet
// line containing an em dash opens a new role; lines before the first header
// go to a role named "Experiencia". Lines that are neither headers nor "- "
// bullets are ignored.
func ParseExperienceRoles(md string) []ExperienceRole {
	section := markdown.ExtractSection(md, ExperienceHeading)
	if section == "" {
		return nil
	}

	var roles []ExperienceRole
	var current *ExperienceRole

	for _, raw := range markdown.SplitLines(section) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		isBullet := strings.HasPrefix(line, "- ")
		if !isBullet && strings.Contains(line, roleHeaderMarker) {
			if current != nil {
				roles = append(roles, *current)
			}
			current = &ExperienceRole{Header: line, Bullets: []string{}}
			continue
		}

		if current == nil {
			current = &ExperienceRole{Header: fallbackRoleHeader, Bullets: []string{}}
		}
		if isBullet {
			current.Bullets = append(current.Bullets, strings.TrimSpace(line[2:]))
		}
	}

	if current != nil {
		roles = append(roles, *current)
	}
	return roles
}
