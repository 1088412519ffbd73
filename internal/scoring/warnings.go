package scoring

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	minBulletLength = 18
	maxWarnings     = 6
)

var genericPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)responsable de`),
	regexp.MustCompile(`(?i)apoy[ée] en`),
	regexp.MustCompile(`(?i)tareas administrativas`),
	regexp.MustCompile(`(?i)varias funciones`),
}

// BulletWarnings flags short and generic bullets. Duplicates are dropped and
// at most six warnings are returned, in the order found.
func BulletWarnings(roles []ExperienceRole) []string {
	seen := make(map[string]bool)
	warnings := []string{}

	add := func(w string) {
		if seen[w] {
			return
		}
		seen[w] = true
		warnings = append(warnings, w)
	}

	for _, r := range roles {
		for _, b := range r.Bullets {
			if utf8.RuneCountInString(b) < minBulletLength {
				add(fmt.Sprintf(`Bullet muy corto: "%s"`, b))
			}
			for _, re := range genericPhrases {
				if re.MatchString(b) {
					add(fmt.Sprintf(`Bullet muy genérico: "%s"`, b))
					break
				}
			}
		}
	}

	if len(warnings) > maxWarnings {
		warnings = warnings[:maxWarnings]
	}
	return warnings
}
