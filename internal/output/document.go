package output

import (
	"strings"

	"poe2/pickit/internal/domain"
)

// Assemble joins the dynamic sections and the static block into the final
// document and counts the rule lines taken from the sections.
func Assemble(sections []domain.SectionResult, static string) (string, int) {
	lines := make([]string, 0, 8*len(sections)+1)
	total := 0

	for _, section := range sections {
		lines = append(lines, SectionHeader(section.SectionName), "")
		for _, result := range section.Results {
			lines = append(lines, result.FormattedLine)
			total++
		}
		lines = append(lines, "")
	}

	if static != "" {
		lines = append(lines, static)
	}

	return strings.Join(lines, "\n"), total
}
