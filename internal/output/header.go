package output

import "strings"

const (
	BoxWidth = 85

	// FileName is the name the generated document is downloaded under.
	FileName = "dyno.ipd"
)

// SectionHeader renders the five line box around a centered title.
// Titles wider than the box are not truncated and get no padding.
func SectionHeader(title string) string {
	border := strings.Repeat("/", BoxWidth)
	inner := BoxWidth - 4

	padding := max(inner-len(title), 0)
	left := padding / 2
	right := padding - left

	return strings.Join([]string{
		border,
		"//" + strings.Repeat(" ", inner) + "//",
		"//" + strings.Repeat(" ", left) + title + strings.Repeat(" ", right) + "//",
		"//" + strings.Repeat(" ", inner) + "//",
		border,
	}, "\n")
}

// Rule is the 85 character separator used in the run log.
func Rule() string {
	return strings.Repeat("=", BoxWidth)
}
