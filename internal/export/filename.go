package export

import (
	"strings"
	"unicode"
)

// DefaultFileName is used when the title yields nothing usable
const DefaultFileName = "evaluation-report.pdf"

const maxNameRunes = 80

// FileName derives a deterministic, filesystem-safe PDF name from a project title
func FileName(title string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsControl(r), strings.ContainsRune(`/\:*?"<>|`, r):
			r = '_'
		}
		if space && b.Len() > 0 {
			b.WriteRune('_')
		}
		space = false
		b.WriteRune(r)
	}

	name := []rune(strings.Trim(b.String(), "._"))
	if len(name) > maxNameRunes {
		name = name[:maxNameRunes]
	}
	stem := strings.TrimRight(string(name), "._")
	if stem == "" {
		return DefaultFileName
	}
	return stem + ".pdf"
}
