package errors

import (
	"strings"
	"unicode"
)

// SanitizeFilename reduces a client-supplied filename to a safe basename.
// Uploaded filenames are echoed back in the generated output name, so they
// must never carry path components or header-breaking characters.
// Path components are stripped, control characters and separators are
// replaced with underscores, and an empty result falls back to "document.pdf".
func SanitizeFilename(name string) string {
	// Strip any path prefix, accepting both separator styles
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsControl(r), r == '/', r == '\\', r == '\x00':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(b.String())
	cleaned = strings.ReplaceAll(cleaned, "..", "_")
	if cleaned == "" || cleaned == "." {
		return "document.pdf"
	}
	if len(cleaned) > 255 {
		cleaned = cleaned[:255]
	}
	return cleaned
}
