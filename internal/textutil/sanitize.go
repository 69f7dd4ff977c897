package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName makes a display name usable as one path element. Path
// separators and control characters become dashes; everything else, colons
// included, is kept since media centers show the file name as the title.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '-'
		case unicode.IsControl(r):
			return '-'
		default:
			return r
		}
	}, name)
	name = strings.TrimSpace(name)
	if strings.Trim(name, ".") == "" {
		return ""
	}
	return name
}

// SanitizeToken reduces a value such as "anidb:1234" to a lowercase token
// ("anidb_1234") for use inside a file name. Runs of anything other than
// letters and digits collapse into one underscore.
func SanitizeToken(value string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
