package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PrefixSeparator splits an optional ordering prefix from a display name,
// as in "02 - Cowboy Bebop: Knockin' on Heaven's Door".
const PrefixSeparator = " - "

var (
	searchableFilter = regexp.MustCompile(`[^\s\pL\pN_]`)
	searchableJoin   = regexp.MustCompile(`\s+`)
)

// SplitPrefix returns the text before and after the first separator. Without
// a separator both values are the full name.
func SplitPrefix(name string) (prefix, rest string) {
	if i := strings.Index(name, PrefixSeparator); i >= 0 {
		return name[:i], name[i+len(PrefixSeparator):]
	}
	return name, name
}

// Searchable folds diacritics, replaces punctuation with spaces, and collapses
// whitespace so the result can be pasted into catalog search forms.
func Searchable(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	folded = searchableFilter.ReplaceAllString(folded, " ")
	return strings.TrimSpace(searchableJoin.ReplaceAllString(folded, " "))
}

// Title renders a lowercase label such as a directory kind for display.
func Title(label string) string {
	return cases.Title(language.Und).String(label)
}
