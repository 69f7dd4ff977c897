package library

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// digitTail accepts what may follow an episode number: a version suffix, a
// separator, the end of the name, or a dash that does not start "-bit".
const digitTail = `(?:v\d+(?:[^0-9a-z]|$)|[^0-9a-z\-]|$|-(?:$|[^b]|b(?:$|[^i]|i(?:$|[^t]))))`

var builtinEpisodePatterns = []*regexp.Regexp{
	wrapEpisodePattern(`(?:[^0-9a-z]|\b|(?:(?:[^0-9a-z]|\b)se?\d{1,3}))ep?(\d{2,3})` + digitTail),
	wrapEpisodePattern(`(?:[^0-9a-z]|\b|(?:(?:[^0-9a-z]|\b)se?\d{1,3}[-_\s]))(\d{2,3})` + digitTail),
	wrapEpisodePattern(`[^\[a-z0-9](\d{2,3})` + digitTail),
}

func wrapEpisodePattern(expr string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + episodePatternSource(expr))
}

func episodePatternSource(expr string) string {
	return `^.*(?:` + expr + `).*$`
}

// GuessEpisodeNumber extracts an episode number from a filename. The custom
// expression, when set, is tried before the built-in patterns and must
// capture the number in its first group. It may use lookaround. ok is false when nothing matches.
func GuessEpisodeNumber(filename, custom string, extensions []string) (int, bool, error) {
	stem := stripMediaExtension(filename, extensions)
	if custom != "" {
		re, err := compileUserPattern(episodePatternSource(custom))
		if err != nil {
			return 0, false, err
		}
		digits, ok, err := firstGroup(re, stem)
		if err != nil {
			return 0, false, err
		}
		if n, ok := episodeNumber(digits, ok); ok {
			return n, true, nil
		}
	}
	for _, re := range builtinEpisodePatterns {
		match := re.FindStringSubmatch(stem)
		if len(match) < 2 {
			continue
		}
		if n, ok := episodeNumber(match[1], true); ok {
			return n, true, nil
		}
	}
	return 0, false, nil
}

func episodeNumber(digits string, matched bool) (int, bool) {
	if !matched || !isDigits(digits) {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func stripMediaExtension(filename string, extensions []string) string {
	ext := filepath.Ext(filename)
	for _, candidate := range extensions {
		if ext != "" && strings.EqualFold(candidate, ext) {
			return strings.TrimSuffix(filename, ext)
		}
	}
	return filename
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
