package library

import (
	"time"

	"github.com/dlclark/regexp2"
)

// userPatternTimeout bounds a single match of an overlay-supplied expression.
const userPatternTimeout = time.Second

// compileUserPattern compiles an expression written in an overlay document.
// Overlay authors write Perl-style expressions with lookaround, so these go
// through regexp2; the built-in guessing patterns stay on regexp.
func compileUserPattern(expr string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(expr, regexp2.IgnoreCase)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = userPatternTimeout
	return re, nil
}

// captureCount returns the number of capture groups in re.
func captureCount(re *regexp2.Regexp) int {
	return len(re.GetGroupNumbers()) - 1
}

// firstGroup returns the text of the first capture group of the leftmost
// match of re in s.
func firstGroup(re *regexp2.Regexp, s string) (string, bool, error) {
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return "", false, err
	}
	group := m.GroupByNumber(1)
	if group == nil || len(group.Captures) == 0 {
		return "", false, nil
	}
	return group.String(), true, nil
}
