package captions

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Pattern is a compiled caption-marker predicate. It classifies a block of
// text as a caption candidate when it contains one of the marker tokens
// ("Figure 1", "Fig. 2.3", a bare "Table", ...). Recall is deliberately
// broad: a missed caption degrades output quality more than a false positive.
type Pattern struct {
	re *regexp.Regexp
}

var (
	figureRe = regexp.MustCompile(`(?i)\b(figure|fig\.?|table|diagram)\b(\s*\d+(\.\d+)*)?`)
	tableRe  = regexp.MustCompile(`(?i)\btable\b(\s*\d+(\.\d+)*)?`)
)

// FigurePattern returns the marker pattern used for image primitives. It
// recognizes figure, fig, fig., table, and diagram tokens.
func FigurePattern() *Pattern {
	return &Pattern{re: figureRe}
}

// TablePattern returns the narrower marker pattern used for tables; only
// the table token qualifies.
func TablePattern() *Pattern {
	return &Pattern{re: tableRe}
}

// Matches reports whether text qualifies as a caption candidate. Input is
// NFC-normalized before matching; case is handled by the compiled pattern.
// Whitespace-only text never matches.
func (p *Pattern) Matches(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return p.re.MatchString(norm.NFC.String(trimmed))
}
