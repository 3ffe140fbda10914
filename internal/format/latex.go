package format

import (
	"regexp"
	"strings"
)

var (
	// Unicode space variants that break downstream Markdown/math rendering.
	oddSpaceRe = regexp.MustCompile("[\u2000-\u200b\u202f\u205f\u3000]")

	displayMathRe = regexp.MustCompile(`(?s)\\\[(.*?)\\\]`)
	inlineMathRe  = regexp.MustCompile(`(?s)\\\((.*?)\\\)`)
)

// CanonicalizeLaTeX rewrites \[...\] and \(...\) math delimiters to the
// $$-fence and $-span conventions and replaces non-standard space characters
// with plain spaces. Rewrites are applied in order; each operates on the
// output of the previous one. The function is pure and total: empty input
// maps to itself, and canonical input passes through unchanged.
func CanonicalizeLaTeX(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = oddSpaceRe.ReplaceAllString(s, " ")
	s = displayMathRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := displayMathRe.FindStringSubmatch(m)[1]
		return "$$\n" + strings.TrimSpace(inner) + "\n$$"
	})
	s = inlineMathRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := inlineMathRe.FindStringSubmatch(m)[1]
		return "$" + strings.TrimSpace(inner) + "$"
	})
	return s
}
