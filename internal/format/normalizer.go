package format

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
)

var (
	thinkBlockRe    = regexp.MustCompile(`(?is)<think>.*?</think>`)
	leadingFenceRe  = regexp.MustCompile("^```(?:json)?[ \\t]*\\n?")
	trailingFenceRe = regexp.MustCompile("\\n?```\\s*$")
)

// Normalized is the outcome of normalizing one raw completion response.
// Degraded is set when the response did not match the structured-output
// schema and the cleaned raw text was used instead.
type Normalized struct {
	Markdown   string
	Confidence *float64
	Degraded   bool
}

// structuredResult is the JSON shape the model is instructed to emit.
type structuredResult struct {
	FormattedMarkdown *string  `json:"formatted_markdown"`
	ConfidenceScore   *float64 `json:"confidence_score"`
}

// Normalize validates and repairs a raw completion response. It never fails:
// reasoning blocks and stray code fences are stripped, then the remainder is
// parsed against the structured-output schema. A schema mismatch degrades to
// returning the cleaned text verbatim; it is logged as a warning, never
// raised as an error. Both paths pass through CanonicalizeLaTeX.
func Normalize(raw string) Normalized {
	cleaned := thinkBlockRe.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = leadingFenceRe.ReplaceAllString(cleaned, "")
	cleaned = trailingFenceRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	var parsed structuredResult
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil && parsed.FormattedMarkdown != nil {
		return Normalized{
			Markdown:   CanonicalizeLaTeX(*parsed.FormattedMarkdown),
			Confidence: parsed.ConfidenceScore,
		}
	}

	log.Printf("format.Normalize: response did not match the structured output schema, falling back to cleaned text")
	return Normalized{Markdown: CanonicalizeLaTeX(cleaned), Degraded: true}
}
