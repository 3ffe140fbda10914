package format

import "strings"

// DefaultInstruction is the built-in system instruction used when the named
// preset cannot be resolved.
const DefaultInstruction = `# Standard

Rewrite the OCR text below as clean, well-structured Markdown prose.
- Fix obvious OCR artifacts: broken words, stray hyphenation, repeated characters.
- Reconstruct headings, lists, and tables where the layout implies them.
- Preserve the meaning, order, and factual content of the source exactly.
- Do not invent content that is not present in the source.`

// schemaSuffix is the fixed structured-output contract appended to every
// system instruction.
const schemaSuffix = `Return ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object.

The JSON object must follow this schema:
{
  "formatted_markdown": "<the complete reformatted document as Markdown>",
  "confidence_score": <your confidence in the result, a number between 0.0 and 1.0>
}

"formatted_markdown" is required. "confidence_score" is optional.`

// BuildSystemInstruction assembles the system instruction for one formatting
// request: the preset body, an optional user-supplied custom instruction, a
// target-language directive, and the fixed schema suffix.
func BuildSystemInstruction(presetBody, customInstruction, targetLanguage string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(presetBody))
	if custom := strings.TrimSpace(customInstruction); custom != "" {
		b.WriteString("\n\nAdditional instructions:\n")
		b.WriteString(custom)
	}
	b.WriteString("\n\n")
	if lang := strings.TrimSpace(targetLanguage); lang != "" {
		b.WriteString("Write the output in " + lang + ".")
	} else {
		b.WriteString("Keep the language of the source document.")
	}
	b.WriteString("\n\n")
	b.WriteString(schemaSuffix)
	return b.String()
}
