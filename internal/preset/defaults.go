package preset

// defaults are the built-in presets seeded on first run. Existing files are
// never overwritten, so user edits survive restarts.
var defaults = map[string]string{
	"standard": `# Standard

Rewrite the OCR text below as clean, well-structured Markdown prose.
- Fix obvious OCR artifacts: broken words, stray hyphenation, repeated characters.
- Reconstruct headings, lists, and tables where the layout implies them.
- Preserve the meaning, order, and factual content of the source exactly.
- Do not invent content that is not present in the source.`,

	"academic": `# Academic

Reformat the OCR text below as an academic note.
- Use a clear heading hierarchy: title, sections, subsections.
- Render every mathematical expression with $...$ for inline math and $$...$$ for display math.
- Keep citations, footnotes, and figure references intact.
- Preserve technical terminology exactly as written.`,

	"meeting-notes": `# Meeting Notes

Restructure the OCR text below as meeting notes.
- Start with a one-line summary, then the date and attendees if present.
- Group discussion points under short topic headings.
- Collect decisions under a "Decisions" heading and action items under "Action Items" as task lists.
- Keep names, dates, and figures exactly as written.`,

	"concise": `# Concise

Condense the OCR text below into a concise Markdown summary.
- Keep every key fact, number, name, and date.
- Prefer short bullet points over prose paragraphs.
- Drop filler, boilerplate, and repeated headers or footers.
- Do not add information that is not present in the source.`,
}
