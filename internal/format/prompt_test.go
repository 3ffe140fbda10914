package format_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"inkwell/internal/format"
)

func TestBuildSystemInstruction_ContainsSchemaContract(t *testing.T) {
	out := format.BuildSystemInstruction(format.DefaultInstruction, "", "")
	assert.Contains(t, out, "formatted_markdown")
	assert.Contains(t, out, "confidence_score")
	assert.Contains(t, out, "Return ONLY valid JSON")
	assert.True(t, strings.HasPrefix(out, "# Standard"))
}

func TestBuildSystemInstruction_AppendsCustomInstruction(t *testing.T) {
	out := format.BuildSystemInstruction("preset body", "keep all dates", "")
	assert.Contains(t, out, "Additional instructions:\nkeep all dates")
}

func TestBuildSystemInstruction_TargetLanguage(t *testing.T) {
	out := format.BuildSystemInstruction("preset body", "", "German")
	assert.Contains(t, out, "Write the output in German.")
	assert.NotContains(t, out, "Keep the language of the source document.")

	out = format.BuildSystemInstruction("preset body", "", "")
	assert.Contains(t, out, "Keep the language of the source document.")
}
