package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inkwell/internal/format"
)

func TestCanonicalizeLaTeX_DisplayAndInline(t *testing.T) {
	in := `Let \[ x^2 + y^2 = z^2 \] and \( a=b \).`
	out := format.CanonicalizeLaTeX(in)
	assert.Equal(t, "Let $$\nx^2 + y^2 = z^2\n$$ and $a=b$.", out)
}

func TestCanonicalizeLaTeX_MultipleBlocks(t *testing.T) {
	in := `\[a\] text \[b\] and \(c\) plus \(d\)`
	out := format.CanonicalizeLaTeX(in)
	assert.Equal(t, "$$\na\n$$ text $$\nb\n$$ and $c$ plus $d$", out)
}

func TestCanonicalizeLaTeX_MultilineDisplayBlock(t *testing.T) {
	in := "\\[\n  \\sum_{i=1}^n i\n\\]"
	out := format.CanonicalizeLaTeX(in)
	assert.Equal(t, "$$\n\\sum_{i=1}^n i\n$$", out)
}

func TestCanonicalizeLaTeX_WhitespaceScrub(t *testing.T) {
	in := "a\u00a0b\u3000c\u2009d\u200be"
	out := format.CanonicalizeLaTeX(in)
	assert.Equal(t, "a b c d e", out)
	assert.Equal(t, len([]rune("a b c d e")), len([]rune(out)))
}

func TestCanonicalizeLaTeX_EmptyString(t *testing.T) {
	assert.Equal(t, "", format.CanonicalizeLaTeX(""))
}

func TestCanonicalizeLaTeX_Idempotent(t *testing.T) {
	inputs := []string{
		"plain prose with no math",
		"Let $$\nx^2\n$$ and $a=b$.",
		format.CanonicalizeLaTeX(`mixed \[ x \] and \( y \)`),
	}
	for _, in := range inputs {
		once := format.CanonicalizeLaTeX(in)
		assert.Equal(t, once, format.CanonicalizeLaTeX(once))
	}
}
