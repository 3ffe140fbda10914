package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/render"
)

func TestHTML_RendersGFM(t *testing.T) {
	out, err := render.HTML("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
}

func TestHTML_RendersMath(t *testing.T) {
	out, err := render.HTML("Euler: $e^{i\\pi} + 1 = 0$\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<math")
}
