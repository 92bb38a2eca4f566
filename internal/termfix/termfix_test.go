package termfix

import (
	"os"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestApply_NoColor(t *testing.T) {
	assert.Equal(t, termenv.Ascii, Apply(true))
}

func TestApply_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, Apply(false))
}

func TestApply_Warp(t *testing.T) {
	t.Setenv("TERM_PROGRAM", "WarpTerminal")
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("COLORTERM", "")

	Apply(true)
	assert.Equal(t, "dumb", os.Getenv("TERM"))
	assert.Equal(t, "truecolor", os.Getenv("COLORTERM"))
}
