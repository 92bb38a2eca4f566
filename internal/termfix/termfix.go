// Package termfix adjusts the terminal environment before the UI starts.
package termfix

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Apply fixes known terminal quirks and picks the color profile. Colors are
// turned off by noColor or the NO_COLOR convention.
func Apply(noColor bool) termenv.Profile {
	// Warp stalls on terminal capability queries
	if os.Getenv("TERM_PROGRAM") == "WarpTerminal" {
		os.Setenv("TERM", "dumb")
		os.Setenv("COLORTERM", "truecolor")
	}

	if noColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return termenv.Ascii
	}
	return lipgloss.ColorProfile()
}
