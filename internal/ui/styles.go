package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wahlandcase/prdash/internal/models"
)

var (
	ColorCyan       = lipgloss.Color("#00FFFF")
	ColorGreen      = lipgloss.Color("#00FF00")
	ColorYellow     = lipgloss.Color("#FFFF00")
	ColorRed        = lipgloss.Color("#FF0000")
	ColorMagenta    = lipgloss.Color("#FF00FF")
	ColorBlue       = lipgloss.Color("#5555FF")
	ColorPurple     = lipgloss.Color("#AA55FF")
	ColorOrange     = lipgloss.Color("#FFA500")
	ColorLightGreen = lipgloss.Color("#90EE90")
	ColorWhite      = lipgloss.Color("#FFFFFF")
	ColorDarkGray   = lipgloss.Color("8") // ANSI 8
)

// StateColor colors the state column
func StateColor(state models.PRState) lipgloss.Color {
	switch state {
	case models.PRStateOpen:
		return ColorGreen
	case models.PRStateMerged:
		return ColorPurple
	case models.PRStateClosed:
		return ColorRed
	default:
		return ColorDarkGray
	}
}

// CheckColor colors a status check rollup cell
func CheckColor(state models.CheckState) lipgloss.Color {
	switch state {
	case models.CheckSuccess:
		return ColorGreen
	case models.CheckPending, models.CheckExpected:
		return ColorYellow
	case models.CheckFailure, models.CheckError:
		return ColorRed
	default:
		return ColorDarkGray
	}
}

// ReviewColor colors the review decision cell
func ReviewColor(d models.ReviewDecision) lipgloss.Color {
	switch d {
	case models.ReviewApproved:
		return ColorGreen
	case models.ReviewChangesRequested:
		return ColorRed
	case models.ReviewRequired:
		return ColorYellow
	default:
		return ColorDarkGray
	}
}
