package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Banner is the ASCII art shown on the sign-in and loading screens
var Banner = []string{
	" ____  ____  ____    _    ____  _   _ ",
	"|  _ \\|  _ \\|  _ \\  / \\  / ___|| | | |",
	"| |_) | |_) | | | |/ _ \\ \\___ \\| |_| |",
	"|  __/|  _ <| |_| / ___ \\ ___) |  _  |",
	"|_|   |_| \\_\\____/_/   \\_\\____/|_| |_|",
}

// Tagline is printed under the banner
const Tagline = "search, approve and squash-merge pull requests in bulk"

// RenderBanner returns the styled banner as a string
func RenderBanner(dryRun bool) string {
	bannerStyle := lipgloss.NewStyle().Foreground(ColorCyan)

	lines := make([]string, 0, len(Banner)+3)
	for _, line := range Banner {
		lines = append(lines, bannerStyle.Render(line))
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(ColorDarkGray).Render(Tagline))

	if dryRun {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(ColorYellow).Bold(true).Render("⚠ DRY RUN: demo data, nothing is sent to GitHub"))
	}

	return strings.Join(lines, "\n")
}
