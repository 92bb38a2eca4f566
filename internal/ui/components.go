package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wahlandcase/prdash/internal/color"
	"github.com/wahlandcase/prdash/internal/models"
	"github.com/wahlandcase/prdash/internal/selection"
)

// SectionHeader creates a styled section header with a title and color
// Example: "─── TITLE ───────────"
func SectionHeader(title string, c lipgloss.Color) string {
	dashes := strings.Repeat("─", max(25-len(title), 0))
	headerStyle := lipgloss.NewStyle().Foreground(c)
	titleStyle := lipgloss.NewStyle().Foreground(c).Bold(true)

	return fmt.Sprintf("%s%s%s",
		headerStyle.Render("  ─── "),
		titleStyle.Render(title),
		headerStyle.Render(" "+dashes),
	)
}

// YesNoButtons creates interactive Yes/No buttons
// selection: 0 for Yes, 1 for No
func YesNoButtons(selection int) string {
	yesColor, noColor := ColorDarkGray, ColorDarkGray
	yesText, noText := ColorWhite, ColorWhite
	iconYes, iconNo := " ", " "
	if selection == 0 {
		yesColor, yesText, iconYes = ColorGreen, ColorGreen, ">"
	} else {
		noColor, noText, iconNo = ColorRed, ColorRed, ">"
	}

	yesStyle := lipgloss.NewStyle().Foreground(yesColor)
	yesTextStyle := lipgloss.NewStyle().Foreground(yesText).Bold(true)
	noStyle := lipgloss.NewStyle().Foreground(noColor)
	noTextStyle := lipgloss.NewStyle().Foreground(noText).Bold(true)

	line1 := yesStyle.Render("  ┌────────┐") + " " + noStyle.Render("┌───────┐")
	line2 := fmt.Sprintf("%s%s%s %s%s%s",
		yesStyle.Render("  │"),
		yesTextStyle.Render(fmt.Sprintf(" %s  YES ", yesStyle.Render(iconYes))),
		yesStyle.Render("│"),
		noStyle.Render("│"),
		noTextStyle.Render(fmt.Sprintf(" %s  NO ", noStyle.Render(iconNo))),
		noStyle.Render("│"),
	)
	line3 := yesStyle.Render("  └────────┘") + " " + noStyle.Render("└───────┘")

	return line1 + "\n" + line2 + "\n" + line3
}

// Spinner frames using braille characters
var SpinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// Spinner returns the spinner character at the given frame index
func Spinner(frame int) string {
	return string(SpinnerFrames[frame%len(SpinnerFrames)])
}

// Checkbox renders a row checkbox
func Checkbox(checked bool) string {
	if checked {
		return "[✓]"
	}
	return "[ ]"
}

// DisabledCheckbox is shown for rows that cannot be selected
func DisabledCheckbox() string {
	return lipgloss.NewStyle().Foreground(ColorDarkGray).Render("[-]")
}

// TriCheckbox renders the select-all checkbox; Mixed is the indeterminate mark
func TriCheckbox(state selection.TriState) string {
	switch state {
	case selection.All:
		return "[✓]"
	case selection.Mixed:
		return "[~]"
	default:
		return "[ ]"
	}
}

// Arrow returns an arrow indicator for the cursor row
func Arrow(selected bool) string {
	if selected {
		return "▶ "
	}
	return "  "
}

// KeyBinding renders a key binding hint
func KeyBinding(key, description string, c lipgloss.Color) string {
	keyStyle := lipgloss.NewStyle().Foreground(c).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	return fmt.Sprintf("%s %s",
		keyStyle.Render(key),
		descStyle.Render(description),
	)
}

// DisabledKeyBinding renders a hint for an action that is currently unavailable
func DisabledKeyBinding(key, description string) string {
	style := lipgloss.NewStyle().Foreground(ColorDarkGray)
	return style.Render(key + " " + description)
}

// LabelChip renders a label on its own color with readable text. Labels with
// an invalid color fall back to a dim chip.
func LabelChip(label models.Label) string {
	fg, err := color.Foreground(label.Color)
	if err != nil {
		return lipgloss.NewStyle().Foreground(ColorDarkGray).Render("(" + label.Name + ")")
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color("#" + strings.TrimPrefix(label.Color, "#"))).
		Foreground(lipgloss.Color(fg)).
		Padding(0, 1).
		Render(label.Name)
}

// LabelChips renders all labels separated by a space
func LabelChips(labels []models.Label) string {
	chips := make([]string, 0, len(labels))
	for _, l := range labels {
		chips = append(chips, LabelChip(l))
	}
	return strings.Join(chips, " ")
}

// StatusCells renders the state, review and check symbols of a row
func StatusCells(pr models.PullRequest) string {
	state := lipgloss.NewStyle().Foreground(StateColor(pr.State)).Bold(true).Render(pr.State.Symbol())
	review := lipgloss.NewStyle().Foreground(ReviewColor(pr.ReviewDecision)).Render(pr.ReviewDecision.Symbol())
	head := lipgloss.NewStyle().Foreground(CheckColor(pr.HeadCheck)).Render(pr.HeadCheck.Symbol())
	merge := lipgloss.NewStyle().Foreground(CheckColor(pr.MergeCheck)).Render(pr.MergeCheck.Symbol())
	return strings.Join([]string{state, review, head, merge}, " ")
}

// Truncate shortens s to width runes, marking the cut with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// PRRow renders one result row
func PRRow(pr models.PullRequest, checked, highlighted bool, titleWidth int) string {
	var box string
	if selection.Eligible(pr) {
		checkStyle := lipgloss.NewStyle().Foreground(ColorWhite)
		if checked {
			checkStyle = lipgloss.NewStyle().Foreground(ColorGreen)
		}
		box = checkStyle.Render(Checkbox(checked))
	} else {
		box = DisabledCheckbox()
	}

	titleStyle := lipgloss.NewStyle()
	arrowStyle := lipgloss.NewStyle().Foreground(ColorCyan)
	if highlighted {
		titleStyle = titleStyle.Foreground(ColorCyan).Bold(true)
	}
	urlStyle := lipgloss.NewStyle().Foreground(ColorDarkGray)

	line := fmt.Sprintf("%s%s %s  %s",
		arrowStyle.Render(Arrow(highlighted)),
		box,
		StatusCells(pr),
		titleStyle.Render(Truncate(pr.Title, titleWidth)),
	)
	if len(pr.Labels) > 0 {
		line += " " + LabelChips(pr.Labels)
	}
	return line + "  " + urlStyle.Render(pr.ShortURL())
}

// Legend explains the status symbols
func Legend() string {
	dim := lipgloss.NewStyle().Foreground(ColorDarkGray)
	return dim.Render("state O/M/C · review ✅ approved ⚠️ required 🛑 changes ⛔️ none · checks ✅ ⏱ ❌")
}

// FilterBox wraps a rendered text input in a titled bordered box
func FilterBox(input, title string, c lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width)
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(c)
	return style.Render(titleStyle.Render(title) + "\n" + input)
}

// Box creates a bordered box
func Box(content string, borderColor lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(content)
}

// ErrorTitle renders the heading of the error modal
func ErrorTitle(title string) string {
	return lipgloss.NewStyle().Foreground(ColorRed).Bold(true).Render("✗ " + title)
}
