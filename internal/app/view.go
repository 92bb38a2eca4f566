package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wahlandcase/prdash/internal/batch"
	"github.com/wahlandcase/prdash/internal/models"
	"github.com/wahlandcase/prdash/internal/selection"
	"github.com/wahlandcase/prdash/internal/ui"
)

// contentWidth returns the usable content width, adapting to terminal size
func (m Model) contentWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	return w
}

// View renders the application
func (m Model) View() string {
	if m.shouldQuit {
		return ""
	}

	statusHeight := 3 // status bar with border
	headerLines := 2
	if m.screen == ScreenSignIn || m.screen == ScreenLoading {
		headerLines = len(ui.Banner) + 1
		if m.dryRun {
			headerLines += 2
		}
	}

	availableHeight := m.height - headerLines - 3 - statusHeight
	if availableHeight < 8 {
		availableHeight = 8
	}

	var sections []string

	// Big banner only where there is room for it
	if m.screen == ScreenSignIn || m.screen == ScreenLoading {
		sections = append(sections, ui.RenderBanner(m.dryRun))
	} else {
		sections = append(sections, m.renderHeader())
	}
	sections = append(sections, "")

	outerBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPurple).
		Width(m.contentWidth()).
		Padding(0, 1)

	sections = append(sections, outerBox.Render(m.renderContentWithHeight(availableHeight)))

	// Status bar
	sections = append(sections, "")
	sections = append(sections, m.renderStatusBar())

	content := strings.Join(sections, "\n")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, content)
}

func (m Model) renderContentWithHeight(availableHeight int) string {
	switch m.screen {
	case ScreenLoading:
		return m.renderLoading()
	case ScreenSignIn:
		return m.renderSignIn()
	case ScreenResults:
		return m.renderResultsWithHeight(availableHeight)
	case ScreenConfirm:
		return m.renderConfirm()
	case ScreenError:
		return m.renderError()
	}
	return ""
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(ui.ColorCyan).Bold(true).Render("PRDASH")
	parts := []string{title}
	if m.session.Login != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(ui.ColorWhite).Render("@"+m.session.Login))
	}
	if m.dryRun {
		parts = append(parts, lipgloss.NewStyle().Foreground(ui.ColorYellow).Bold(true).Render("⚠ DRY RUN"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderLoading() string {
	spinnerStyle := lipgloss.NewStyle().Foreground(ui.ColorCyan)
	textStyle := lipgloss.NewStyle().Foreground(ui.ColorCyan)

	loadingText := fmt.Sprintf("%s %s", spinnerStyle.Render(ui.Spinner(m.spinnerFrame)), textStyle.Render(m.loadingMessage))

	centeredStyle := lipgloss.NewStyle().Width(m.contentWidth() - 4).Align(lipgloss.Center)

	return strings.Join([]string{"", "", centeredStyle.Render(loadingText), "", ""}, "\n")
}

func (m Model) renderSignIn() string {
	var lines []string

	lines = append(lines, ui.SectionHeader("Sign in", ui.ColorCyan))
	lines = append(lines, "")
	lines = append(lines, "   prdash needs a GitHub token to search and update pull requests.")
	lines = append(lines, "")

	dim := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
	if m.authn != nil && m.authn.CanSignIn() {
		lines = append(lines, "   Press Enter to sign in with your browser.")
	} else {
		lines = append(lines, dim.Render("   Browser sign-in needs auth.client_id and auth.client_secret in the config."))
	}
	lines = append(lines, "   Or set PRDASH_TOKEN / run 'gh auth login' and press r.")
	if path := m.config.FilePath(); path != "" {
		lines = append(lines, "")
		lines = append(lines, dim.Render("   Config: "+path))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderSearchBox() string {
	color := ui.ColorDarkGray
	if m.searching {
		color = ui.ColorYellow
	}
	return ui.FilterBox(m.search.View(), "Search", color, m.contentWidth()-6)
}

func (m Model) renderResultsWithHeight(availableHeight int) string {
	lines := strings.Split(m.renderSearchBox(), "\n")

	if m.page == nil {
		lines = append(lines, "", "   No results loaded. Press r to retry.")
		return strings.Join(lines, "\n")
	}

	state := selection.State(m.page, m.selected)
	count := selection.Count(m.page, m.selected)
	headerStyle := lipgloss.NewStyle().Foreground(ui.ColorWhite).Bold(true)
	lines = append(lines, fmt.Sprintf("  %s %s  %s",
		lipgloss.NewStyle().Foreground(ui.ColorGreen).Render(ui.TriCheckbox(state)),
		headerStyle.Render(fmt.Sprintf("%d results", len(m.page.Items))),
		lipgloss.NewStyle().Foreground(ui.ColorDarkGray).Render(fmt.Sprintf("%d selected", count)),
	))
	lines = append(lines, "  "+ui.Legend())

	headerLines := len(lines)

	if len(m.page.Items) == 0 {
		lines = append(lines, "", "   No pull requests match this search.")
		return strings.Join(lines, "\n")
	}

	titleWidth := max(m.contentWidth()/2-10, 20)
	for i, pr := range m.page.Items {
		checked := selection.IsSelected(m.page, m.selected, pr.ID)
		lines = append(lines, ui.PRRow(pr, checked, i == m.cursor, titleWidth))
	}

	footer := m.renderPager()
	visible := availableHeight - headerLines - 2
	body := applyViewportScroll(lines, headerLines, headerLines+m.cursor, max(visible, 3))
	return body + "\n\n" + footer
}

func (m Model) renderPager() string {
	dim := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
	active := lipgloss.NewStyle().Foreground(ui.ColorCyan)

	prev, next := dim.Render("◀ p prev"), dim.Render("n next ▶")
	if m.page.PageInfo.HasPreviousPage {
		prev = active.Render("◀ p prev")
	}
	if m.page.PageInfo.HasNextPage {
		next = active.Render("n next ▶")
	}
	return fmt.Sprintf("  %s   %s   %s", prev, dim.Render(fmt.Sprintf("%d per page", models.PageSize)), next)
}

// applyViewportScroll scrolls content to keep the highlighted line visible
func applyViewportScroll(lines []string, headerLines int, highlightedLine int, visibleLines int) string {
	if len(lines) <= headerLines+visibleLines {
		// No scrolling needed
		return strings.Join(lines, "\n")
	}

	// Keep header lines fixed
	header := lines[:headerLines]
	content := lines[headerLines:]

	scrollOffset := 0

	if highlightedLine >= headerLines {
		highlightInContent := highlightedLine - headerLines

		// Keep some padding around the highlighted item
		padding := 2
		if highlightInContent >= visibleLines-padding {
			scrollOffset = highlightInContent - visibleLines + padding + 1
		}
		if scrollOffset > len(content)-visibleLines {
			scrollOffset = len(content) - visibleLines
		}
		if scrollOffset < 0 {
			scrollOffset = 0
		}
	}

	endOffset := min(scrollOffset+visibleLines, len(content))

	// copy so the indicators don't overwrite the caller's rows
	visibleContent := make([]string, endOffset-scrollOffset)
	copy(visibleContent, content[scrollOffset:endOffset])

	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
	if scrollOffset > 0 {
		visibleContent[0] = dimStyle.Render("  ▲ more above")
	}
	if endOffset < len(content) {
		visibleContent[len(visibleContent)-1] = dimStyle.Render("  ▼ more below")
	}

	return strings.Join(append(header, visibleContent...), "\n")
}

func (m Model) renderConfirm() string {
	if m.pending == nil {
		return ""
	}
	var lines []string

	color := ui.ColorGreen
	title := "Confirm Approve"
	if m.pending.Kind == batch.Merge {
		color = ui.ColorMagenta
		title = "Confirm Squash Merge"
	}

	lines = append(lines, ui.SectionHeader(title, color))
	lines = append(lines, "")
	lines = append(lines, "   "+m.pending.ConfirmPrompt())
	lines = append(lines, "")

	dim := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
	shown := 0
	for _, op := range m.pending.Operations {
		if shown == 8 {
			lines = append(lines, dim.Render(fmt.Sprintf("     … and %d more", m.pending.Len()-shown)))
			break
		}
		if pr, ok := m.page.Find(op.TargetID); ok {
			lines = append(lines, "     • "+ui.Truncate(pr.Title, m.contentWidth()-12))
			shown++
		}
	}
	lines = append(lines, "")

	if m.dryRun {
		warningStyle := lipgloss.NewStyle().Foreground(ui.ColorYellow).Bold(true)
		lines = append(lines, warningStyle.Render("   ⚠ DRY RUN: changes only affect the demo data"))
		lines = append(lines, "")
	}

	lines = append(lines, ui.YesNoButtons(m.confirmSelection))

	return strings.Join(lines, "\n")
}

func (m Model) renderError() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "   "+ui.ErrorTitle(m.errorTitle))
	lines = append(lines, "")
	if m.errorMessage != "" {
		lines = append(lines, "   "+m.errorMessage)
		lines = append(lines, "")
	}
	if dump := m.errorDump.View(); strings.TrimSpace(dump) != "" {
		lines = append(lines, ui.Box(dump, ui.ColorRed, 0))
		lines = append(lines, "")
	}
	lines = append(lines, "   Press Enter to go back")

	return strings.Join(lines, "\n")
}

func (m Model) actionHint(key, label string, kind batch.Kind, c lipgloss.Color) string {
	action := batch.ActionFor(kind)
	if m.tracker.State(action) == batch.Loading {
		return ui.KeyBinding(key, label+" "+ui.Spinner(m.spinnerFrame), ui.ColorYellow)
	}
	if m.tracker.Busy() || selection.Count(m.page, m.selected) == 0 {
		return ui.DisabledKeyBinding(key, label)
	}
	return ui.KeyBinding(key, label, c)
}

func (m Model) renderStatusBar() string {
	var hints []string

	switch m.screen {
	case ScreenSignIn:
		if m.authn != nil && m.authn.CanSignIn() {
			hints = append(hints, ui.KeyBinding("Enter", "Sign in", ui.ColorGreen))
		}
		hints = append(hints,
			ui.KeyBinding("r", "Retry", ui.ColorBlue),
			ui.KeyBinding("q", "Quit", ui.ColorRed),
		)
	case ScreenResults:
		if m.searching {
			hints = []string{
				ui.KeyBinding("Enter", "Search", ui.ColorGreen),
				ui.KeyBinding("Esc", "Cancel", ui.ColorYellow),
			}
			break
		}
		hints = []string{
			ui.KeyBinding("↑↓", "Navigate", ui.ColorWhite),
			ui.KeyBinding("Space", "Toggle", ui.ColorGreen),
			ui.KeyBinding("A", "All", ui.ColorGreen),
			m.actionHint("a", "Approve", batch.Approve, ui.ColorGreen),
			m.actionHint("m", "Merge", batch.Merge, ui.ColorMagenta),
			ui.KeyBinding("/", "Search", ui.ColorYellow),
			ui.KeyBinding("n/p", "Page", ui.ColorCyan),
			ui.KeyBinding("r", "Refresh", ui.ColorBlue),
			ui.KeyBinding("o", "Open", ui.ColorBlue),
			ui.KeyBinding("x", "Sign out", ui.ColorOrange),
			ui.KeyBinding("q", "Quit", ui.ColorRed),
		}
		if m.tracker.State(batch.ActionSearch) == batch.Loading {
			hints = append([]string{lipgloss.NewStyle().Foreground(ui.ColorCyan).Render(ui.Spinner(m.spinnerFrame))}, hints...)
		}
	case ScreenConfirm:
		hints = []string{
			ui.KeyBinding("←→", "Select", ui.ColorWhite),
			ui.KeyBinding("y/n", "Quick", ui.ColorGreen),
			ui.KeyBinding("Enter", "Confirm", ui.ColorGreen),
			ui.KeyBinding("Esc", "Back", ui.ColorYellow),
		}
	case ScreenError:
		hints = []string{
			ui.KeyBinding("↑↓", "Scroll", ui.ColorWhite),
			ui.KeyBinding("Enter", "Back", ui.ColorGreen),
			ui.KeyBinding("q", "Quit", ui.ColorRed),
		}
	case ScreenLoading:
		hints = []string{
			ui.KeyBinding("q", "Quit", ui.ColorRed),
		}
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorDarkGray).
		Padding(0, 1)

	line := strings.Join(hints, "  ")
	if m.status != "" {
		statusStyle := lipgloss.NewStyle().Foreground(ui.ColorGreen).Bold(true)
		if m.statusIsError {
			statusStyle = lipgloss.NewStyle().Foreground(ui.ColorRed).Bold(true)
		}
		if line != "" {
			line += "  │  "
		}
		line += statusStyle.Render(m.status)
	}
	if line == "" {
		return ""
	}

	return borderStyle.Render(line)
}
