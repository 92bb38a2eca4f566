package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wahlandcase/prdash/internal/batch"
	"github.com/wahlandcase/prdash/internal/models"
	"github.com/wahlandcase/prdash/internal/selection"
)

// Update handles all messages and updates state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeErrorDump()
		m.search.Width = max(m.contentWidth()-16, 10)
		return m, nil

	case tickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % 10
		return m, tickCmd()

	// Task result messages
	case authResult:
		return m.handleAuthResult(msg)

	case pageLoadedResult:
		return m.handlePageLoadedResult(msg)

	case mutationResult:
		return m.handleMutationResult(msg)
	}

	// Everything else (cursor blink) belongs to the search box
	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) resizeErrorDump() {
	m.errorDump.Width = max(m.contentWidth()-8, 20)
	m.errorDump.Height = max(m.height-18, 5)
}

// handleKey processes keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.screen {
	case ScreenSignIn:
		return m.handleSignInKey(msg)
	case ScreenResults:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleResultsKey(msg)
	case ScreenConfirm:
		return m.handleConfirmKey(msg)
	case ScreenError:
		return m.handleErrorKey(msg)
	case ScreenLoading:
		if msg.String() == "q" {
			return m.quit()
		}
	}

	return m, nil
}

func (m Model) handleSignInKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "r":
		m.screen = ScreenLoading
		m.loadingMessage = "Checking credentials..."
		return m, resolveSessionCmd(m.ctx, m.authn, m.connect)
	case "enter":
		if m.authn == nil || !m.authn.CanSignIn() {
			m.setStatus("Browser sign-in is not configured. Set PRDASH_TOKEN or run 'gh auth login', then press r.", true)
			return m, nil
		}
		m.screen = ScreenLoading
		m.loadingMessage = "Waiting for browser sign-in..."
		return m, signInCmd(m.ctx, m.authn, m.connect, m.open)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.cursor = 0
		return m.startSearch(models.Query{Text: m.search.Value()})
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.currentQuery().Text)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.setStatus("", false)

	switch msg.Type {
	case tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	case tea.KeySpace:
		m.toggleHighlighted()
		return m, nil
	case tea.KeyEnter:
		return m.openHighlighted()
	case tea.KeyRunes:
		// handled below
	default:
		return m, nil
	}

	switch string(msg.Runes) {
	case "q":
		return m.quit()
	case "k":
		m.moveCursor(-1)
	case "j":
		m.moveCursor(1)
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "A":
		m.toggleAll()
	case "a":
		return m.submit(batch.Approve)
	case "m":
		return m.submit(batch.Merge)
	case "n":
		if q, ok := m.page.NextQuery(); ok {
			m.cursor = 0
			return m.startSearch(q)
		}
		m.setStatus("No next page", false)
	case "p":
		if q, ok := m.page.PrevQuery(); ok {
			m.cursor = 0
			return m.startSearch(q)
		}
		m.setStatus("No previous page", false)
	case "r":
		return m.startSearch(m.currentQuery())
	case "o":
		return m.openHighlighted()
	case "x":
		return m.signOut()
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.page == nil || len(m.page.Items) == 0 {
		return
	}
	n := len(m.page.Items)
	m.cursor = (m.cursor + delta + n) % n
}

func (m *Model) toggleHighlighted() {
	pr, ok := m.highlighted()
	if !ok {
		return
	}
	if !selection.Eligible(pr) {
		m.setStatus("Only open PRs can be selected", false)
		return
	}
	m.selected = selection.Toggle(m.page, m.selected, pr.ID)
}

// toggleAll deselects everything when all eligible items are selected,
// otherwise selects them all
func (m *Model) toggleAll() {
	if m.page == nil {
		return
	}
	all := selection.State(m.page, m.selected) == selection.All
	m.selected = selection.SetAll(m.page, m.selected, !all)
}

func (m Model) openHighlighted() (tea.Model, tea.Cmd) {
	pr, ok := m.highlighted()
	if !ok || pr.URL == "" {
		return m, nil
	}
	if m.dryRun {
		m.setStatus("Would open "+pr.URL, false)
		return m, nil
	}
	if err := m.open(pr.URL); err != nil {
		m.setStatus("✗ Could not open browser: "+err.Error(), true)
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "left", "right", "tab", "h", "l":
		m.confirmSelection = 1 - m.confirmSelection
	case "y":
		return m.dispatch()
	case "n", "esc":
		return m.cancelConfirm()
	case "enter":
		if m.confirmSelection == 0 {
			return m.dispatch()
		}
		return m.cancelConfirm()
	}
	return m, nil
}

func (m Model) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "enter", "esc":
		m.errorTitle = ""
		m.errorMessage = ""
		m.errorDump.SetContent("")
		if m.remote == nil {
			m.screen = ScreenSignIn
		} else {
			m.screen = ScreenResults
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.errorDump, cmd = m.errorDump.Update(msg)
	return m, cmd
}
