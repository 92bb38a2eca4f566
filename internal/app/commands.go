package app

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wahlandcase/prdash/internal/auth"
	"github.com/wahlandcase/prdash/internal/batch"
	"github.com/wahlandcase/prdash/internal/github"
	"github.com/wahlandcase/prdash/internal/models"
	"github.com/wahlandcase/prdash/internal/selection"
)

// Message types for async operations

type authResult struct {
	session auth.Session
	remote  github.Remote
	err     error
}

type pageLoadedResult struct {
	// generation is the session the request was sent for
	generation int
	query      models.Query
	page       *models.Page
	err        error
	// action is returned to ready once the page arrives
	action batch.Action
}

type mutationResult struct {
	generation int
	request    batch.Request
	result     *batch.Result
	err        error
}

// establish turns a resolved session into a connected remote
func establish(ctx context.Context, s auth.Session, connect RemoteFactory) authResult {
	if connect == nil {
		return authResult{err: errors.New("no remote configured")}
	}
	remote, err := connect(s)
	if err != nil {
		return authResult{err: fmt.Errorf("connecting: %w", err)}
	}
	login, err := remote.Viewer(ctx)
	if err != nil {
		return authResult{err: fmt.Errorf("checking token: %w", err)}
	}
	s.Login = login
	return authResult{session: s, remote: remote}
}

// resolveSessionCmd looks for an existing credential
func resolveSessionCmd(ctx context.Context, authn auth.Authenticator, connect RemoteFactory) tea.Cmd {
	return func() tea.Msg {
		if authn == nil {
			return authResult{err: auth.ErrNoCredential}
		}
		s, err := authn.Resolve(ctx)
		if err != nil {
			return authResult{err: err}
		}
		return establish(ctx, s, connect)
	}
}

// signInCmd runs the interactive sign-in flow
func signInCmd(ctx context.Context, authn auth.Authenticator, connect RemoteFactory, open func(string) error) tea.Cmd {
	return func() tea.Msg {
		s, err := authn.SignIn(ctx, open)
		if err != nil {
			return authResult{err: err}
		}
		return establish(ctx, s, connect)
	}
}

// searchCmd loads one page of results
func searchCmd(ctx context.Context, generation int, remote github.Remote, q models.Query, action batch.Action) tea.Cmd {
	return func() tea.Msg {
		page, err := remote.Search(ctx, q)
		return pageLoadedResult{generation: generation, query: q, page: page, err: err, action: action}
	}
}

// mutateCmd submits the whole batch as one request
func mutateCmd(ctx context.Context, generation int, remote github.Remote, req batch.Request) tea.Cmd {
	return func() tea.Msg {
		res, err := remote.Mutate(ctx, req)
		return mutationResult{generation: generation, request: req, result: res, err: err}
	}
}

func (m Model) handleAuthResult(msg authResult) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Info("no session", zap.Error(msg.err))
		m.session = auth.Session{}
		m.remote = nil
		m.screen = ScreenSignIn
		if errors.Is(msg.err, auth.ErrNoCredential) {
			m.setStatus("", false)
		} else {
			m.setStatus(msg.err.Error(), true)
		}
		return m, nil
	}

	m.session = msg.session
	m.remote = msg.remote
	m.log.Info("signed in", zap.String("login", msg.session.Login), zap.String("source", string(msg.session.Source)))
	m.setStatus(fmt.Sprintf("Signed in as %s", msg.session.Login), false)

	return m.startSearch(m.query)
}

// startSearch loads q unless another action is in flight
func (m Model) startSearch(q models.Query) (tea.Model, tea.Cmd) {
	if m.remote == nil {
		return m, nil
	}
	if !m.tracker.Begin(batch.ActionSearch) {
		m.setStatus("Wait for the current request to finish", true)
		return m, nil
	}
	m.query = q
	if m.page == nil {
		m.screen = ScreenLoading
		m.loadingMessage = "Searching pull requests..."
	}
	return m, searchCmd(m.sessionCtx, m.generation, m.remote, q, batch.ActionSearch)
}

func (m Model) handlePageLoadedResult(msg pageLoadedResult) (tea.Model, tea.Cmd) {
	if msg.generation != m.generation {
		m.log.Debug("dropping page from an ended session", zap.String("action", msg.action.String()))
		return m, nil
	}
	m.tracker.Finish(msg.action)

	if msg.err != nil {
		m.log.Warn("search failed", zap.String("action", msg.action.String()), zap.Error(msg.err))
		if errors.Is(msg.err, github.ErrUnauthorized) {
			m.endSession()
			m.setStatus("GitHub rejected the token. Sign in again.", true)
			// the batch errors stay up, dismissing them leads to sign-in
			if m.screen != ScreenError {
				m.screen = ScreenSignIn
			}
			return m, nil
		}
		if m.screen == ScreenError {
			// keep the mutation errors on screen
			m.setStatus("Refresh failed: "+msg.err.Error(), true)
			return m, nil
		}
		if m.screen == ScreenLoading {
			m.screen = ScreenResults
		}
		return m.showError("Search failed", msg.err.Error(), ""), nil
	}

	m.page = msg.page
	m.query = msg.page.Query
	m.selected = selection.Prune(m.page, m.selected)
	m.clampCursor()
	if m.screen == ScreenLoading {
		m.screen = ScreenResults
	}
	return m, nil
}

// submit asks for confirmation of a batch built from the current selection
func (m Model) submit(kind batch.Kind) (tea.Model, tea.Cmd) {
	if m.page == nil || m.remote == nil {
		return m, nil
	}
	if m.tracker.Busy() {
		m.setStatus("Wait for the current request to finish", true)
		return m, nil
	}

	req := batch.Build(m.page, m.selected, kind)
	if req.Empty() {
		m.setStatus(fmt.Sprintf("Select at least one open PR to %s", kind), true)
		return m, nil
	}

	m.pending = &req
	m.confirmSelection = 0
	m.screen = ScreenConfirm
	return m, nil
}

// dispatch sends the confirmed batch
func (m Model) dispatch() (tea.Model, tea.Cmd) {
	req := m.pending
	m.pending = nil
	m.confirmSelection = 0
	m.screen = ScreenResults
	if req == nil || m.remote == nil {
		return m, nil
	}

	if !m.tracker.Begin(batch.ActionFor(req.Kind)) {
		m.setStatus("Wait for the current request to finish", true)
		return m, nil
	}

	m.log.Info("submitting batch",
		zap.String("batch", req.ID),
		zap.Stringer("kind", req.Kind),
		zap.Int("operations", req.Len()),
	)
	m.setStatus(fmt.Sprintf("Sending %s for %d PRs...", req.Kind, req.Len()), false)
	return m, mutateCmd(m.sessionCtx, m.generation, m.remote, *req)
}

// cancelConfirm drops the pending batch without sending anything
func (m Model) cancelConfirm() (tea.Model, tea.Cmd) {
	m.pending = nil
	m.confirmSelection = 0
	m.screen = ScreenResults
	m.setStatus("Cancelled", false)
	return m, nil
}

func (m Model) handleMutationResult(msg mutationResult) (tea.Model, tea.Cmd) {
	req := msg.request
	if msg.generation != m.generation {
		m.log.Info("batch finished after sign-out", zap.String("batch", req.ID))
		return m, nil
	}
	outcome := batch.Classify(msg.result, msg.err)
	m.log.Info("batch finished",
		zap.String("batch", req.ID),
		zap.Stringer("kind", req.Kind),
		zap.Stringer("outcome", outcome),
	)

	switch outcome {
	case batch.OutcomeTransport:
		err := msg.err
		if err == nil {
			err = errors.New("no response from GitHub")
		}
		m = m.showError("Request failed", err.Error(), "")
	case batch.OutcomePartial, batch.OutcomeFailed:
		failed := len(msg.result.Failed())
		title := fmt.Sprintf("%d of %d operations failed", failed, req.Len())
		message := fmt.Sprintf("%d PRs %s, %d failed.", req.Len()-failed, req.Kind.PastTense(), failed)
		m = m.showError(title, message, msg.result.ErrorDump())
	default:
		m.setStatus(fmt.Sprintf("✓ %s %d PRs", capitalize(req.Kind.PastTense()), req.Len()), false)
	}

	// the page always reloads, whatever the outcome
	if m.remote == nil {
		m.tracker.Finish(batch.ActionFor(req.Kind))
		return m, nil
	}
	return m, searchCmd(m.sessionCtx, m.generation, m.remote, m.currentQuery(), batch.ActionFor(req.Kind))
}

// showError opens the error modal; dump is shown in a scrollable viewport
func (m Model) showError(title, message, dump string) Model {
	m.errorTitle = title
	m.errorMessage = message
	m.errorDump.SetContent(dump)
	m.errorDump.GotoTop()
	m.screen = ScreenError
	return m
}

func (m Model) signOut() (tea.Model, tea.Cmd) {
	m.log.Info("signed out", zap.String("login", m.session.Login))
	m.endSession()
	m.screen = ScreenSignIn
	m.setStatus("Signed out", false)
	return m, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// openURL opens a URL in the default browser
func openURL(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default: // Linux and others
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}
