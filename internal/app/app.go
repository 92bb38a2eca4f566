package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wahlandcase/prdash/internal/auth"
	"github.com/wahlandcase/prdash/internal/batch"
	"github.com/wahlandcase/prdash/internal/config"
	"github.com/wahlandcase/prdash/internal/github"
	"github.com/wahlandcase/prdash/internal/models"
	"github.com/wahlandcase/prdash/internal/selection"
)

// RemoteFactory creates the API client for an authenticated session
type RemoteFactory func(s auth.Session) (github.Remote, error)

// Options wires the model to its collaborators
type Options struct {
	Config *config.Config
	DryRun bool
	// Query is the first search issued after sign-in
	Query   models.Query
	Auth    auth.Authenticator
	Connect RemoteFactory
	Logger  *zap.Logger
	// Open opens a URL in the browser (defaults to the system opener)
	Open func(url string) error
}

// Model is the main application state
type Model struct {
	// Configuration
	config  *config.Config
	dryRun  bool
	log     *zap.Logger
	authn   auth.Authenticator
	connect RemoteFactory
	open    func(string) error

	// ctx is cancelled when the program quits
	ctx    context.Context
	cancel context.CancelFunc

	// Session. generation changes whenever the session ends; remote calls
	// carry it and run under sessionCtx, which is cancelled at the same time.
	session       auth.Session
	remote        github.Remote
	generation    int
	sessionCtx    context.Context
	sessionCancel context.CancelFunc

	// Navigation
	screen     Screen
	shouldQuit bool

	// Page state. query is what the next refresh re-runs.
	query    models.Query
	page     *models.Page
	selected selection.Set
	cursor   int
	tracker  batch.Tracker

	// Confirmation
	pending          *batch.Request
	confirmSelection int // 0=Yes, 1=No

	// Search box
	search    textinput.Model
	searching bool

	// Error modal
	errorTitle   string
	errorMessage string
	errorDump    viewport.Model

	// UI state
	status         string
	statusIsError  bool
	loadingMessage string
	spinnerFrame   int

	// Window size
	width  int
	height int
}

// New creates a new application model
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	open := opts.Open
	if open == nil {
		open = openURL
	}

	input := textinput.New()
	input.Prompt = "is:pr "
	input.Placeholder = "is:open review-requested:@me"
	input.CharLimit = 256
	input.SetValue(opts.Query.Text)

	ctx, cancel := context.WithCancel(context.Background())
	sessionCtx, sessionCancel := context.WithCancel(ctx)

	return Model{
		config:         cfg,
		dryRun:         opts.DryRun,
		log:            log.Named("app"),
		authn:          opts.Auth,
		connect:        opts.Connect,
		open:           open,
		ctx:            ctx,
		cancel:         cancel,
		sessionCtx:     sessionCtx,
		sessionCancel:  sessionCancel,
		screen:         ScreenLoading,
		query:          opts.Query,
		search:         input,
		errorDump:      viewport.New(76, 12),
		loadingMessage: "Checking credentials...",
		width:          80,
		height:         24,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		resolveSessionCmd(m.ctx, m.authn, m.connect),
	)
}

// Screen returns the active screen
func (m Model) Screen() Screen {
	return m.screen
}

// tickMsg is sent on each tick for the spinner
type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// quit cancels outstanding requests and stops the program
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.shouldQuit = true
	m.cancel()
	return m, tea.Quit
}

// endSession drops the credential and everything loaded with it. Requests
// still in flight are cancelled and their results ignored.
func (m *Model) endSession() {
	m.sessionCancel()
	m.sessionCtx, m.sessionCancel = context.WithCancel(m.ctx)
	m.generation++
	m.tracker = batch.Tracker{}

	m.session = auth.Session{}
	m.remote = nil
	m.page = nil
	m.selected = nil
	m.cursor = 0
	m.pending = nil
}

// setStatus shows a one-line message in the status bar
func (m *Model) setStatus(msg string, isError bool) {
	m.status = msg
	m.statusIsError = isError
}

// currentQuery is what a refresh re-runs
func (m Model) currentQuery() models.Query {
	if m.page != nil {
		return m.page.Query
	}
	return m.query
}

func (m *Model) clampCursor() {
	n := 0
	if m.page != nil {
		n = len(m.page.Items)
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// highlighted returns the item under the cursor
func (m Model) highlighted() (models.PullRequest, bool) {
	if m.page == nil || m.cursor >= len(m.page.Items) {
		return models.PullRequest{}, false
	}
	return m.page.Items[m.cursor], true
}
