package tui

import (
	"context"
	"fmt"
	"time"

	"nugget-cli/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenHome screen = iota
	screenSession
	screenFeeds
	screenStats
)

// promptKind says what the on-screen text input is collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptSaveURL
	promptSmartQuery
	promptFeedURL
)

type (
	errMsg            struct{ err error }
	refreshMsg        struct{}
	spinMsg           struct{}
	nuggetsLoadedMsg  struct{ nuggets []app.Nugget }
	nuggetSavedMsg    struct{ nugget *app.Nugget }
	sessionStartedMsg struct{ engine *app.SessionEngine }
	sessionClosedMsg  struct{}
	pollUpdateMsg     struct{ status app.SessionStatus }
	pollStoppedMsg    struct{}
	feedsLoadedMsg    struct{ feeds []app.Feed }
	feedAddedMsg      struct{ feed *app.Feed }
	feedRemovedMsg    struct{ feedID string }
	statsLoadedMsg    struct{ stats app.Stats }
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Model is the root bubbletea model. It owns the screen switch and the
// shared chrome; each screen keeps its own sub-model.
type Model struct {
	app   *app.Application
	theme Theme
	keys  keyMap

	width  int
	height int

	screen  screen
	home    homeModel
	session *sessionModel
	feeds   feedsModel
	stats   statsModel

	prompt     promptKind
	input      textinput.Model
	mockMode   bool
	loading    bool
	spinnerPos int
	errText    string
	refreshCh  <-chan struct{}
}

func New(application *app.Application, mockMode bool) *Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	t := NewTheme(application.Config.Theme)
	return &Model{
		app:       application,
		theme:     t,
		keys:      defaultKeyMap(),
		width:     100,
		height:    30,
		screen:    screenHome,
		home:      newHomeModel(t),
		feeds:     newFeedsModel(t),
		stats:     newStatsModel(t),
		input:     ti,
		mockMode:  mockMode,
		refreshCh: application.Broadcast.Subscribe(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadNuggets(), m.waitRefresh(), m.spin())
}

func (m *Model) spin() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg { return spinMsg{} })
}

// waitRefresh turns the broadcast subscription into messages. Other
// screens reload their data when one arrives.
func (m *Model) waitRefresh() tea.Cmd {
	ch := m.refreshCh
	return func() tea.Msg {
		<-ch
		return refreshMsg{}
	}
}

func (m *Model) loadNuggets() tea.Cmd {
	client := m.app.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		nuggets, err := client.ListNuggets(ctx)
		if err != nil {
			return errMsg{err}
		}
		return nuggetsLoadedMsg{nuggets}
	}
}

func (m *Model) startSession(size int) tea.Cmd {
	a := m.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		engine, err := a.StartSession(ctx, size)
		if err != nil {
			return errMsg{err}
		}
		return sessionStartedMsg{engine}
	}
}

func (m *Model) startSmartSession(query string) tea.Cmd {
	a := m.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		engine, err := a.StartSmartSession(ctx, query)
		if err != nil {
			return errMsg{err}
		}
		return sessionStartedMsg{engine}
	}
}

func (m *Model) saveNugget(url string) tea.Cmd {
	client := m.app.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := client.SaveNugget(ctx, url)
		if err != nil {
			return errMsg{err}
		}
		return nuggetSavedMsg{n}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinMsg:
		m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
		return m, m.spin()

	case refreshMsg:
		return m, tea.Batch(m.loadNuggets(), m.waitRefresh())

	case errMsg:
		// Session-start and load errors surface as a dismissible
		// banner; anything that happens inside an open session is
		// already swallowed further down.
		m.loading = false
		m.errText = msg.err.Error()
		return m, nil

	case nuggetsLoadedMsg:
		m.loading = false
		m.home.setNuggets(msg.nuggets)
		return m, nil

	case nuggetSavedMsg:
		m.loading = false
		return m, m.loadNuggets()

	case sessionStartedMsg:
		m.loading = false
		m.errText = ""
		sm := newSessionModel(m.app, msg.engine, m.theme, m.keys)
		m.session = &sm
		m.screen = screenSession
		return m, m.session.Init()

	case sessionClosedMsg:
		m.session = nil
		m.screen = screenHome
		return m, m.loadNuggets()

	case feedsLoadedMsg, feedAddedMsg, feedRemovedMsg:
		m.loading = false
		var cmd tea.Cmd
		m.feeds, cmd = m.feeds.update(msg, m.app)
		return m, cmd

	case statsLoadedMsg:
		m.loading = false
		m.stats.stats = msg.stats
		m.stats.loaded = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Poll updates and other session-scoped traffic.
	if m.screen == screenSession && m.session != nil {
		sm, cmd := m.session.update(msg)
		m.session = sm
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The text prompt swallows keys while open.
	if m.prompt != promptNone {
		switch msg.Type {
		case tea.KeyEscape:
			m.prompt = promptNone
			m.input.Blur()
			return m, nil
		case tea.KeyEnter:
			value := m.input.Value()
			kind := m.prompt
			m.prompt = promptNone
			m.input.Blur()
			m.input.SetValue("")
			return m, m.submitPrompt(kind, value)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Quit) {
		if m.session != nil {
			// Quit from inside a session still reports completions.
			cmd := m.session.closeCmd()
			return m, tea.Sequence(cmd, tea.Quit)
		}
		return m, tea.Quit
	}

	switch m.screen {
	case screenSession:
		if m.session != nil {
			sm, cmd := m.session.handleKey(msg)
			m.session = sm
			return m, cmd
		}
		m.screen = screenHome
		return m, nil

	case screenFeeds:
		if key.Matches(msg, m.keys.Close) {
			m.screen = screenHome
			return m, nil
		}
		if key.Matches(msg, m.keys.Add) {
			return m.openPrompt(promptFeedURL, "feed url")
		}
		var cmd tea.Cmd
		m.feeds, cmd = m.feeds.handleKey(msg, m.keys, m.app)
		return m, cmd

	case screenStats:
		if key.Matches(msg, m.keys.Close) {
			m.screen = screenHome
			return m, nil
		}
		return m, nil

	default: // home
		switch {
		case key.Matches(msg, m.keys.Session):
			m.errText = ""
			m.loading = true
			return m, m.startSession(0)
		case key.Matches(msg, m.keys.Smart):
			return m.openPrompt(promptSmartQuery, "what do you want to catch up on?")
		case key.Matches(msg, m.keys.Save):
			return m.openPrompt(promptSaveURL, "https://…")
		case key.Matches(msg, m.keys.Feeds):
			m.screen = screenFeeds
			m.loading = true
			return m, m.feeds.load(m.app)
		case key.Matches(msg, m.keys.Stats):
			m.screen = screenStats
			return m, m.stats.load(m.app)
		case key.Matches(msg, m.keys.Close):
			m.errText = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.home, cmd = m.home.handleKey(msg, m.keys, m.app)
		return m, cmd
	}
}

func (m *Model) openPrompt(kind promptKind, placeholder string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	return m, m.input.Focus()
}

func (m *Model) submitPrompt(kind promptKind, value string) tea.Cmd {
	if value == "" {
		return nil
	}
	m.loading = true
	switch kind {
	case promptSaveURL:
		return m.saveNugget(value)
	case promptSmartQuery:
		return m.startSmartSession(value)
	case promptFeedURL:
		return m.feeds.add(m.app, value)
	}
	return nil
}

func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenSession:
		if m.session != nil {
			body = m.session.view(m.width, m.height-4)
		}
	case screenFeeds:
		body = m.feeds.view(m.width, m.height-4)
	case screenStats:
		body = m.stats.view(m.width)
	default:
		body = m.home.view(m.width, m.height-4)
	}

	top := m.topBar()
	footer := m.theme.Footer.Render(footerHelp(m.screen))

	sections := []string{top, body}
	if m.errText != "" {
		sections = append(sections, m.theme.ErrorBanner.Render("✗ "+m.errText+"  (esc to dismiss)"))
	}
	if m.prompt != promptNone {
		sections = append(sections, m.theme.InputBox.Render(m.input.View()))
	}
	sections = append(sections, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) topBar() string {
	title := m.theme.TopBarTitle.Render("nugget")
	meta := ""
	if m.mockMode {
		meta = m.theme.TopBarBadge.Render(" offline demo ")
	}
	if m.loading {
		meta += m.theme.Spinner.Render(" " + spinnerFrames[m.spinnerPos])
	}
	unread := m.home.unreadCount()
	badge := ""
	if unread > 0 {
		badge = m.theme.TopBarMeta.Render(fmt.Sprintf("  %d unread", unread))
	}
	return m.theme.TopBar.Render(title + badge + meta)
}
