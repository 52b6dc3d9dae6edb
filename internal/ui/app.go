// Package ui provides the Bubble Tea TUI for pokedeck.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kfranzen/pokedeck/internal/builder"
	"github.com/kfranzen/pokedeck/internal/session"
	"github.com/kfranzen/pokedeck/internal/teamlist"
)

// View represents the current active view.
type View int

const (
	ViewAuth View = iota
	ViewBuilder
	ViewTeams
)

// builderFocus identifies which builder-view element receives input.
type builderFocus int

const (
	focusSearch builderFocus = iota
	focusSlots
	focusName
)

// statusTTL is how long a transient status message stays visible unless a
// newer message supersedes it first.
const statusTTL = 3 * time.Second

// noConfirm marks the absence of a pending delete confirmation. Ids are
// server-assigned, so 0 is not safe to overload as a sentinel.
const noConfirm = -1

// Options configures the UI.
type Options struct {
	Context context.Context
	Session *session.Store
	Builder *builder.Model
	Teams   *teamlist.Model
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx     context.Context
	session *session.Store
	builder *builder.Model
	teams   *teamlist.Model

	view   View
	width  int
	height int

	// Auth view
	registerMode bool
	authInputs   [3]textinput.Model // username, email, password
	authFocus    int
	authBusy     bool
	authErr      string

	// Builder view
	searchInput textinput.Model
	nameInput   textinput.Model
	focus       builderFocus
	slotCursor  int
	spin        spinner.Model

	// Teams view
	teamCursor    int
	confirmDelete int // team id awaiting confirmation; noConfirm = none
	listCancel    context.CancelFunc

	// Latest view-model snapshots
	sessionSnap session.Snapshot
	builderSnap builder.Snapshot
	teamsSnap   teamlist.Snapshot

	// Status seqs an expiry tick has already been scheduled for
	builderExpireSeq int
	teamsExpireSeq   int
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	search := textinput.New()
	search.Placeholder = "search a pokemon by name"
	search.CharLimit = 64

	name := textinput.New()
	name.Placeholder = "team name"
	name.CharLimit = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:           ctx,
		session:       opts.Session,
		builder:       opts.Builder,
		teams:         opts.Teams,
		authInputs:    [3]textinput.Model{username, email, password},
		searchInput:   search,
		nameInput:     name,
		spin:          spin,
		confirmDelete: noConfirm,
	}
	m.sessionSnap = m.session.Snapshot()
	m.builderSnap = m.builder.Snapshot()
	m.teamsSnap = m.teams.Snapshot()
	if m.sessionSnap.Authenticated() {
		m.view = ViewBuilder
		m.focus = focusSearch
		m.searchInput.Focus()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.spin.Tick, textinput.Blink)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case authDoneMsg:
		return m.handleAuthDone(msg)

	case builderDoneMsg:
		m.builderSnap = m.builder.Snapshot()
		// A successful save cleared the view-model's team name; the input
		// must follow, or the next save would push the stale name back in.
		if m.builderSnap.Status == builder.StatusSaved {
			m.nameInput.Reset()
		}
		return m, m.scheduleBuilderExpiry()

	case builderStatusExpiredMsg:
		m.builder.ClearStatus(msg.seq)
		m.builderSnap = m.builder.Snapshot()
		return m, nil

	case teamsDoneMsg:
		m.teamsSnap = m.teams.Snapshot()
		if m.teamCursor >= len(m.teamsSnap.Teams) {
			m.teamCursor = max(len(m.teamsSnap.Teams)-1, 0)
		}
		return m, m.scheduleTeamsExpiry()

	case teamsStatusExpiredMsg:
		m.teams.ClearStatus(msg.seq)
		m.teamsSnap = m.teams.Snapshot()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	switch m.view {
	case ViewAuth:
		body = m.renderAuth()
	case ViewBuilder:
		body = m.renderBuilder()
	case ViewTeams:
		body = m.renderTeams()
	}

	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.listCancel != nil {
			m.listCancel()
		}
		return m, tea.Quit
	}

	switch m.view {
	case ViewAuth:
		return m.handleAuthKey(msg)
	case ViewBuilder:
		return m.handleBuilderKey(msg)
	case ViewTeams:
		return m.handleTeamsKey(msg)
	}
	return m, nil
}

// enterTeams switches to the teams view and starts a refresh scoped to the
// view's lifetime.
func (m Model) enterTeams() (tea.Model, tea.Cmd) {
	// A superseded refresh must not keep its context (and lookups) alive.
	if m.listCancel != nil {
		m.listCancel()
	}
	listCtx, cancel := context.WithCancel(m.ctx)
	m.listCancel = cancel
	m.view = ViewTeams
	m.teamCursor = 0
	m.confirmDelete = noConfirm
	m.teamsSnap = m.teams.Snapshot()
	return m, refreshTeamsCmd(listCtx, m.teams)
}

// leaveTeams cancels any in-flight refresh and invalidates its result so
// stale data cannot land after the view is gone.
func (m *Model) leaveTeams() {
	if m.listCancel != nil {
		m.listCancel()
		m.listCancel = nil
	}
	m.teams.Invalidate()
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if m.view == ViewTeams {
		m.leaveTeams()
	}
	m.session.Logout()
	m.sessionSnap = m.session.Snapshot()
	m.view = ViewAuth
	m.authErr = ""
	m.authFocus = 0
	for i := range m.authInputs {
		m.authInputs[i].Reset()
		m.authInputs[i].Blur()
	}
	m.authInputs[0].Focus()
	return m, textinput.Blink
}

// scheduleBuilderExpiry arms the auto-clear timer for the builder's current
// status message, at most once per message.
func (m *Model) scheduleBuilderExpiry() tea.Cmd {
	snap := m.builderSnap
	if snap.Status == "" || snap.StatusSeq == m.builderExpireSeq {
		return nil
	}
	m.builderExpireSeq = snap.StatusSeq
	seq := snap.StatusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return builderStatusExpiredMsg{seq: seq}
	})
}

func (m *Model) scheduleTeamsExpiry() tea.Cmd {
	snap := m.teamsSnap
	if snap.Status == "" || snap.StatusSeq == m.teamsExpireSeq {
		return nil
	}
	m.teamsExpireSeq = snap.StatusSeq
	seq := snap.StatusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return teamsStatusExpiredMsg{seq: seq}
	})
}

// Messages

type authDoneMsg struct{ err error }

type builderDoneMsg struct{}

type builderStatusExpiredMsg struct{ seq int }

type teamsDoneMsg struct{}

type teamsStatusExpiredMsg struct{ seq int }

// Commands

func loginCmd(ctx context.Context, store *session.Store, username, password string) tea.Cmd {
	return func() tea.Msg {
		return authDoneMsg{err: store.Login(ctx, username, password)}
	}
}

func registerCmd(ctx context.Context, store *session.Store, username, email, password string) tea.Cmd {
	return func() tea.Msg {
		return authDoneMsg{err: store.Register(ctx, username, email, password)}
	}
}

func searchCmd(ctx context.Context, b *builder.Model) tea.Cmd {
	return func() tea.Msg {
		b.Search(ctx)
		return builderDoneMsg{}
	}
}

func saveCmd(ctx context.Context, b *builder.Model) tea.Cmd {
	return func() tea.Msg {
		b.Save(ctx)
		return builderDoneMsg{}
	}
}

func refreshTeamsCmd(ctx context.Context, t *teamlist.Model) tea.Cmd {
	return func() tea.Msg {
		t.Refresh(ctx)
		return teamsDoneMsg{}
	}
}

func deleteTeamCmd(ctx context.Context, t *teamlist.Model, id int) tea.Cmd {
	return func() tea.Msg {
		t.Delete(ctx, id)
		return teamsDoneMsg{}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
