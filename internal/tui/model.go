// Package tui is the interactive terminal rendition of the chat widget.
package tui

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iksnae/chat-widget/internal"
)

const (
	inputPlaceholder = "Type your question..."
	headerHeight     = 4
	footerHeight     = 3
)

// exchangeDoneMsg carries the result of an off-loop exchange back into Update
type exchangeDoneMsg struct {
	out internal.Outcome
}

// Model is the bubbletea model for one widget session
type Model struct {
	ctx     context.Context
	session *internal.Session

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	// shared by every copy of the model
	inflight *exchangeTracker
}

// exchangeTracker counts running exchanges. Once closed it refuses new ones.
type exchangeTracker struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

func (t *exchangeTracker) start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.wg.Add(1)
	return true
}

func (t *exchangeTracker) done() {
	t.wg.Done()
}

func (t *exchangeTracker) closeAndWait() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.wg.Wait()
}

// New creates a widget model bound to session. ctx cancels any in-flight
// exchange when the program exits.
func New(ctx context.Context, session *internal.Session) Model {
	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	return Model{
		ctx:      ctx,
		session:  session,
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		inflight: &exchangeTracker{},
	}
}

// Wait stops the model from starting exchanges and blocks until every
// running one has returned
func (m Model) Wait() {
	m.inflight.closeAndWait()
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "pgup":
			m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
			return m, nil
		case "pgdown":
			m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refresh()

	case exchangeDoneMsg:
		m.session.Complete(msg.out)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.session.Sending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.session.SetInput(m.input.Value())

	return m, tea.Batch(cmds...)
}

// submit hands the current input to the session and, when accepted, runs
// the exchange as a command so the UI keeps rendering while it is in flight
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.session.SetInput(m.input.Value())
	pending, ok := m.session.Begin()
	if !ok {
		return m, nil
	}

	m.input.Reset()
	m.refresh()

	ctx, session, inflight := m.ctx, m.session, m.inflight
	exchange := func() tea.Msg {
		if !inflight.start() {
			return exchangeDoneMsg{out: internal.Outcome{Err: context.Canceled}}
		}
		defer inflight.done()
		return exchangeDoneMsg{out: session.Exchange(ctx, pending)}
	}
	return m, tea.Batch(m.spinner.Tick, exchange)
}

func (m *Model) resize() {
	innerWidth := m.width - frameStyle.GetHorizontalFrameSize()
	if innerWidth < 20 {
		innerWidth = 20
	}
	innerHeight := m.height - frameStyle.GetVerticalFrameSize() - headerHeight - footerHeight - 1
	if innerHeight < 3 {
		innerHeight = 3
	}

	m.viewport.Width = innerWidth
	m.viewport.Height = innerHeight
	m.input.Width = innerWidth - lipgloss.Width(m.input.Prompt) - 10
}

func (m *Model) refresh() {
	m.viewport.SetContent(RenderTranscript(m.session.State(), m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	st := m.session.State()
	width := m.viewport.Width

	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(st, width),
		m.viewport.View(),
		m.footerView(width),
		helpStyle.Render("enter send • pgup/pgdown scroll • esc quit"),
	))
}

func (m Model) headerView(st internal.State, width int) string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Website Assistant"),
		businessStyle.Render("Business: "+st.Config.BusinessID),
	)
	badge := onlineBadgeStyle.Render("Online")

	gap := width - lipgloss.Width(left) - lipgloss.Width(badge) - headerStyle.GetHorizontalFrameSize()
	if gap < 1 {
		gap = 1
	}
	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Center, left, lipgloss.NewStyle().Width(gap).Render(""), badge))
}

func (m Model) footerView(width int) string {
	var button string
	switch {
	case m.session.Sending():
		button = sendDisabledStyle.Render(m.spinner.View() + "...")
	case m.session.CanSend():
		button = sendActiveStyle.Render("Send")
	default:
		button = sendDisabledStyle.Render("Send")
	}
	return footerStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), " ", button))
}

// Session returns the session driven by this model
func (m Model) Session() *internal.Session {
	return m.session
}
