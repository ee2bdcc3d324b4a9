package tui

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/chatbtc/internal/chat"
	"github.com/diogo/chatbtc/internal/models"
	"github.com/diogo/chatbtc/internal/render"
)

// Message types for the TUI
type (
	// answerMsg carries the outcome of one service call
	answerMsg struct {
		answer string
		err    error
	}
)

// newlineKeys insert a line break. Terminals rarely report shift+enter, so
// alt+enter and ctrl+j are accepted too.
var newlineKeys = key.NewBinding(
	key.WithKeys("shift+enter", "alt+enter", "ctrl+j"),
	key.WithHelp("shift+enter", "newline"),
)

// Model represents the TUI state
type Model struct {
	session  *chat.Session
	service  chat.AnswerService
	logger   *zap.Logger
	markdown render.Options
	copyFn   func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	ready    bool
	notice   string
	rendered blockCache

	// Dimensions
	width  int
	height int
}

// ModelOption configures a Model
type ModelOption func(*Model)

// WithLogger sets the logger used by the chat window
func WithLogger(logger *zap.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMarkdown sets the options used to render answers
func WithMarkdown(opts render.Options) ModelOption {
	return func(m *Model) {
		m.markdown = opts
	}
}

// WithClipboard replaces the clipboard writer (used by tests)
func WithClipboard(fn func(string) error) ModelOption {
	return func(m *Model) {
		if fn != nil {
			m.copyFn = fn
		}
	}
}

// NewChatModel creates a chat window bound to session. Answers come from
// service.
func NewChatModel(session *chat.Session, service chat.AnswerService, opts ...ModelOption) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask anything about Bitcoin..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline = newlineKeys
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle
	ta.BlurredStyle.Base = lipgloss.NewStyle().Foreground(colorTextMute)

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	m := Model{
		session:  session,
		service:  service,
		logger:   zap.NewNop(),
		markdown: render.DefaultOptions(),
		copyFn:   clipboard.WriteAll,
		rendered: make(blockCache),
		textarea: ta,
		spinner:  s,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Session returns the session the window is bound to
func (m Model) Session() *chat.Session {
	return m.session
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border
		inputHeight := 6  // Input panel with border
		statusHeight := 2 // Status bar and notice
		padding := 2      // Messages panel border

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.viewport.KeyMap = scrollKeys()
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.session.Close()
			return m, tea.Quit

		case "ctrl+y":
			m.copyLastAnswer()
			return m, nil

		case "enter":
			return m.submit()
		}

		if m.session.Awaiting() {
			// Input is disabled; only scrolling goes through
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		m.notice = ""
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.session.UpdateInput(m.textarea.Value())

		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case answerMsg:
		if m.session.Resolve(msg.answer, msg.err) && msg.err != nil {
			m.logger.Debug("answer failed", zap.Error(msg.err))
		}
		m.textarea.Focus()
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, textarea.Blink

	case spinner.TickMsg:
		if m.session.Awaiting() {
			m.spinner, cmd = m.spinner.Update(msg)
			m.updateViewport()
			return m, cmd
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.session.Awaiting() {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit handles Enter. Blank input is swallowed; a rejected submit leaves
// the window unchanged.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.session.Awaiting() || strings.TrimSpace(m.textarea.Value()) == "" {
		return m, nil
	}

	m.session.UpdateInput(m.textarea.Value())
	query, err := m.session.Begin()
	if err != nil {
		if !errors.Is(err, chat.ErrEmptyInput) {
			m.logger.Debug("submit rejected", zap.Error(err))
		}
		return m, nil
	}

	m.notice = ""
	m.textarea.Reset()
	m.textarea.Blur()
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.ask(query), m.spinner.Tick)
}

// ask creates a command that sends the query to the answer service. The
// session context is cancelled when the window quits.
func (m Model) ask(query string) tea.Cmd {
	session, service := m.session, m.service
	return func() tea.Msg {
		answer, err := service.Ask(session.Context(), query)
		return answerMsg{answer: answer, err: err}
	}
}

// copyLastAnswer puts the most recent answer on the clipboard
func (m *Model) copyLastAnswer() {
	answer, ok := m.session.Snapshot().LastAnswer()
	if !ok {
		m.notice = "No answer to copy yet"
		return
	}
	if err := m.copyFn(answer); err != nil {
		m.logger.Debug("clipboard write failed", zap.Error(err))
		m.notice = errorStyle.Render("Could not copy to clipboard")
		return
	}
	m.notice = "Copied last answer to clipboard"
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render(models.AppName),
		" ",
		lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("₿"),
	)
	header := headerStyle.Width(contentWidth).Render(headerContent)
	sections = append(sections, header)

	// Messages
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())
	sections = append(sections, messagesPanel)

	// Input
	label := inputLabelStyle.Render("You")
	if m.session.Awaiting() {
		label = hintStyle.Render("Waiting for answer...")
	}
	inputContent := lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	// Status bar
	sections = append(sections, m.renderStatusBar(contentWidth))
	if m.notice != "" {
		sections = append(sections, noticeStyle.Width(contentWidth).Align(lipgloss.Center).Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Shift+Enter", "Newline"},
		{"Ctrl+Y", "Copy"},
		{"PgUp/PgDn", "Scroll"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport refreshes the viewport content with styled blocks
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	r := blockRenderer{
		width:    m.viewport.Width - 2,
		markdown: m.markdown,
		typing:   m.spinner.View() + " typing",
	}
	m.viewport.SetContent(r.renderAll(Blocks(m.session.Snapshot()), m.rendered))
}

// scrollKeys limits viewport scrolling to keys that do not collide with typing
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
	}
}

// RunChat starts the chat TUI and closes the session when it exits
func RunChat(session *chat.Session, service chat.AnswerService, opts ...ModelOption) error {
	defer session.Close()

	m := NewChatModel(session, service, opts...)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
