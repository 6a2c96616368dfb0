package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/docchat/internal/api"
	"github.com/diogo/docchat/internal/attach"
	"github.com/diogo/docchat/internal/chat"
	"github.com/diogo/docchat/internal/citation"
	"github.com/diogo/docchat/internal/config"
	"github.com/diogo/docchat/internal/models"
	"github.com/diogo/docchat/internal/provider"
	"github.com/diogo/docchat/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	responseMsg struct {
		resp *models.ChatResponse
	}
	errMsg struct {
		err error
	}
	// fileRefMsg is sent when a library file id has been resolved for /use
	fileRefMsg struct {
		ref attach.FileRef
	}
	// sessionsLoadedMsg is sent when the session list arrives for the selector
	sessionsLoadedMsg struct {
		sessions []models.Session
		err      error
	}
	// sessionOpenedMsg is sent after a session's timeline has been loaded
	sessionOpenedMsg struct {
		title string
		err   error
	}
)

// sendStatus carries the orchestrator's status line across goroutines.
// The send runs inside a tea command; the model polls this on animation
// ticks.
type sendStatus struct {
	mu   sync.Mutex
	text string
}

func (s *sendStatus) set(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

func (s *sendStatus) get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// providerRow is one selectable provider/model pair in the overlay
type providerRow struct {
	providerID   int
	providerName string
	model        string
}

// Model represents the chat TUI state
type Model struct {
	client       api.ClientInterface
	store        *chat.SessionStore
	orchestrator *chat.Orchestrator
	selector     *provider.Selector
	cfg          config.Config

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	loading        bool
	ready          bool
	err            error
	animationFrame int
	status         *sendStatus
	sessionTitle   string
	pendingFiles   []attach.LocalFile
	pendingRefs    []attach.FileRef
	lastAssistant  string

	// Session selector state
	selectingSession bool
	sessionsList     []models.Session
	sessionsCursor   int
	sessionsLoading  bool

	// Provider selector state
	selectingProvider bool
	providerRows      []providerRow
	providersCursor   int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(client api.ClientInterface, selector *provider.Selector, cfg config.Config) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message, /help for commands..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	status := &sendStatus{}
	store := chat.NewSessionStore(client)
	orch := chat.NewOrchestrator(client, store, selector, chat.Hooks{
		OnStatus: func(st string) { status.set(st) },
		OnProgress: func(pct int) {
			if pct < 100 {
				status.set(fmt.Sprintf("uploading %d%%", pct))
			}
		},
	})

	return Model{
		client:       client,
		store:        store,
		orchestrator: orch,
		selector:     selector,
		cfg:          cfg,
		textarea:     ta,
		spinner:      s,
		status:       status,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.selectingSession {
		return m.updateSessionSelection(msg)
	}
	if m.selectingProvider {
		return m.updateProviderSelection(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.textarea.SetWidth(contentWidth - 4)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.textarea.SetWidth(contentWidth - 4)
		}
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.loading {
				// the request keeps running server-side; only the UI
				// stops waiting
				m.loading = false
			} else {
				return m, tea.Quit
			}

		case "enter":
			if m.loading {
				break
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				break
			}
			if model, cmd, handled := m.handleCommand(input); handled {
				return model, cmd
			}

			m.loading = true
			m.err = nil
			m.animationFrame = 0
			m.status.set("")
			m.textarea.Reset()

			return m, tea.Batch(
				m.sendMessage(input),
				m.spinner.Tick,
				animationTick(),
			)
		}

	case responseMsg:
		m.loading = false
		m.pendingFiles = nil
		m.pendingRefs = nil
		m.lastAssistant = msg.resp.Content
		if m.sessionTitle == "" {
			m.sessionTitle = "new session"
		}
		if m.cfg.CopyToClipboard {
			_ = clipboard.WriteAll(citation.Strip(msg.resp.Content))
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case errMsg:
		m.loading = false
		m.err = msg.err
		m.updateViewport()

	case fileRefMsg:
		m.err = nil
		m.pendingRefs = append(m.pendingRefs, msg.ref)

	case sessionOpenedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.sessionTitle = msg.title
			m.updateViewport()
			m.viewport.GotoBottom()
		}

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to the textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleCommand intercepts slash commands typed into the compose box
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd, bool) {
	switch {
	case input == "exit" || input == "quit" || input == "/exit" || input == "/quit":
		return m, tea.Quit, true

	case input == "/sessions":
		m.textarea.Reset()
		m.selectingSession = true
		m.sessionsLoading = true
		m.sessionsCursor = 0
		return m, m.loadSessions(), true

	case input == "/providers" || input == "/provider":
		m.textarea.Reset()
		m.selectingProvider = true
		m.providersCursor = 0
		m.providerRows = buildProviderRows(m.selector.Providers())
		return m, nil, true

	case input == "/new":
		m.textarea.Reset()
		m.store.Clear()
		m.sessionTitle = ""
		m.lastAssistant = ""
		m.pendingFiles = nil
		m.pendingRefs = nil
		m.updateViewport()
		return m, nil, true

	case input == "/copy":
		m.textarea.Reset()
		if m.lastAssistant != "" {
			if err := clipboard.WriteAll(citation.Strip(m.lastAssistant)); err != nil {
				m.err = err
			}
		}
		return m, nil, true

	case strings.HasPrefix(input, "/attach "):
		m.textarea.Reset()
		path := strings.TrimSpace(strings.TrimPrefix(input, "/attach "))
		data, err := os.ReadFile(path)
		if err != nil {
			m.err = err
			return m, nil, true
		}
		m.err = nil
		m.pendingFiles = append(m.pendingFiles, attach.LocalFile{
			Name: filepath.Base(path),
			Data: data,
		})
		return m, nil, true

	case strings.HasPrefix(input, "/use "):
		m.textarea.Reset()
		fileID := strings.TrimSpace(strings.TrimPrefix(input, "/use "))
		if fileID == "" {
			m.err = fmt.Errorf("usage: /use <file-id>")
			return m, nil, true
		}
		return m, m.useFile(fileID), true

	case input == "/help":
		m.textarea.Reset()
		m.err = fmt.Errorf("commands: /sessions /providers /new /attach <path> /use <file-id> /copy /quit")
		return m, nil, true
	}

	return m, nil, false
}

// sendMessage creates a command that runs the full send pipeline
func (m Model) sendMessage(text string) tea.Cmd {
	files := m.pendingFiles
	refs := m.pendingRefs
	return func() tea.Msg {
		resp, err := m.orchestrator.Send(context.Background(), chat.Input{
			Text:   text,
			Refs:   refs,
			Locals: files,
		})
		if err != nil {
			return errMsg{err: err}
		}
		return responseMsg{resp: resp}
	}
}

// useFile returns a command that resolves a library file id to a pending
// reference for the next send
func (m Model) useFile(fileID string) tea.Cmd {
	return func() tea.Msg {
		list, err := m.client.ListFiles(context.Background(), 0, 100)
		if err != nil {
			return errMsg{err: err}
		}
		for _, f := range list.Files {
			if f.ID == fileID {
				return fileRefMsg{ref: attach.FileRef{ID: f.ID, Name: f.OriginalFilename}}
			}
		}
		return errMsg{err: fmt.Errorf("file %s is not in the library", fileID)}
	}
}

// loadSessions returns a command that fetches the session list
func (m Model) loadSessions() tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Refresh(context.Background()); err != nil {
			return sessionsLoadedMsg{err: err}
		}
		return sessionsLoadedMsg{sessions: m.store.Sessions()}
	}
}

// openSession returns a command that activates a session
func (m Model) openSession(s models.Session) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Activate(context.Background(), s.ID); err != nil {
			return sessionOpenedMsg{err: err}
		}
		return sessionOpenedMsg{title: s.Title}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.selectingSession {
		return m.renderSessionSelector()
	}
	if m.selectingProvider {
		return m.renderProviderSelector()
	}

	var sections []string
	contentWidth := m.width - 4

	sections = append(sections, m.renderHeader(contentWidth))

	var messagesContent string
	if len(m.store.Timeline()) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}

	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	var inputContent string
	if m.loading {
		inputContent = m.renderLoading()
	} else {
		label := inputLabelStyle.Render("You")
		if len(m.pendingRefs) > 0 {
			names := make([]string, len(m.pendingRefs))
			for i, r := range m.pendingRefs {
				names[i] = r.Name
			}
			label += attachmentStyle.Render("  📎 " + strings.Join(names, ", "))
		}
		if len(m.pendingFiles) > 0 {
			names := make([]string, len(m.pendingFiles))
			for i, f := range m.pendingFiles {
				names[i] = f.Name
			}
			label += attachmentStyle.Render("  📤 " + strings.Join(names, ", "))
		}
		inputContent = lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
	}

	inputPanel := inputPanelStyle.Width(contentWidth).Render(inputContent)
	sections = append(sections, inputPanel)

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(contentWidth int) string {
	headerParts := []string{
		titleStyle.Render("❖ DocChat"),
	}
	if sel, ok := m.selector.Current(); ok {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(sel.Model),
		)
	}
	if m.sessionTitle != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			selectorValueStyle.Render(m.sessionTitle),
		)
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	return headerStyle.Width(contentWidth).Render(headerContent)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	title := welcomeTitleStyle.Width(width).Render("Welcome to DocChat")
	subtitle := welcomeStyle.Width(width).Render("Ask a question about your documents, or /attach a file first")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		title,
		"",
		subtitle,
		"",
	)

	contentHeight := lipgloss.Height(content)
	topPadding := (height - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderLoading() string {
	status := m.status.get()
	if status == "" {
		status = "thinking"
	}
	frame := m.animationFrame
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	spin := loadingStyle.Render(chars[frame%len(chars)])
	return fmt.Sprintf("%s %s", spin, subtitleStyle.Render(status+"..."))
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"/sessions", "History"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.store.Timeline() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("❖ Assistant")
			content.WriteString(label + "\n")

			rendered, err := render.MarkdownWithWidth(msg.Content, bubbleWidth-4)
			if err != nil {
				rendered = msg.Content
			}
			rendered = strings.TrimRight(rendered, "\n")

			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(bubble)

			if len(msg.Citations) > 0 {
				content.WriteString("\n" + renderCitations(msg.Citations, bubbleWidth-4))
			}
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// renderCitations renders the expanded citation list under a reply
func renderCitations(citations []models.Citation, width int) string {
	var lines []string
	for _, c := range citations {
		page := citation.NormalizePage(c.Page)
		head := fmt.Sprintf("%s · p.%s · %.0f%%", c.Source, page, c.ClampedScore()*100)

		snippet := strings.ReplaceAll(c.Content, "\n", " ")
		maxSnippet := width - 4
		if maxSnippet > 10 && len(snippet) > maxSnippet {
			snippet = snippet[:maxSnippet-3] + "..."
		}
		if snippet != "" {
			head += "\n  " + snippet
		}
		lines = append(lines, head)
	}
	return citationStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// ───────────────────────── session selector ─────────────────────────

func (m Model) updateSessionSelection(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sessionsLoadedMsg:
		m.sessionsLoading = false
		if msg.err != nil {
			m.selectingSession = false
			m.err = msg.err
		} else {
			m.sessionsList = msg.sessions
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.selectingSession = false
			m.sessionsList = nil
			m.sessionsCursor = 0

		case "up", "k":
			if len(m.sessionsList) > 0 {
				m.sessionsCursor--
				if m.sessionsCursor < 0 {
					m.sessionsCursor = len(m.sessionsList) - 1
				}
			}

		case "down", "j":
			if len(m.sessionsList) > 0 {
				m.sessionsCursor++
				if m.sessionsCursor >= len(m.sessionsList) {
					m.sessionsCursor = 0
				}
			}

		case "enter":
			if len(m.sessionsList) > 0 && m.sessionsCursor < len(m.sessionsList) {
				selected := m.sessionsList[m.sessionsCursor]
				m.selectingSession = false
				m.sessionsList = nil
				m.sessionsCursor = 0
				m.loading = true
				return m, tea.Batch(m.openSession(selected), m.spinner.Tick)
			}
		}
	}

	return m, nil
}

func (m Model) renderSessionSelector() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	var content strings.Builder
	content.WriteString(selectorTitleStyle.Render("🗂 Sessions"))
	content.WriteString("\n\n")

	if m.sessionsLoading {
		content.WriteString(loadingStyle.Render("  Loading sessions..."))
	} else if len(m.sessionsList) == 0 {
		content.WriteString(hintStyle.Render("  No sessions yet"))
	} else {
		maxItems := 10
		startIdx := 0
		if m.sessionsCursor >= maxItems {
			startIdx = m.sessionsCursor - maxItems + 1
		}
		endIdx := startIdx + maxItems
		if endIdx > len(m.sessionsList) {
			endIdx = len(m.sessionsList)
		}

		if startIdx > 0 {
			content.WriteString(hintStyle.Render("  ↑ more above") + "\n")
		}

		for i := startIdx; i < endIdx; i++ {
			s := m.sessionsList[i]
			cursor := "  "
			nameStyle := selectorItemStyle
			if i == m.sessionsCursor {
				cursor = selectorCursorStyle.Render("▸ ")
				nameStyle = selectorSelectedStyle
			}

			meta := selectorValueStyle.Render(
				fmt.Sprintf(" (%d messages, %s)", s.MessageCount, s.UpdatedAt.Format("Jan 2 15:04")),
			)
			content.WriteString(cursor + nameStyle.Render(s.Title) + meta + "\n")
		}

		if endIdx < len(m.sessionsList) {
			content.WriteString(hintStyle.Render("  ↓ more below") + "\n")
		}
	}

	content.WriteString("\n")
	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Open"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel"),
	}
	content.WriteString(strings.Join(shortcuts, "  │  "))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2).
		Width(width)

	return boxStyle.Render(content.String())
}

// ───────────────────────── provider selector ─────────────────────────

func buildProviderRows(providers []models.Provider) []providerRow {
	var rows []providerRow
	for _, p := range providers {
		modelList := p.AvailableModels
		if len(modelList) == 0 {
			modelList = []string{provider.PlaceholderModel}
		}
		for _, model := range modelList {
			rows = append(rows, providerRow{
				providerID:   p.ID,
				providerName: p.ProviderName,
				model:        model,
			})
		}
	}
	return rows
}

func (m Model) updateProviderSelection(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.selectingProvider = false
			m.providerRows = nil
			m.providersCursor = 0

		case "up", "k":
			if len(m.providerRows) > 0 {
				m.providersCursor--
				if m.providersCursor < 0 {
					m.providersCursor = len(m.providerRows) - 1
				}
			}

		case "down", "j":
			if len(m.providerRows) > 0 {
				m.providersCursor++
				if m.providersCursor >= len(m.providerRows) {
					m.providersCursor = 0
				}
			}

		case "enter":
			if len(m.providerRows) > 0 && m.providersCursor < len(m.providerRows) {
				row := m.providerRows[m.providersCursor]
				if err := m.selector.Select(row.providerID, row.model); err != nil {
					m.err = err
				}
				m.selectingProvider = false
				m.providerRows = nil
				m.providersCursor = 0
			}
		}
	}

	return m, nil
}

func (m Model) renderProviderSelector() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	var content strings.Builder
	title := selectorTitleStyle.Render("⚙ Select provider and model")
	if sel, ok := m.selector.Current(); ok {
		title += hintStyle.Render(fmt.Sprintf("  (current: %s)", sel.Model))
	}
	content.WriteString(title)
	content.WriteString("\n\n")

	if len(m.providerRows) == 0 {
		content.WriteString(hintStyle.Render("  No providers available"))
	} else {
		for i, row := range m.providerRows {
			cursor := "  "
			nameStyle := selectorItemStyle
			if i == m.providersCursor {
				cursor = selectorCursorStyle.Render("▸ ")
				nameStyle = selectorSelectedStyle
			}
			line := cursor + nameStyle.Render(row.model) +
				selectorValueStyle.Render(" ["+row.providerName+"]")
			content.WriteString(line + "\n")
		}
	}

	content.WriteString("\n")
	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel"),
	}
	content.WriteString(strings.Join(shortcuts, "  │  "))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2).
		Width(width)

	return boxStyle.Render(content.String())
}

// RunChat starts the chat TUI
func RunChat(client api.ClientInterface, selector *provider.Selector, cfg config.Config) error {
	if cfg.TUITheme != "" {
		UpdateTheme(cfg.TUITheme)
	}

	m := NewChatModel(client, selector, cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
