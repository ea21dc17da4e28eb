// Package tui is the full-screen chat. Bubble Tea drives every state change
// from its event loop; the network exchange runs as a command whose result
// comes back as a message.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HMTking/greenify/internal/attachment"
	"github.com/HMTking/greenify/internal/composer"
	"github.com/HMTking/greenify/internal/session"
	"github.com/HMTking/greenify/internal/tokens"
)

// chromeRows is the number of rows used by everything except the viewport.
const chromeRows = 4

// replyMsg carries the outcome of a turn back to the event loop.
type replyMsg struct {
	turn    *session.Turn
	outcome session.Outcome
}

// loadedMsg is sent when images requested with /attach have been read.
type loadedMsg struct {
	items []*attachment.Attachment
	err   error
}

type Options struct {
	PreviewDir string
	Counter    *tokens.Counter
}

type Model struct {
	ctx     context.Context
	session *session.Session
	buf     *attachment.Buffer
	counter *tokens.Counter

	input      textinput.Model
	viewport   viewport.Model
	previewDir string

	pending *session.Turn
	loading bool
	notice  string
	warn    bool

	width    int
	height   int
	quitting bool
}

// New creates the chat model. ctx bounds every exchange.
func New(ctx context.Context, s *session.Session, opts Options) Model {
	in := textinput.New()
	in.Placeholder = "Ask about your plant, /attach <path> to add photos, /help"
	in.CharLimit = 4000
	in.Prompt = "> "
	in.Focus()

	counter := opts.Counter
	if counter == nil {
		counter = tokens.New("")
	}

	m := Model{
		ctx:        ctx,
		session:    s,
		buf:        attachment.NewBuffer(),
		counter:    counter,
		input:      in,
		viewport:   viewport.New(80, 20),
		previewDir: opts.PreviewDir,
		width:      80,
		height:     20 + chromeRows,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Buffer exposes the held attachments so the caller can release them on exit.
func (m Model) Buffer() *attachment.Buffer {
	return m.buf
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeRows)
		m.input.Width = max(10, msg.Width-4)
		m.refresh()
		return m, nil

	case replyMsg:
		m.session.Finish(msg.turn, msg.outcome)
		if m.pending == msg.turn {
			m.pending = nil
		}
		m.refresh()
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setNotice(msg.err.Error(), true)
			return m, nil
		}
		notice, err := composer.AddLoaded(m.buf, msg.items)
		if err != nil {
			m.setNotice(err.Error(), true)
			return m, nil
		}
		m.setNotice(notice, false)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	cmd, err := composer.Parse(line)
	if err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}

	switch cmd.Kind {
	case composer.KindQuit:
		m.quitting = true
		return m, tea.Quit

	case composer.KindHelp:
		m.input.Reset()
		m.setNotice(strings.ReplaceAll(composer.Help, "\n", " | "), false)
		return m, nil

	case composer.KindClear:
		m.input.Reset()
		if err := m.buf.Release(); err != nil {
			slog.Warn("release held attachments", "error", err)
		}
		m.setNotice("cleared held images", false)
		return m, nil

	case composer.KindDetach:
		m.input.Reset()
		if err := m.buf.Remove(cmd.Index); err != nil {
			m.setNotice(err.Error(), true)
			return m, nil
		}
		m.setNotice(fmt.Sprintf("removed image %d", cmd.Index+1), false)
		return m, nil

	case composer.KindAttach:
		m.input.Reset()
		m.loading = true
		m.setNotice("loading images...", false)
		return m, loadImages(m.ctx, cmd.Paths)
	}

	turn, err := m.session.Begin(cmd.Text, m.buf)
	if err != nil {
		if !session.IsGuardRejection(err) {
			m.setNotice(err.Error(), true)
		}
		return m, nil
	}
	m.input.Reset()
	m.pending = turn
	m.setNotice("", false)
	m.refresh()
	return m, exchange(m.ctx, m.session, turn)
}

func exchange(ctx context.Context, s *session.Session, turn *session.Turn) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{turn: turn, outcome: s.Exchange(ctx, turn)}
	}
}

func loadImages(ctx context.Context, paths []string) tea.Cmd {
	return func() tea.Msg {
		items, err := attachment.LoadAll(ctx, paths)
		return loadedMsg{items: items, err: err}
	}
}

func (m *Model) setNotice(text string, warn bool) {
	m.notice = text
	m.warn = warn
}

// refresh re-renders the history into the viewport and scrolls to the end.
func (m *Model) refresh() {
	content := renderHistory(m.session.History(), m.viewport.Width-1, m.previewDir)
	if m.pending != nil {
		content += "\n\n" + dimStyle.Render("greenify is thinking...")
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := titleStyle.Render("greenify")
	if id := m.session.ID(); id != "" {
		title += dimStyle.Render("  session " + string(id))
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(m.heldLine() + "\n")
	b.WriteString(m.input.View() + "\n")
	b.WriteString(m.statusBar())
	return b.String()
}

func (m Model) heldLine() string {
	if held := composer.Held(m.buf); held != "" {
		return heldStyle.Render(held)
	}
	return dimStyle.Render("no images held")
}

func (m Model) statusBar() string {
	left := fmt.Sprintf("%d/%d images", m.buf.Len(), attachment.MaxCount)
	switch {
	case m.pending != nil:
		left += " · sending"
	case m.loading:
		left += " · loading"
	}

	right := fmt.Sprintf("~%d tokens · history %d", m.counter.Count(m.input.Value()), m.counter.CountMessages(m.session.History()))
	bar := statusBarStyle.Render(left) + " " + dimStyle.Render(right)
	if m.notice != "" {
		style := dimStyle
		if m.warn {
			style = warnStyle
		}
		bar += "  " + style.Render(m.notice)
	}
	return lipgloss.NewStyle().MaxWidth(max(m.width, 20)).Render(bar)
}

// Run starts the program on the alternate screen and releases every preview
// file when it ends.
func Run(ctx context.Context, s *session.Session, opts Options) error {
	p := tea.NewProgram(New(ctx, s, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		if rerr := m.Buffer().Release(); rerr != nil {
			slog.Warn("release held attachments", "error", rerr)
		}
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("chat ui: %w", err)
	}
	return nil
}
