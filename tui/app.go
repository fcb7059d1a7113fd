// Package tui hosts a reconciliation session in the terminal. It is one
// presentation over the engine's contract: the session owns the state
// and the line bindings, the model here only maps keys to operations
// and draws the view.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgertools/reconcile"
)

type mode int

const (
	modeList mode = iota
	modeTarget
	modeAdd
)

// Model is the bubbletea model wrapping one reconciliation session.
type Model struct {
	session *reconcile.Session
	cfg     *reconcile.Config

	mode  mode
	input textinput.Model

	// source preview pane, filled by visit and cursor propagation
	preview      []string
	previewLine  int // index into preview of the highlighted line
	previewTitle string

	status   string // transient message shown in the status bar
	width    int
	height   int
	quitting bool
}

// New builds the model. The caller has already run the initial refresh;
// when promptTarget is set the model starts by asking for the target
// amount, per the session-open flow.
func New(session *reconcile.Session, cfg *reconcile.Config, promptTarget bool) Model {
	input := textinput.New()
	input.CharLimit = 120
	m := Model{session: session, cfg: cfg, input: input}
	if promptTarget {
		m.mode = modeTarget
		m.input.Prompt = cfg.TargetPrompt + ": "
		m.input.Focus()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.mode == modeTarget {
		return textinput.Blink
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeTarget, modeAdd:
			return m.updatePrompt(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.mode = modeList
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		switch mode {
		case modeTarget:
			return m.applyTarget(value), nil
		case modeAdd:
			return m.applyAdd(value), nil
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) applyTarget(value string) Model {
	if value == "" {
		if err := m.session.SetTarget(nil); err != nil {
			m.status = err.Error()
		}
		return m
	}
	target, err := reconcile.ParseAmount(value)
	if err != nil {
		m.status = err.Error()
		return m
	}
	if err := m.session.SetTarget(&target); err != nil {
		m.status = err.Error()
	}
	return m
}

func (m Model) applyAdd(value string) Model {
	if value == "" {
		return m
	}
	if err := m.session.AddTransaction(strings.Fields(value)...); err != nil {
		m.status = err.Error()
		return m
	}
	m.status = "transaction added"
	return m
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		s.Close()
		m.quitting = true
		return m, tea.Quit

	case "down", "j", "n":
		s.SetCursor(s.Cursor() + 1)
		return m.propagate(), nil
	case "up", "k", "p":
		s.SetCursor(s.Cursor() - 1)
		return m.propagate(), nil

	case " ":
		if err := s.Toggle(s.Cursor()); err != nil {
			m.status = err.Error()
		}
		return m, nil

	case "f":
		if err := s.Finish(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m = m.recenter()
		if m.cfg.FinishForceQuit {
			s.Close()
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case "r", "g":
		if _, err := s.Refresh(); err != nil {
			m.status = err.Error()
		}
		return m, nil

	case "v", "enter":
		return m.visit(), nil
	case "esc":
		m.preview = nil
		return m, nil

	case "t":
		m.mode = modeTarget
		m.input.Prompt = m.cfg.TargetPrompt + ": "
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "a":
		m.mode = modeAdd
		m.input.Prompt = "Add transaction (date payee ...): "
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "d":
		if err := s.DeleteTransaction(s.Cursor()); err != nil {
			m.status = err.Error()
		}
		return m, nil

	case "s":
		key, err := s.CycleSort()
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = "sorted by " + key
		return m, nil

	case "w":
		if err := s.Doc().Save(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = "saved " + s.Doc().Name()
		return m.recenter(), nil

	case "b":
		if err := s.RecomputeBalance(); err != nil {
			m.status = err.Error()
		}
		return m, nil
	}
	return m, nil
}

// propagate keeps the source preview following the view cursor when the
// propagate-cursor option is on.
func (m Model) propagate() Model {
	if !m.cfg.PropagateCursor || m.preview == nil {
		return m
	}
	return m.visit()
}

// visit shows the source document around the current line's binding.
// Focus stays with the view ("come-back" mode); esc hides the pane.
func (m Model) visit() Model {
	binding, err := m.session.Visit(m.session.Cursor())
	if err != nil {
		m.status = err.Error()
		return m
	}
	return m.previewAt(binding)
}

// recenter re-synchronizes the preview on the bound transaction after a
// save-triggered refresh, without moving the view cursor.
func (m Model) recenter() Model {
	if m.preview == nil {
		return m
	}
	binding, err := m.session.Visit(m.session.Cursor())
	if err != nil {
		m.preview = nil
		return m
	}
	return m.previewAt(binding)
}

const previewContext = 3 // lines of context either side

func (m Model) previewAt(binding reconcile.Binding) Model {
	doc := binding.Doc
	from := binding.Line - previewContext
	if from < 1 {
		from = 1
	}
	to := binding.Line + previewContext
	if to > doc.LineCount() {
		to = doc.LineCount()
	}
	m.preview = nil
	for n := from; n <= to; n++ {
		line, err := doc.Line(n)
		if err != nil {
			continue
		}
		m.preview = append(m.preview, line)
	}
	m.previewLine = binding.Line - from
	m.previewTitle = fmt.Sprintf("%s:%d", doc.Name(), binding.Line)
	return m
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.session
	var b strings.Builder

	title := m.cfg.BufferName + "  " + s.Account() + "  sort " + s.SortKey()
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')

	for i, vl := range s.View() {
		line := styleFor(vl.Status).Render(vl.Text)
		if i == s.Cursor() {
			line = cursorStyle.Render(vl.Text)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if m.preview != nil {
		b.WriteByte('\n')
		b.WriteString(previewTitleStyle.Render(m.previewTitle))
		b.WriteByte('\n')
		for i, line := range m.preview {
			if i == m.previewLine {
				b.WriteString(previewFocusStyle.Render(line))
			} else {
				b.WriteString(previewStyle.Render(line))
			}
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	b.WriteString(m.statusBar())
	b.WriteByte('\n')

	if m.mode != modeList {
		b.WriteString(m.input.View())
		b.WriteByte('\n')
	} else {
		b.WriteString(helpStyle.Render("space toggle · f finish · v visit · r refresh · t target · s sort · a add · d delete · w save · q quit"))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) statusBar() string {
	if m.status != "" {
		return errorStyle.Render(m.status)
	}
	msg := m.session.BalanceMessage()
	if msg == "" {
		return ""
	}
	if m.session.Target() != nil {
		if m.session.BalanceMet() {
			return balanceMetStyle.Render(msg + "  ✓")
		}
		return balancePendingStyle.Render(msg)
	}
	return statusStyle.Render(msg)
}
