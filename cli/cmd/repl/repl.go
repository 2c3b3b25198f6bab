package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/preconfig/lang"
	"github.com/ardnew/preconfig/log"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this help
  list     List variable bindings
  reset    Restore the bindings given on the command line
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type an expression to evaluate it, or "name = expression" to bind a name
  Sequences print every value a template block would fork on
  Press Tab / Shift-Tab to cycle through completions
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode is the interpretation of the input line.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model of the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	eval         *lang.Evaluator
	vars         *lang.Context
	initial      lang.Snapshot
	logger       log.Logger
	history      *History
	matches      fuzzy.Matches
	evalText     string
	ctrlText     string
	preTabText   string
	historyIdx   int
	wordStart    int
	wordEnd      int
	suggIdx      int
	preTabCursor int
	evalCursor   int
	ctrlCursor   int
	width        int
	mode         inputMode
	tabActive    bool
	quitting     bool
}

// Run starts an interactive session evaluating input against vars.
// History is kept in cacheDir.
func Run(
	ctx context.Context,
	eval *lang.Evaluator,
	vars *lang.Context,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.Int("bindings", vars.Len()),
		slog.Int("history", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, eval, vars, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	eval *lang.Evaluator,
	vars *lang.Context,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		eval:       eval,
		vars:       vars,
		initial:    vars.Snapshot(),
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())))

	case strings.TrimSpace(input) == "":
		hint := "Type an expression or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case call.inCall && m.mode == modeEval:
		b.WriteString(renderSignatureHint(call.name, call.argIndex))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refreshMatches()

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches()

			return m, nil
		}

		next := modeCtrl
		if m.mode == modeCtrl {
			next = modeEval
		}

		return m.switchToMode(next), nil
	}

	if msg.Type == tea.KeyRunes && m.tabActive && msg.String() == " " {
		m.tabActive = false
	}

	if msg.Type != tea.KeyRunes {
		m.tabActive = false
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// cycle steps through the completion candidates in direction dir.
func (m model) cycle(dir int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.matches = nil
		m.suggIdx = -1

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0

		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord replaces the word being completed with s.
func (m *model) replaceWord(s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refreshMatches recomputes the completion candidates. While cycling, the
// candidate list and word bounds are kept.
func (m *model) refreshMatches() {
	if m.tabActive {
		return
	}

	m.matches, m.wordStart, m.wordEnd = m.computeMatches()
	m.suggIdx = -1
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	out, err := evaluate(m.eval, m.vars, input)

	m.logger.TraceContext(m.ctxFunc(), "repl eval",
		slog.String("input", input),
		slog.Bool("ok", err == nil),
	)

	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	switch strings.Fields(input)[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(listBindings(m.vars)))

	case "r", "reset":
		m.vars.Restore(m.initial)

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("bindings reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(errorStyle.Render(
			"Unknown command: " + input + " (try 'help')"))
	}
}

// historyMove steps through the history by delta, switching to the mode of
// the recalled entry. Moving past the newest entry clears the input.
func (m model) historyMove(delta int) model {
	idx := m.historyIdx + delta
	if idx < 0 {
		return m
	}

	if idx >= m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches()

		return m
	}

	entry, err := m.history.Entry(idx)
	if err != nil {
		return m
	}

	m.historyIdx = idx

	if entry.Mode != m.mode {
		m = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	m.refreshMatches()

	return m
}

// switchToMode changes the input mode, keeping the text typed in each mode.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m.tabActive = false

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	m.refreshMatches()

	return m
}

// evaluate runs one line of input against vars. An assignment binds its
// target and reports "name = value".
func evaluate(eval *lang.Evaluator, vars *lang.Context, input string) (string, error) {
	res, err := eval.Eval(input, vars)
	if err != nil {
		return "", err
	}

	out := res.Value.String()
	if res.Value.IsSequence() {
		out += hintStyle.Render(fmt.Sprintf("  (%d values)", res.Value.Len()))
	}

	if !res.IsAssignment() {
		return out, nil
	}

	vars.Set(res.Target, res.Value)

	return res.Target + " = " + out, nil
}

// listBindings renders every binding of vars, one per line.
func listBindings(vars *lang.Context) string {
	if vars.Len() == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	var b strings.Builder

	for name, v := range vars.All() {
		b.WriteString("  " + name + " " + hintStyle.Render("=") + " " + v.String() + "\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}
