package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/skoobert/log"
)

const helpText = `
Commands (Esc toggles command mode; in eval mode prefix them with ':'):

  help         Show this message
  list         List bound names and their definitions
  expand EXPR  Print the symbolic expansion of EXPR
  clear        Clear the screen
  quit         Leave the REPL

Eval mode runs statements (the trailing ';' is optional) and prints the
value of bare expressions:

  let K = x => y => x
  console.log(K(1)(2))

Keys:

  Tab, Shift+Tab        Cycle completions (Esc restores the typed word)
  Enter                 Accept the completion, or run the line
  Space                 Accept the completion and keep typing
  Up, Down              Walk history, following each entry's mode
  Shift+Up, Shift+Down  Walk history of the current mode only
  Alt+Up, Alt+Down      Walk command history, then return to the line you left
  Ctrl+C                Clear the line, or exit when it is empty
  Ctrl+D                Exit when the line is empty
`

// inputMode selects how a submitted line is interpreted.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
)

func (mode inputMode) prompt() string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(evalPrompt)
}

// echo prints a submitted line the way it looked at the prompt.
func echo(mode inputMode, line string) tea.Cmd {
	return tea.Println(mode.prompt() + inputStyle.Render(line))
}

// draft is unsubmitted input and its cursor.
type draft struct {
	text   string
	cursor int
}

// completion tracks the candidates for the word under the cursor.
type completion struct {
	matches  fuzzy.Matches
	start    int  // byte offset of the word
	end      int  // byte offset past the word
	selected int  // candidate inserted while cycling, or -1
	cycling  bool // Tab has replaced the word with a candidate
	original draft
}

// detour is the input left behind when Alt navigation entered command
// history.
type detour struct {
	mode  inputMode
	draft draft
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc  func() context.Context
	input    textinput.Model
	session  *Session
	logger   log.Logger
	history  *History
	pos      int // history entry shown, or history.Len() when editing
	mode     inputMode
	drafts   [2]draft // unfinished input of each mode
	comp     completion
	detour   *detour
	width    int
	quitting bool
}

// Run starts an interactive session. History is persisted to historyPath
// unless it is empty.
func Run(
	ctx context.Context,
	session *Session,
	historyPath string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func() { cancel(err) }()

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.String("error", err.Error()))
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", historyPath),
		slog.Int("history_entries", history.Len()),
		slog.Int("bindings", len(session.Names())),
	)

	_, err = tea.NewProgram(
		newModel(ctx, session, history, logger),
		tea.WithContext(ctx),
	).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	m := model{
		ctxFunc: func() context.Context { return ctx },
		input:   textinput.New(),
		session: session,
		logger:  logger,
		history: history,
		pos:     history.Len(),
		mode:    modeEval,
		comp:    completion{selected: -1},
		width:   defaultWidth,
	}

	m.input.Prompt = modeEval.prompt()
	m.input.CharLimit = 1024
	m.input.Width = defaultWidth
	m.input.Focus()

	return m
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
		m.input.Width = max(msg.Width-lipgloss.Width(evalPrompt)-2, 1)

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

	return m.input.View() + "\n" + m.hintView() + "\n"
}

// hintView renders the line below the prompt: history position, usage hint,
// signature of the call under the cursor, or completion candidates.
func (m model) hintView() string {
	input := m.input.Value()

	if m.pos < m.history.Len() {
		n := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.pos + 1))

		return hintStyle.Render(n + "/" + strconv.Itoa(m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type a statement or expression, or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if m.mode == modeEval && !strings.HasPrefix(input, ctrlPrefix) {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall {
			if params := m.session.Params(call.name); len(params) > 0 {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.comp.matches, m.comp.selected, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl key",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		if msg.Type == tea.KeyCtrlC {
			m.comp.cycling = false
			m.detour = nil
			m = m.clearRecall()
		}

		return m, nil

	case tea.KeyEnter:
		m.detour = nil

		if m.comp.cycling && len(m.comp.matches) > 0 {
			m.comp.cycling = false
			m.refresh(true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycleCandidates(1), nil

	case tea.KeyShiftTab:
		return m.cycleCandidates(-1), nil

	case tea.KeyUp, tea.KeyDown, tea.KeyShiftUp, tea.KeyShiftDown:
		return m.navigate(msg), nil

	case tea.KeyEsc:
		m.detour = nil

		if !m.comp.cycling {
			return m.toggleMode(), nil
		}

		m.comp.cycling = false
		m.load(m.comp.original)

		return m, nil
	}

	// Only typed characters may complete a word; a space or any editing key
	// ends cycling, and editing keys also end Alt navigation.
	typed := msg.Type == tea.KeyRunes
	if !typed || msg.String() == " " {
		m.comp.cycling = false
	}

	if !typed {
		m.detour = nil
	}

	var cmd tea.Cmd

	m.pos = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(typed)

	return m, cmd
}

// navigate walks the history for the arrow keys: Up/Down over every entry,
// Shift within the current mode, Alt over commands only.
func (m model) navigate(msg tea.KeyMsg) model {
	step := 1
	if msg.Type == tea.KeyUp || msg.Type == tea.KeyShiftUp {
		step = -1
	}

	switch {
	case msg.Alt:
		return m.historyCtrl(step)
	case msg.Type == tea.KeyShiftUp || msg.Type == tea.KeyShiftDown:
		return m.historyInMode(step)
	default:
		return m.historyAny(step)
	}
}

// cycleCandidates replaces the word under the cursor with the next (step 1)
// or previous (step -1) candidate. A sole candidate is accepted at once.
func (m model) cycleCandidates(step int) model {
	n := len(m.comp.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.accept(m.comp.matches[0].Str)

		return m

	case !m.comp.cycling:
		m.comp.cycling = true
		m.comp.original = m.current()

		m.comp.selected = 0
		if step < 0 {
			m.comp.selected = n - 1
		}

	default:
		m.comp.selected = (m.comp.selected + step + n) % n
	}

	m.insert(m.comp.matches[m.comp.selected].Str)

	return m
}

func (m model) current() draft {
	return draft{text: m.input.Value(), cursor: m.input.Position()}
}

// load replaces the input with d.
func (m *model) load(d draft) {
	m.input.SetValue(d.text)
	m.input.SetCursor(d.cursor)
	m.refresh(false)
}

// insert replaces the word being completed with s and places the cursor
// after it.
func (m *model) insert(s string) {
	text := m.input.Value()

	m.input.SetValue(text[:m.comp.start] + s + text[m.comp.end:])
	m.comp.end = m.comp.start + len(s)
	m.input.SetCursor(m.comp.end)
}

// accept inserts s and closes the candidate list.
func (m *model) accept(s string) {
	m.insert(s)
	m.comp.cycling = false
	m.comp.selected = -1
	m.comp.matches = nil
}

// refresh recomputes the candidates for the word at the cursor. With confirm
// set, a word that already spells its only candidate is accepted; deletions
// and cursor movement pass false so editing never completes by surprise.
func (m *model) refresh(confirm bool) {
	m.comp.matches, m.comp.start, m.comp.end = m.computeMatches()

	if !m.comp.cycling {
		m.comp.selected = -1
	}

	if !confirm || len(m.comp.matches) != 1 {
		return
	}

	if only := m.comp.matches[0].Str; m.input.Value()[m.comp.start:m.comp.end] == only {
		m.accept(only)
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	m.drafts = [2]draft{}
	m.load(draft{})

	if m.mode == modeCtrl {
		return m.submitCommand(line, echo(modeCtrl, line))
	}

	if cmd, ok := strings.CutPrefix(line, ctrlPrefix); ok {
		return m.submitCommand(strings.TrimSpace(cmd), echo(modeEval, line))
	}

	m.remember(line, modeEval)
	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", line))

	shown := echo(modeEval, line)

	if out := m.evaluate(line); out != "" {
		return m, tea.Sequence(shown, tea.Println(out))
	}

	return m, shown
}

// remember records input in the history, logging failures to persist it.
func (m *model) remember(input string, mode inputMode) {
	if err := m.history.Add(input, mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed",
			slog.String("error", err.Error()))
	}

	m.pos = m.history.Len()
}

// evaluate executes one line in the session and renders its outputs, followed
// by the error that stopped it, if any.
func (m model) evaluate(input string) string {
	lines, err := m.session.Exec(m.ctxFunc(), input)

	rendered := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		rendered = append(rendered, resultStyle.Render(line))
	}

	if err != nil {
		m.logger.TraceContext(m.ctxFunc(), "repl eval error",
			slog.String("error", err.Error()))

		rendered = append(rendered, errorStyle.Render("error: "+err.Error()))
	}

	return strings.Join(rendered, "\n")
}

// submitCommand records and runs a command line after printing shown.
func (m model) submitCommand(line string, shown tea.Cmd) (model, tea.Cmd) {
	m.remember(line, modeCtrl)

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.String("arg", arg))

	switch name {
	case "":
		return m, shown

	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(shown, tea.Quit)

	case "c", "clear":
		return m, tea.ClearScreen
	}

	out, err := m.commandOutput(name, arg)
	if err != nil {
		out = errorStyle.Render("error: " + err.Error())
	}

	return m, tea.Sequence(shown, tea.Println(out))
}

// commandOutput returns the text printed by the commands that only report.
func (m model) commandOutput(name, arg string) (string, error) {
	switch name {
	case "h", "help":
		return helpText, nil

	case "l", "list":
		return m.listBindings(), nil

	case "x", "expand":
		if arg == "" {
			return "", fmt.Errorf("%w: expand EXPR", ErrMissingArgument)
		}

		expanded, err := m.session.Expand(arg)
		if err != nil {
			return "", err
		}

		return resultStyle.Render(expanded), nil

	default:
		return "", fmt.Errorf("%w: %s (try 'help')", ErrUnknownCommand, name)
	}
}

func (m model) listBindings() string {
	var b strings.Builder

	for _, name := range m.session.Names() {
		preview, _ := m.session.Preview(name)
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(formatPreview(preview)))
	}

	return b.String()
}

// recall places history entry i in the input, switching to its mode when
// follow is set.
func (m model) recall(i int, entry HistoryEntry, follow bool) model {
	if follow && m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.pos = i
	m.load(draft{text: entry.Line, cursor: len(entry.Line)})

	return m
}

// seek returns the nearest history entry from the current position in
// direction step (-1 older, 1 newer) accepted by keep.
func (m model) seek(step int, keep func(HistoryEntry) bool) (int, HistoryEntry, bool) {
	for i := m.pos + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.GetEntry(i)
		if err == nil && keep(entry) {
			return i, entry, true
		}
	}

	return 0, HistoryEntry{}, false
}

// clearRecall leaves history navigation with an empty input.
func (m model) clearRecall() model {
	m.pos = m.history.Len()
	m.load(draft{})

	return m
}

func anyEntry(HistoryEntry) bool { return true }

func inMode(mode inputMode) func(HistoryEntry) bool {
	return func(e HistoryEntry) bool { return e.Mode == mode }
}

// historyAny recalls the adjacent entry of any mode. Stepping past the
// newest entry clears the input.
func (m model) historyAny(step int) model {
	if i, entry, ok := m.seek(step, anyEntry); ok {
		return m.recall(i, entry, true)
	}

	if step > 0 {
		return m.clearRecall()
	}

	return m
}

// historyInMode recalls the adjacent entry of the current mode.
func (m model) historyInMode(step int) model {
	if i, entry, ok := m.seek(step, inMode(m.mode)); ok {
		return m.recall(i, entry, false)
	}

	if step > 0 && m.pos < m.history.Len() {
		return m.clearRecall()
	}

	return m
}

// historyCtrl walks command history only. The first step saves the input
// and switches to command mode; running off either end restores them.
func (m model) historyCtrl(step int) model {
	if m.detour == nil {
		m.detour = &detour{mode: m.mode, draft: m.current()}

		if m.mode != modeCtrl {
			m = m.switchToMode(modeCtrl)
		}
	}

	if i, entry, ok := m.seek(step, inMode(modeCtrl)); ok {
		return m.recall(i, entry, false)
	}

	back := m.detour
	m.detour = nil

	if back.mode != m.mode {
		m = m.switchToMode(back.mode)
	}

	m.pos = m.history.Len()
	m.load(back.draft)

	return m
}

func (m model) toggleMode() model {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to mode. Each mode keeps its own unfinished input.
func (m model) switchToMode(mode inputMode) model {
	m.drafts[m.mode] = m.current()
	m.mode = mode
	m.input.Prompt = mode.prompt()
	m.load(m.drafts[mode])

	return m
}
