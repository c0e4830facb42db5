package repl

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/skoobert/lang"
	"github.com/ardnew/skoobert/log"
)

func testLogger() log.Logger {
	return log.Make(io.Discard)
}

func newTestSession(t *testing.T, lines ...string) *Session {
	t.Helper()

	s := NewSession(testLogger())

	for _, line := range lines {
		if _, err := s.Exec(t.Context(), line); err != nil {
			t.Fatalf("Exec(%q) error = %v", line, err)
		}
	}

	return s
}

func TestSession_Exec(t *testing.T) {
	s := newTestSession(t,
		"let K = x => y => x",
		"let S = x => y => z => x(z)(y(z));",
	)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"expression", "K(1)(2)", []string{"1"}},
		{"arithmetic", "1 + 2 * 3", []string{"7"}},
		{"string", `"a" + 1`, []string{"a1"}},
		{"function", "S(K)", []string{lang.FunctionText}},
		{"log without semicolon", `console.log("hi")`, []string{"hi"}},
		{"several statements", "console.log(1); console.log(2)", []string{"1", "2"}},
		{"let has no output", "let I = S(K)(K)", nil},
		{"inspect", "inspect.expanded(I)", []string{"S(K)(K)"}},
		{"blank", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Exec(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("Exec(%q) error = %v", tt.input, err)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("Exec(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSession_ExecErrors(t *testing.T) {
	s := newTestSession(t, "let a = 1")

	tests := []struct {
		name    string
		input   string
		want    error
		outputs []string
	}{
		{"redeclared", "let a = 2", lang.ErrNameTaken, nil},
		{"undefined", "missing + 1", lang.ErrUndefinedVariable, nil},
		{"output before failure", "console.log(a); console.log(b);", lang.ErrUndefinedVariable, []string{"1"}},
		{"bad character", "a # 1", lang.ErrUnexpectedCharacter, nil},
		{"incomplete", "a +", lang.ErrUnexpectedToken, nil},
		{"division", "a / 0", lang.ErrDivisionByZero, nil},
		{"name bound to itself", "let s = s; console.log(s);", lang.ErrCyclicEvaluation, nil},
		{"names bound to each other", "let p = q; let q = p; console.log(p);", lang.ErrCyclicEvaluation, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Exec(t.Context(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Exec(%q) error = %v, want %v", tt.input, err, tt.want)
			}

			if !slices.Equal(got, tt.outputs) {
				t.Errorf("Exec(%q) outputs = %q, want %q", tt.input, got, tt.outputs)
			}
		})
	}

	// A failed line leaves earlier bindings usable.
	got, err := s.Exec(t.Context(), "a")
	if err != nil || !slices.Equal(got, []string{"1"}) {
		t.Errorf("Exec(a) = %q, %v", got, err)
	}
}

func TestSession_Load(t *testing.T) {
	prog, err := lang.ParseString(t.Context(), `let n = 4; console.log(n * n);`)
	if err != nil {
		t.Fatal(err)
	}

	s := NewSession(testLogger())

	got, err := s.Load(t.Context(), prog)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !slices.Equal(got, []string{"16"}) {
		t.Errorf("Load() = %q, want [16]", got)
	}

	if names := s.Names(); !slices.Equal(names, []string{"n"}) {
		t.Errorf("Names() = %q, want [n]", names)
	}
}

func TestSession_Expand(t *testing.T) {
	s := newTestSession(t,
		"let K = x => y => x",
		"let KK = K(K)",
	)

	got, err := s.Expand("KK(1)")
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	if got != "K(K)(1)" {
		t.Errorf("Expand() = %q, want %q", got, "K(K)(1)")
	}

	if _, err := s.Expand("KK("); err == nil {
		t.Error("Expand() of incomplete expression succeeded")
	}
}

func TestSession_Params(t *testing.T) {
	s := newTestSession(t,
		"let S = x => y => z => x(z)(y(z))",
		"let P = (a => (b => a))",
		"let n = 1",
		"let I = S(n)",
	)

	tests := []struct {
		name string
		want []string
	}{
		{"S", []string{"x", "y", "z"}},
		{"P", []string{"a", "b"}},
		{"n", nil},
		{"I", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Params(tt.name); !slices.Equal(got, tt.want) {
				t.Errorf("Params(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestSession_Preview(t *testing.T) {
	s := newTestSession(t, "let K = x => y => x", "K(1)(2)")

	got, ok := s.Preview("K")
	if !ok || got != "x => y => x" {
		t.Errorf("Preview(K) = %q, %v", got, ok)
	}

	if _, ok := s.Preview("missing"); ok {
		t.Error("Preview(missing) found a binding")
	}
}

func TestModel_Evaluate(t *testing.T) {
	s := newTestSession(t, "let K = x => y => x")
	m := newModel(t.Context(), s, NewHistory(""), testLogger())

	if got := m.evaluate("K(3)(4)"); !strings.Contains(got, "3") {
		t.Errorf("evaluate() = %q, want result 3", got)
	}

	got := m.evaluate("console.log(5); console.log(nope);")
	if !strings.Contains(got, "5") || !strings.Contains(got, "error: ") {
		t.Errorf("evaluate() = %q, want output then error", got)
	}
}

func TestModel_CommandOutput(t *testing.T) {
	s := newTestSession(t, "let K = x => y => x", "let KK = K(K)")
	m := newModel(t.Context(), s, NewHistory(""), testLogger())

	list, err := m.commandOutput("list", "")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}

	for _, want := range []string{"K", "KK", "x => y => x", "K(K)"} {
		if !strings.Contains(list, want) {
			t.Errorf("list output %q missing %q", list, want)
		}
	}

	expanded, err := m.commandOutput("expand", "KK")
	if err != nil || !strings.Contains(expanded, "K(K)") {
		t.Errorf("expand = %q, %v", expanded, err)
	}

	if _, err := m.commandOutput("expand", ""); !errors.Is(err, ErrMissingArgument) {
		t.Errorf("expand without argument error = %v", err)
	}

	if _, err := m.commandOutput("frobnicate", ""); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown command error = %v", err)
	}

	help, err := m.commandOutput("help", "")
	if err != nil || !strings.Contains(help, "expand EXPR") {
		t.Errorf("help = %q, %v", help, err)
	}
}

func TestModel_ExecuteInputRecordsHistory(t *testing.T) {
	m := newModel(t.Context(), NewSession(testLogger()), NewHistory(""), testLogger())

	m.input.SetValue("let a = 1")
	m, _ = m.executeInput()

	m.input.SetValue(":list")
	m, _ = m.executeInput()

	m.mode = modeCtrl
	m.input.SetValue("help")
	m, _ = m.executeInput()

	want := []HistoryEntry{
		{"let a = 1", modeEval},
		{"list", modeCtrl},
		{"help", modeCtrl},
	}

	got := m.history.Entries()
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if m.pos != len(want) {
		t.Errorf("pos = %d, want %d", m.pos, len(want))
	}

	if names := m.session.Names(); !slices.Equal(names, []string{"a"}) {
		t.Errorf("Names() = %q, want [a]", names)
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	h := NewHistory("")
	for _, e := range []HistoryEntry{
		{"let a = 1", modeEval},
		{"list", modeCtrl},
		{"a + 1", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m := newModel(t.Context(), NewSession(testLogger()), h, testLogger())

	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}

	steps := []struct {
		key  tea.KeyMsg
		line string
		mode inputMode
	}{
		{up, "a + 1", modeEval},
		{up, "list", modeCtrl},
		{up, "let a = 1", modeEval},
		{up, "let a = 1", modeEval},
		{down, "list", modeCtrl},
		{tea.KeyMsg{Type: tea.KeyShiftDown}, "", modeCtrl},
		{tea.KeyMsg{Type: tea.KeyShiftUp}, "list", modeCtrl},
	}

	for i, step := range steps {
		m, _ = m.handleKey(step.key)

		if got := m.input.Value(); got != step.line || m.mode != step.mode {
			t.Fatalf("step %d: input = %q mode %d, want %q mode %d",
				i, got, m.mode, step.line, step.mode)
		}
	}
}

func TestModel_TabCycling(t *testing.T) {
	s := newTestSession(t, "let apple = 1", "let apricot = 2")
	m := newModel(t.Context(), s, NewHistory(""), testLogger())

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ap")})
	if len(m.comp.matches) != 2 {
		t.Fatalf("matches = %v, want two", m.comp.matches)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	first := m.input.Value()

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	second := m.input.Value()

	if first == second || !slices.Contains([]string{"apple", "apricot"}, first) ||
		!slices.Contains([]string{"apple", "apricot"}, second) {
		t.Errorf("tab cycled %q then %q", first, second)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.input.Value(); got != first {
		t.Errorf("shift-tab = %q, want %q", got, first)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.input.Value(); got != "ap" || m.mode != modeEval {
		t.Errorf("esc restored %q mode %d, want \"ap\" in eval mode", got, m.mode)
	}
}
