package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

func TestWordBounds_ExprOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"curried", "K(x)(fo", 7, "fo", 5, 7},
		{"in_ternary", "x ? fo", 6, "fo", 4, 6},
		{"after_arrow", "x => fo", 7, "fo", 5, 7},
		{"after_strict_eq", "a === fo", 8, "fo", 6, 8},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "my_name", 7, "my_name", 0, 7},
		// Dots stay inside a word so statement keywords complete whole.
		{"dotted", "console.lo", 10, "console.lo", 0, 10},
		{"dotted_in_call", "console.log(inspect.ex", 22, "inspect.ex", 12, 22},
		{"hyphen_splits", "a-b", 3, "b", 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestWordBounds_CursorPastEnd(t *testing.T) {
	word, start, end := wordBounds("abc", 10)
	if word != "abc" || start != 0 || end != 3 {
		t.Errorf("wordBounds past end = (%q, %d, %d), want (\"abc\", 0, 3)",
			word, start, end)
	}
}

func TestEvalCandidates(t *testing.T) {
	got := evalCandidates([]string{"K", "S"})
	want := []string{"K", "S", "let", "true", "false", "console.log", "inspect.expanded"}

	if !slices.Equal(got, want) {
		t.Errorf("evalCandidates() = %v, want %v", got, want)
	}

	if got := evalCandidates(nil); len(got) != len(keywords) {
		t.Errorf("evalCandidates(nil) has %d entries, want %d", len(got), len(keywords))
	}
}

func TestComputeMatches(t *testing.T) {
	session := NewSession(testLogger())
	if _, err := session.Exec(t.Context(), "let counter = 1"); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  string
	}{
		{"bound_name", modeEval, "cou", "counter"},
		{"keyword", modeEval, "consol", "console.log"},
		{"ctrl_mode", modeCtrl, "exp", "expand"},
		{"ctrl_prefix", modeEval, ":qu", "quit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t.Context(), session, NewHistory(""), testLogger())
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, end := m.computeMatches()
			if len(matches) == 0 {
				t.Fatalf("computeMatches(%q) found nothing", tt.input)
			}

			if matches[0].Str != tt.want {
				t.Errorf("computeMatches(%q)[0] = %q, want %q",
					tt.input, matches[0].Str, tt.want)
			}

			if end != len(tt.input) {
				t.Errorf("computeMatches(%q) end = %d, want %d",
					tt.input, end, len(tt.input))
			}
		})
	}
}

func TestComputeMatches_EmptyWord(t *testing.T) {
	m := newModel(t.Context(), NewSession(testLogger()), NewHistory(""), testLogger())
	m.input.SetValue("a + ")
	m.input.SetCursor(4)

	if matches, _, _ := m.computeMatches(); matches != nil {
		t.Errorf("computeMatches() = %v, want nil", matches)
	}
}

func TestFormatPreview(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"short", "x => y => x", "x => y => x"},
		{"whitespace_collapsed", "x =>\n\ty  =>  x", "x => y => x"},
		{
			"truncated",
			"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPreview(tt.src); got != tt.want {
				t.Errorf("formatPreview(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("a", []string{"alpha", "beta", "gamma"})
	if len(matches) != 3 {
		t.Fatalf("fuzzy.Find() = %v", matches)
	}

	wide := renderCandidateBar(matches, -1, 100)
	if strings.Contains(wide, "...") || lipgloss.Width(wide) > 100 {
		t.Errorf("wide bar = %q", wide)
	}

	narrow := renderCandidateBar(matches, 0, 12)
	if !strings.Contains(narrow, "...") || lipgloss.Width(narrow) > 12 {
		t.Errorf("narrow bar = %q, want ellipsized within 12 columns", narrow)
	}

	if got := renderCandidateBar(nil, -1, 100); got != "" {
		t.Errorf("empty bar = %q", got)
	}
}
