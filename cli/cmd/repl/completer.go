package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "expand", "clear", "quit"}

// keywords are completed in eval mode alongside the bound names.
var keywords = []string{"let", "true", "false", "console.log", "inspect.expanded"}

// ctrlPrefix introduces a command typed in eval mode.
const ctrlPrefix = ":"

// isIdentRune reports whether r may appear in an identifier.
func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes. Dots are kept inside words so that console.log and
// inspect.expanded complete as a whole.
func isWordBoundary(r rune) bool {
	return !isIdentRune(r) && r != '.'
}

// wordBounds returns the word surrounding byte offset cursor in input and
// its byte range. The word is empty when the cursor sits between two
// boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	if i := strings.LastIndexFunc(input[:cursor], isWordBoundary); i >= 0 {
		_, size := utf8.DecodeRuneInString(input[i:])
		start = i + size
	}

	end = len(input)
	if i := strings.IndexFunc(input[cursor:], isWordBoundary); i >= 0 {
		end = cursor + i
	}

	return input[start:end], start, end
}

// evalCandidates returns the completions offered in eval mode: bound names
// followed by keywords not shadowed by them.
func evalCandidates(names []string) []string {
	candidates := slices.Clone(names)

	for _, kw := range keywords {
		if !slices.Contains(candidates, kw) {
			candidates = append(candidates, kw)
		}
	}

	return candidates
}

// computeMatches ranks the candidates for the word at the cursor, best
// first, and returns them with the word's byte range. An empty word has no
// matches so the hint line stays visible.
func (m model) computeMatches() (matches fuzzy.Matches, start, end int) {
	input := m.input.Value()

	word, start, end := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, start, end
	}

	candidates := ctrlCommands
	if m.mode == modeEval &&
		(start != len(ctrlPrefix) || !strings.HasPrefix(input, ctrlPrefix)) {
		candidates = evalCandidates(m.session.Names())
	}

	return fuzzy.Find(word, candidates), start, end
}

var (
	matchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)

	selectedMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("4")).
				Bold(true)
)

// renderCandidateBar lays the matches out on one line no wider than width,
// ending with an ellipsis when some do not fit. The candidate at selected
// is highlighted.
func renderCandidateBar(matches fuzzy.Matches, selected, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(ellipsis)

	parts := make([]string, 0, len(matches))
	used := 0

	for i, match := range matches {
		item := renderCandidate(match, i == selected)
		w := lipgloss.Width(item)

		if i > 0 {
			w += lipgloss.Width(sep)

			if used+w+reserve > width {
				parts = append(parts, ellipsis)

				break
			}
		}

		parts = append(parts, item)
		used += w
	}

	return strings.Join(parts, sep)
}

// renderCandidate renders the candidate with its matched characters
// emphasized.
func renderCandidate(match fuzzy.Match, selected bool) string {
	plain, emphasis := suggestionStyle, matchStyle
	if selected {
		plain, emphasis = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		style := plain
		if slices.Contains(match.MatchedIndexes, i) {
			style = emphasis
		}

		b.WriteString(style.Render(string(r)))
	}

	return b.String()
}

// maxPreview is the widest binding preview shown by the list command.
const maxPreview = 60

// formatPreview shortens the source form of a binding for listing.
func formatPreview(src string) string {
	src = strings.Join(strings.Fields(src), " ")

	if utf8.RuneCountInString(src) > maxPreview {
		runes := []rune(src)

		return string(runes[:maxPreview-3]) + "..."
	}

	return src
}
