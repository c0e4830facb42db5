package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	currentParamStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// functionCall is the application the cursor is inside of.
type functionCall struct {
	name     string // binding at the head of the chain, e.g. "K"
	argIndex int    // arguments applied before the open one
	inCall   bool
}

// openParen returns the index of the '(' left unmatched in input[:end], or
// -1 if every parenthesis is closed.
func openParen(input string, end int) int {
	depth := 0

	for i := end - 1; i >= 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				return i
			}

			depth--
		}
	}

	return -1
}

// detectFunctionCall reports whether the cursor is inside the argument of a
// call chain such as K(1)(, naming the binding at its head and counting the
// arguments already applied.
func detectFunctionCall(input string, cursor int) functionCall {
	head := openParen(input, min(cursor, len(input)))
	if head < 0 {
		return functionCall{}
	}

	applied := 0

	for head > 0 && input[head-1] == ')' {
		if head = openParen(input, head-1); head < 0 {
			return functionCall{}
		}

		applied++
	}

	start := head
	for start > 0 && isIdentRune(rune(input[start-1])) {
		start--
	}

	// console.log( and inspect.expanded( are statements, not calls.
	if start == head || (start > 0 && input[start-1] == '.') {
		return functionCall{}
	}

	return functionCall{name: input[start:head], argIndex: applied, inCall: true}
}

// formatSignature formats a curried application of name to params.
func formatSignature(name string, params []string) string {
	var sb strings.Builder

	sb.WriteString(name)

	for _, p := range params {
		sb.WriteString("(" + p + ")")
	}

	return sb.String()
}

// renderSignatureHint renders the curried signature of name with the
// parameter at currentArgIdx highlighted.
func renderSignatureHint(
	name string,
	params []string,
	currentArgIdx int,
) string {
	if name == "" || len(params) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))

	for i, param := range params {
		b.WriteString(signatureStyle.Render("("))

		if i == currentArgIdx {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}

		b.WriteString(signatureStyle.Render(")"))
	}

	return b.String()
}
