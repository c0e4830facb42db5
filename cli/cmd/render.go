package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/skoobert/lang"
)

type renderStyles struct {
	kind   lipgloss.Style
	msg    lipgloss.Style
	where  lipgloss.Style
	gutter lipgloss.Style
	caret  lipgloss.Style
}

func makeRenderStyles(w io.Writer) renderStyles {
	r := lipgloss.NewRenderer(w)

	return renderStyles{
		kind:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		msg:    r.NewStyle().Bold(true),
		where:  r.NewStyle().Faint(true),
		gutter: r.NewStyle().Foreground(lipgloss.Color("8")),
		caret:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// RenderError writes a source excerpt for the language error in err's chain:
//
//	RuntimeError: division by zero
//	  at line 1, column 15:
//
//	  1 | console.log(1 / 0);
//	    |               ^
//
// It reports whether err carried a language error. Nothing is written
// otherwise.
func RenderError(w io.Writer, err error) bool {
	e, ok := lang.AsError(err)
	if !ok {
		return false
	}

	st := makeRenderStyles(w)

	var sb strings.Builder

	sb.WriteString(st.kind.Render(e.Kind().String() + ":"))
	sb.WriteString(" ")
	sb.WriteString(st.msg.Render(e.Message()))
	sb.WriteString("\n")

	if e.Line() > 0 {
		where := fmt.Sprintf("at line %d, column %d", e.Line(), e.Column())
		if v, ok := attr(err, fileAttr); ok {
			where += " in " + v.String()
		}

		sb.WriteString("  ")
		sb.WriteString(st.where.Render(where + ":"))
		sb.WriteString("\n")

		if text, ok := sourceLine(e.Source(), e.Line()); ok {
			num := strconv.Itoa(e.Line())
			pad := strings.Repeat(" ", len(num))

			fmt.Fprintf(&sb, "\n  %s %s\n  %s %s\n",
				st.gutter.Render(num+" |"), text,
				st.gutter.Render(pad+" |"), caretLine(text, e.Column(), st.caret))
		}
	}

	if cause := errors.Unwrap(e); cause != nil {
		sb.WriteString("  ")
		sb.WriteString(st.where.Render("caused by: " + cause.Error()))
		sb.WriteString("\n")
	}

	_, _ = io.WriteString(w, sb.String())

	return true
}

// sourceLine returns the 1-based line of source, without its terminator.
func sourceLine(source string, line int) (string, bool) {
	if source == "" || line < 1 {
		return "", false
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return "", false
	}

	return strings.TrimRight(lines[line-1], "\r"), true
}

// caretLine returns the marker placed under column col of text. Tabs before
// the column are kept so the marker lines up however tabs are expanded.
func caretLine(text string, col int, style lipgloss.Style) string {
	var sb strings.Builder

	i := 1
	for _, r := range text {
		if i >= col {
			break
		}

		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}

		i++
	}

	for ; i < col; i++ {
		sb.WriteRune(' ')
	}

	sb.WriteString(style.Render("^"))

	return sb.String()
}
