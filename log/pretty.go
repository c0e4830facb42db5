package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// prettyStyles holds the styles of one output.
type prettyStyles struct {
	time  lipgloss.Style
	key   lipgloss.Style
	msg   lipgloss.Style
	level map[slog.Level]lipgloss.Style
}

func makePrettyStyles(w io.Writer) prettyStyles {
	r := lipgloss.NewRenderer(w)

	return prettyStyles{
		time: r.NewStyle().Faint(true),
		key:  r.NewStyle().Foreground(lipgloss.Color("8")),
		msg:  r.NewStyle().Bold(true),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): r.NewStyle().Foreground(lipgloss.Color("5")),
			slog.LevelDebug:        r.NewStyle().Foreground(lipgloss.Color("4")),
			slog.LevelInfo:         r.NewStyle().Foreground(lipgloss.Color("2")),
			slog.LevelWarn:         r.NewStyle().Foreground(lipgloss.Color("3")),
			slog.LevelError:        r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

// prettyHandler is a [slog.Handler] writing one colorized line per record:
//
//	TIME LEVEL message key=value ...
type prettyHandler struct {
	opts   slog.HandlerOptions
	styles prettyStyles
	mu     *sync.Mutex
	w      io.Writer
	prefix string // pre-rendered attributes from WithAttrs
	group  string // dotted group prefix for subsequent keys
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		styles: makePrettyStyles(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			buf.WriteString(h.styles.time.Render(a.Value.String()))
			buf.WriteByte(' ')
		}
	}

	level := h.replace(slog.Any(slog.LevelKey, r.Level)).Value.String()
	buf.WriteString(h.levelStyle(r.Level).Render(fmt.Sprintf("%-5s", level)))
	buf.WriteByte(' ')

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			buf.WriteString(h.styles.time.Render(
				src.File + ":" + strconv.Itoa(src.Line),
			))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(h.styles.msg.Render(r.Message))
	buf.WriteString(h.prefix)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.group, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	buf := new(bytes.Buffer)
	for _, a := range attrs {
		h.writeAttr(buf, h.group, a)
	}

	c := *h
	c.prefix += buf.String()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group += name + "."

	return &c
}

func (h *prettyHandler) levelStyle(level slog.Level) lipgloss.Style {
	if s, ok := h.styles.level[level]; ok {
		return s
	}

	return h.styles.msg
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

// writeAttr writes " key=value", flattening groups into dotted keys.
func (h *prettyHandler) writeAttr(buf *bytes.Buffer, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		prefix := group
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, prefix, ga)
		}

		return
	}

	val := a.Value.String()
	if strings.ContainsAny(val, " \t\n\"=") {
		val = strconv.Quote(val)
	}

	buf.WriteByte(' ')
	buf.WriteString(h.styles.key.Render(group + a.Key + "="))
	buf.WriteString(val)
}
