package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandler_WritesOneLinePerRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(true), WithTimeLayout("none"))

	logger.Info("first", slog.String("key", "value"))
	logger.Warn("second", slog.Int("n", 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	if !strings.Contains(lines[0], "INFO") || !strings.Contains(lines[0], "first") ||
		!strings.Contains(lines[0], "key=") || !strings.Contains(lines[0], "value") {
		t.Errorf("unexpected first line: %q", lines[0])
	}

	if !strings.Contains(lines[1], "WARN") || !strings.Contains(lines[1], "2") {
		t.Errorf("unexpected second line: %q", lines[1])
	}
}

func TestPrettyHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(true), WithTimeLayout("none")).
		With(slog.String("run", "r1"))

	logger.Info("grouped",
		slog.Group("pos", slog.Int("line", 3), slog.Int("column", 7)),
		slog.String("text", "two words"),
	)

	output := buf.String()

	for _, want := range []string{"run=", "r1", "pos.line=", "pos.column=", `"two words"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in %q", want, output)
		}
	}
}

func TestPrettyHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(true), WithLevel(LevelWarn))

	logger.Info("hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
