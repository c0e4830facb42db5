package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/skoobert/cli/cmd/repl"
	"github.com/ardnew/skoobert/lang"
	"github.com/ardnew/skoobert/log"
)

// Repl starts an interactive session.
//
// Named program files are run first, in order, so their bindings are
// available at the prompt. Standard input is only read when "-" is named.
type Repl struct {
	evalFlags `embed:""`

	Sources   []string `arg:"" help:"Program files run before the first prompt" name:"source" optional:""`
	NoHistory bool     `help:"Do not read or write the input history" name:"no-history"`

	out io.Writer
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	session, err := r.session(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, session, r.historyPath(ctx), log.Default())
}

// session returns a session with every named program already loaded, after
// printing the outputs of those programs.
func (r *Repl) session(ctx context.Context) (*repl.Session, error) {
	session := repl.NewSession(log.Default(), lang.WithMaxDepth(r.MaxDepth))

	if len(r.Sources) == 0 {
		return session, nil
	}

	srcs, err := OpenSources(ctx, r.Sources)
	if err != nil {
		return nil, err
	}

	progs, err := srcs.Programs(ctx, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, err
	}

	out := outputOf(r.out)

	for _, prog := range progs {
		lines, err := session.Load(ctx, prog.Program)

		for _, line := range lines {
			if _, werr := fmt.Fprintln(out, line); werr != nil {
				return nil, ErrWriteOutput.Wrap(werr)
			}
		}

		if err != nil {
			return nil, sourceError(prog.Name, err)
		}
	}

	return session, nil
}

func (r *Repl) historyPath(ctx context.Context) string {
	if r.NoHistory {
		return ""
	}

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	dir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok || dir == "" {
		return ""
	}

	path := repl.HistoryPath(dir)

	log.DebugContext(ctx, "repl history", slog.String("path", path))

	return path
}
