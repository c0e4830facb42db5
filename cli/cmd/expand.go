package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/ardnew/skoobert/lang"
	"github.com/ardnew/skoobert/log"
)

// Expand prints the symbolic expansion of expressions against the bindings
// of a program. The program's console.log and inspect.expanded statements
// are not run.
type Expand struct {
	Source string   `arg:"" help:"Program file, or '-' for stdin" name:"source"`
	Exprs  []string `arg:"" help:"Expressions to expand"          name:"expr"`

	out io.Writer
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := OpenSources(ctx, []string{e.Source})
	if err != nil {
		return err
	}

	progs, err := srcs.Programs(ctx, lang.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	in := lang.New(lang.WithLogger(log.Default()))

	err = execute(ctx, in, progs, true)
	if err != nil {
		return err
	}

	out := outputOf(e.out)

	for i, src := range e.Exprs {
		expr, err := lang.ParseExpr(src)
		if err != nil {
			return sourceError("expr "+strconv.Itoa(i+1), err)
		}

		expanded := in.Expand(expr)

		log.DebugContext(ctx, "expand",
			slog.String("expr", src),
			slog.String("expansion", expanded))

		if _, err := fmt.Fprintln(out, expanded); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
