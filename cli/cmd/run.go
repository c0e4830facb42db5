package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ardnew/skoobert/lang"
	"github.com/ardnew/skoobert/log"
)

// evalFlags configure the interpreter of commands that evaluate programs.
type evalFlags struct {
	MaxDepth int `default:"${maxDepth}" help:"Limit on nested evaluations (0 disables)" name:"max-depth"`
}

func (f evalFlags) options() []lang.Option {
	return []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(f.MaxDepth),
	}
}

// execute runs (or, with declareOnly, declares) each program in order
// against one interpreter.
func execute(
	ctx context.Context,
	in *lang.Interpreter,
	progs []Program,
	declareOnly bool,
) error {
	run := in.Run
	if declareOnly {
		run = in.Declare
	}

	for _, prog := range progs {
		err := run(ctx, prog.Program)
		if err != nil {
			return sourceError(prog.Name, err)
		}
	}

	return nil
}

func outputOf(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}

// Run interprets programs, printing the display form of each output on its
// own line.
//
// All programs share one global environment, so names declared by one file
// are visible to the files that follow it.
type Run struct {
	evalFlags `embed:""`

	Sources []string `arg:"" help:"Program files, or '-' for stdin" name:"source" optional:""`

	out io.Writer
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := OpenSources(ctx, r.Sources)
	if err != nil {
		return err
	}

	progs, err := srcs.Programs(ctx, lang.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	out := outputOf(r.out)

	var werr error

	in := lang.New(append(r.options(), lang.WithOutput(func(v lang.Value) {
		if werr == nil {
			_, werr = fmt.Fprintln(out, lang.Display(v))
		}
	}))...)

	err = execute(ctx, in, progs, false)
	if err != nil {
		return err
	}

	if werr != nil {
		return ErrWriteOutput.Wrap(werr)
	}

	return nil
}
