package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/expr-lang/expr"

	"github.com/ardnew/skoobert/lang"
	"github.com/ardnew/skoobert/log"
)

// Check runs programs and evaluates predicates over the values they output.
//
// Each predicate is an expr-lang expression over the environment
//
//	outputs  list of output values (numbers, strings, booleans)
//	count    number of outputs
//
// for example:
//
//	skoobert check prog.sk -e 'count == 2' -e 'outputs[0] == 42'
type Check struct {
	evalFlags `embed:""`

	Expect  []string `help:"Predicate that must hold over the program outputs" placeholder:"EXPR" required:"" short:"e"`
	Sources []string `arg:""                                                   help:"Program files, or '-' for stdin" name:"source" optional:""`

	out io.Writer
}

// checkEnv is the environment predicates are evaluated against.
type checkEnv struct {
	Outputs []any `expr:"outputs"`
	Count   int   `expr:"count"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := OpenSources(ctx, c.Sources)
	if err != nil {
		return err
	}

	progs, err := srcs.Programs(ctx, lang.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	var env checkEnv

	in := lang.New(append(c.options(), lang.WithOutput(func(v lang.Value) {
		env.Outputs = append(env.Outputs, lang.Native(v))
	}))...)

	err = execute(ctx, in, progs, false)
	if err != nil {
		return err
	}

	env.Count = len(env.Outputs)

	failed, err := c.evaluate(ctx, env)
	if err != nil {
		return err
	}

	if len(failed) > 0 {
		return ErrCheckFailed.
			With(slog.Any("failed", failed)).
			Wrap(fmt.Errorf("%d of %d", len(failed), len(c.Expect)))
	}

	return nil
}

// evaluate reports each predicate's result and returns those that did not
// hold.
func (c *Check) evaluate(ctx context.Context, env checkEnv) ([]string, error) {
	out := outputOf(c.out)

	var failed []string

	for _, src := range c.Expect {
		program, err := expr.Compile(src, expr.Env(checkEnv{}), expr.AsBool())
		if err != nil {
			return nil, ErrExpect.
				With(slog.String("expect", src)).
				Wrap(err)
		}

		result, err := expr.Run(program, env)
		if err != nil {
			return nil, ErrExpect.
				With(slog.String("expect", src)).
				Wrap(err)
		}

		status := "ok  "
		if ok, _ := result.(bool); !ok {
			status = "FAIL"
			failed = append(failed, src)
		}

		log.DebugContext(ctx, "check",
			slog.String("expect", src),
			slog.Any("result", result))

		if _, err := fmt.Fprintf(out, "%s %s\n", status, src); err != nil {
			return nil, ErrWriteOutput.Wrap(err)
		}
	}

	return failed, nil
}
