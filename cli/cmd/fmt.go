package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/skoobert/lang"
	"github.com/ardnew/skoobert/log"
)

// Fmt prints programs in canonical form: one statement per line, with
// parentheses re-derived from operator precedence.
type Fmt struct {
	Sources []string `arg:"" help:"Program files, or '-' for stdin" name:"source" optional:""`

	out io.Writer
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := OpenSources(ctx, f.Sources)
	if err != nil {
		return err
	}

	progs, err := srcs.Programs(ctx, lang.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	out := outputOf(f.out)

	for _, prog := range progs {
		err := prog.Format(ctx, out)
		if err != nil {
			return ErrWriteOutput.With(slog.String(fileAttr, prog.Name)).Wrap(err)
		}
	}

	return nil
}

// dumpFlags select the encoding of the tokens and ast commands.
type dumpFlags struct {
	Format string `default:"json" enum:"json,yaml" help:"Output format (${enum})" short:"f"`
	Indent int    `default:"2"                     help:"Indent width; 0 writes compact output" short:"i"`
}

// Tokens dumps the token stream of each program.
type Tokens struct {
	dumpFlags `embed:""`

	Sources []string `arg:"" help:"Program files, or '-' for stdin" name:"source" optional:""`

	out io.Writer
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := OpenSources(ctx, t.Sources)
	if err != nil {
		return err
	}

	texts, err := srcs.Sources()
	if err != nil {
		return err
	}

	out := outputOf(t.out)

	for _, text := range texts {
		tokens, err := lang.Tokenize(text.Text)
		if err != nil {
			return sourceError(text.Name, err)
		}

		switch t.Format {
		case "yaml":
			err = lang.FormatTokensYAML(ctx, out, tokens, t.Indent)
			if err != nil {
				return ErrYAMLMarshal.With(slog.String(fileAttr, text.Name)).Wrap(err)
			}

		default:
			err = lang.FormatTokensJSON(ctx, out, tokens, t.Indent)
			if err != nil {
				return ErrJSONMarshal.With(slog.String(fileAttr, text.Name)).Wrap(err)
			}
		}
	}

	return nil
}

// AST dumps the syntax tree of each program.
type AST struct {
	dumpFlags `embed:""`

	Sources []string `arg:"" help:"Program files, or '-' for stdin" name:"source" optional:""`

	out io.Writer
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := OpenSources(ctx, a.Sources)
	if err != nil {
		return err
	}

	progs, err := srcs.Programs(ctx, lang.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	out := outputOf(a.out)

	for _, prog := range progs {
		switch a.Format {
		case "yaml":
			err = prog.FormatYAML(ctx, out, a.Indent)
			if err != nil {
				return ErrYAMLMarshal.With(slog.String(fileAttr, prog.Name)).Wrap(err)
			}

		default:
			err = prog.FormatJSON(ctx, out, a.Indent)
			if err != nil {
				return ErrJSONMarshal.With(slog.String(fileAttr, prog.Name)).Wrap(err)
			}
		}
	}

	return nil
}
