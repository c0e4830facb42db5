package repl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/skoobert/lang"
	"github.com/ardnew/skoobert/log"
)

// Session evaluates input lines against one global environment.
//
// A line starting with let, console.log, or inspect.expanded is run as a
// program (the trailing semicolon may be omitted). Any other line is parsed
// as an expression, forced, and its display form returned.
type Session struct {
	in      *lang.Interpreter
	logger  log.Logger
	outputs []string
}

// NewSession returns a Session with an empty environment.
func NewSession(logger log.Logger, opts ...lang.Option) *Session {
	s := &Session{logger: logger}

	opts = append([]lang.Option{lang.WithLogger(logger)}, opts...)
	s.in = lang.New(append(opts, lang.WithOutput(s.emit))...)

	return s
}

func (s *Session) emit(v lang.Value) {
	s.outputs = append(s.outputs, lang.Display(v))
}

// Load runs a complete program, returning the display form of its outputs.
func (s *Session) Load(ctx context.Context, prog *lang.Program) ([]string, error) {
	s.outputs = nil

	err := s.in.Run(ctx, prog)

	return s.outputs, err
}

// Exec evaluates one input line. Outputs produced before a failure are
// returned along with the error.
func (s *Session) Exec(ctx context.Context, line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	tokens, err := lang.Tokenize(line)
	if err != nil {
		return nil, err
	}

	if !isStatement(tokens) {
		s.logger.TraceContext(ctx, "session eval", slog.String("input", line))

		expr, err := lang.ParseExpr(line)
		if err != nil {
			return nil, err
		}

		v, err := s.in.Eval(ctx, expr)
		if err != nil {
			return nil, err
		}

		return []string{lang.Display(v)}, nil
	}

	if last := tokens[len(tokens)-2]; last.Type != lang.TokenSemicolon {
		line += ";"
	}

	s.logger.TraceContext(ctx, "session run", slog.String("input", line))

	prog, err := lang.ParseString(ctx, line, lang.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	return s.Load(ctx, prog)
}

// isStatement reports whether tokens begin with a statement keyword. The
// token stream always ends with EOF.
func isStatement(tokens []lang.Token) bool {
	if len(tokens) < 2 {
		return false
	}

	switch tokens[0].Type {
	case lang.TokenLet, lang.TokenConsoleLog, lang.TokenInspectExpanded:
		return true
	default:
		return false
	}
}

// Expand returns the symbolic expansion of the expression in line.
func (s *Session) Expand(line string) (string, error) {
	expr, err := lang.ParseExpr(line)
	if err != nil {
		return "", err
	}

	return s.in.Expand(expr), nil
}

// Names returns every bound name, sorted.
func (s *Session) Names() []string { return s.in.Env().Names() }

// Preview returns the source form of the expression bound to name.
func (s *Session) Preview(name string) (string, bool) {
	v, ok := s.in.Env().Lookup(name)
	if !ok {
		return "", false
	}

	if th, ok := v.(*lang.Thunk); ok {
		return lang.Print(th.Expr), true
	}

	return lang.Display(v), true
}

// Params returns the parameters of the curried arrow bound to name, outermost
// first. Bindings that are not written as arrows have no known parameters.
func (s *Session) Params(name string) []string {
	v, ok := s.in.Env().Lookup(name)
	if !ok {
		return nil
	}

	var expr lang.Expr

	switch v := v.(type) {
	case *lang.Thunk:
		expr = v.Expr
	case *lang.Function:
		expr = &lang.Arrow{Param: v.Param, Body: v.Body}
	}

	var params []string

	for {
		switch e := expr.(type) {
		case *lang.Paren:
			expr = e.Inner

			continue
		case *lang.Arrow:
			params = append(params, e.Param)
			expr = e.Body

			continue
		}

		return params
	}
}
