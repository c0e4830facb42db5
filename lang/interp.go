package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/skoobert/log"
)

// DefaultMaxDepth is the default limit on nested evaluations.
const DefaultMaxDepth = 1 << 18

// Option configures an [Interpreter] or the parse entry points.
type Option func(*options)

type options struct {
	logger   log.Logger
	output   func(Value)
	onForce  func(*Thunk)
	maxDepth int
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the logger used to trace pipeline stages.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithOutput sets the sink receiving each console.log and inspect.expanded
// result, in program order.
//
// Without a sink, results are logged at info level by the default logger.
func WithOutput(fn func(Value)) Option {
	return func(o *options) { o.output = fn }
}

// WithMaxDepth limits the number of nested evaluations. A limit of zero or
// less disables the check.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithForceHook registers fn to be called each time a thunk's expression is
// about to be evaluated. Memoized forces do not call fn.
func WithForceHook(fn func(*Thunk)) Option {
	return func(o *options) { o.onForce = fn }
}

// Interpreter executes programs against a single global environment.
//
// Successive calls to [Interpreter.Run] share that environment, so names
// declared by one program are visible to the next. An Interpreter must not be
// used concurrently.
type Interpreter struct {
	env  *Env
	eval *evaluator
	opts options
}

// New returns an Interpreter with an empty global environment.
func New(opts ...Option) *Interpreter {
	o := makeOptions(opts...)

	return &Interpreter{
		env:  NewEnv(nil),
		eval: newEvaluator(o),
		opts: o,
	}
}

// Interpret runs prog in a fresh [Interpreter].
func Interpret(ctx context.Context, prog *Program, opts ...Option) error {
	return New(opts...).Run(ctx, prog)
}

// Env returns the global environment.
func (in *Interpreter) Env() *Env { return in.env }

// Run executes every statement of prog in order, stopping at the first error.
// Outputs emitted before a failing statement remain emitted.
func (in *Interpreter) Run(ctx context.Context, prog *Program) error {
	return in.run(ctx, prog, true)
}

// Declare executes only the let statements of prog, skipping side effects.
func (in *Interpreter) Declare(ctx context.Context, prog *Program) error {
	return in.run(ctx, prog, false)
}

func (in *Interpreter) run(ctx context.Context, prog *Program, effects bool) error {
	in.eval.ctx = ctx

	emit := in.opts.output
	if emit == nil {
		emit = func(v Value) { log.InfoContext(ctx, Display(v)) }
	}

	for i, stmt := range prog.Statements {
		in.opts.logger.TraceContext(ctx, "execute statement",
			slog.Int("index", i),
			slog.Any("pos", stmt.Pos()))

		var err error

		switch s := stmt.(type) {
		case *LetStmt:
			err = in.declare(s)

		case *EffectStmt:
			if !effects {
				continue
			}

			var v Value

			v, err = in.effect(s)
			if err == nil {
				emit(v)
			}
		}

		if err != nil {
			return attachSource(err, prog.Source)
		}
	}

	return nil
}

// declare binds a let statement, refusing names that already resolve anywhere
// in the chain.
func (in *Interpreter) declare(s *LetStmt) error {
	if _, taken := in.env.Lookup(s.Name); taken {
		return ErrNameTaken.
			At(s.NamePos).
			Detail("cannot use 'let %[1]s': the name '%[1]s' is already "+
				"taken; each name can only be defined once", s.Name).
			With(slog.String("name", s.Name))
	}

	in.env.Bind(s.Name, NewThunk(s.Value, in.env))

	return nil
}

func (in *Interpreter) effect(s *EffectStmt) (Value, error) {
	switch s.Effect {
	case EffectInspect:
		return String(Print(Expand(s.Arg, in.env))), nil
	default:
		return in.eval.evalForced(s.Arg, in.env)
	}
}

// Eval evaluates expr in the global environment and forces the result.
func (in *Interpreter) Eval(ctx context.Context, expr Expr) (Value, error) {
	in.eval.ctx = ctx

	return in.eval.evalForced(expr, in.env)
}

// Expand returns the printed symbolic expansion of expr against the global
// environment.
func (in *Interpreter) Expand(expr Expr) string {
	return Print(Expand(expr, in.env))
}
