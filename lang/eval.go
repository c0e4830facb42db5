package lang

import (
	"context"
	"log/slog"
	"math"

	"github.com/ardnew/skoobert/log"
)

// evaluator reduces expressions to values under call-by-need semantics.
type evaluator struct {
	ctx      context.Context
	logger   log.Logger
	onForce  func(*Thunk)
	maxDepth int
	depth    int
	trace    bool
}

func newEvaluator(o options) *evaluator {
	return &evaluator{
		ctx:      context.Background(),
		logger:   o.logger,
		onForce:  o.onForce,
		maxDepth: o.maxDepth,
		trace:    o.logger.Logger != nil && o.logger.Level() <= log.LevelTrace,
	}
}

// force resolves v to a non-thunk value.
//
// Each thunk stores the immediate result of its expression, which may be
// another thunk; the chain is then followed until a non-thunk is reached.
// Every thunk on the chain stays busy until force returns, so a chain that
// leads back into itself is reported instead of followed forever.
func (ev *evaluator) force(v Value) (Value, error) {
	var chain []*Thunk

	defer func() {
		for _, t := range chain {
			t.busy = false
		}
	}()

	for {
		t, ok := v.(*Thunk)
		if !ok {
			return v, nil
		}

		if t.busy {
			return nil, ErrCyclicEvaluation.At(t.Expr.Pos())
		}

		if err := ev.ctx.Err(); err != nil {
			return nil, ErrInterrupted.At(t.Expr.Pos()).Wrap(err)
		}

		t.busy = true
		chain = append(chain, t)

		if memo, ok := t.Memo(); ok {
			v = memo

			continue
		}

		if ev.trace {
			ev.logger.TraceContext(ev.ctx, "force thunk",
				slog.Any("pos", t.Expr.Pos()),
				slog.Int("depth", ev.depth))
		}

		if ev.onForce != nil {
			ev.onForce(t)
		}

		r, err := ev.eval(t.Expr, t.Env)
		if err != nil {
			return nil, err
		}

		// A name bound to itself, directly or through other names.
		if rt, ok := r.(*Thunk); ok && rt.busy {
			return nil, ErrCyclicEvaluation.At(t.Expr.Pos())
		}

		t.memoize(r)

		v = r
	}
}

// evalForced evaluates expr and forces the result.
func (ev *evaluator) evalForced(expr Expr, env *Env) (Value, error) {
	v, err := ev.eval(expr, env)
	if err != nil {
		return nil, err
	}

	return ev.force(v)
}

// eval reduces expr in env. The result may be an unforced thunk.
func (ev *evaluator) eval(expr Expr, env *Env) (Value, error) {
	if ev.maxDepth > 0 {
		ev.depth++
		defer func() { ev.depth-- }()

		if ev.depth > ev.maxDepth {
			return nil, ErrMaxDepthExceeded.
				At(expr.Pos()).
				With(slog.Int("limit", ev.maxDepth))
		}
	}

	switch e := expr.(type) {
	case *NumberLit:
		return Number(e.Value), nil

	case *StringLit:
		return String(e.Value), nil

	case *BoolLit:
		return Boolean(e.Value), nil

	case *Ident:
		v, ok := env.Lookup(e.Name)
		if !ok {
			return nil, ErrUndefinedVariable.
				At(e.At).
				Detail("%s", e.Name).
				With(slog.String("name", e.Name))
		}

		return v, nil

	case *Paren:
		return ev.eval(e.Inner, env)

	case *Arrow:
		return &Function{Body: e.Body, Closure: env, Param: e.Param}, nil

	case *Call:
		return ev.evalCall(e, env)

	case *Conditional:
		cond, err := ev.evalForced(e.Cond, env)
		if err != nil {
			return nil, err
		}

		b, ok := cond.(Boolean)
		if !ok {
			return nil, ErrConditionNotBoolean.
				At(e.Cond.Pos()).
				With(slog.String("type", cond.Type().String()))
		}

		if b {
			return NewThunk(e.Then, env), nil
		}

		return NewThunk(e.Else, env), nil

	case *Unary:
		return ev.evalUnary(e, env)

	case *Binary:
		switch e.Op {
		case OpOr, OpAnd:
			return ev.evalLogical(e, env)
		case OpEq, OpNotEq:
			return ev.evalEquality(e, env)
		default:
			return ev.evalArithmetic(e, env)
		}
	}

	panic("lang: unhandled expression node")
}

// evalCall binds the unevaluated argument and returns a thunk over the body.
func (ev *evaluator) evalCall(e *Call, env *Env) (Value, error) {
	callee, err := ev.evalForced(e.Callee, env)
	if err != nil {
		return nil, err
	}

	fn, ok := callee.(*Function)
	if !ok {
		return nil, ErrNotFunction.
			At(e.At).
			With(slog.String("type", callee.Type().String()))
	}

	scope := NewEnv(fn.Closure)
	scope.Bind(fn.Param, NewThunk(e.Arg, env))

	return NewThunk(fn.Body, scope), nil
}

func (ev *evaluator) evalUnary(e *Unary, env *Env) (Value, error) {
	v, err := ev.evalForced(e.Operand, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpNot:
		b, ok := v.(Boolean)
		if !ok {
			return nil, mismatch(e.At, e.Op, "a boolean", v)
		}

		return !b, nil

	default:
		n, ok := v.(Number)
		if !ok {
			return nil, mismatch(e.At, e.Op, "a number", v)
		}

		return -n, nil
	}
}

// evalLogical short-circuits || on true and && on false without touching the
// right operand.
func (ev *evaluator) evalLogical(e *Binary, env *Env) (Value, error) {
	left, err := ev.evalForced(e.Left, env)
	if err != nil {
		return nil, err
	}

	lb, ok := left.(Boolean)
	if !ok {
		return nil, mismatch(e.At, e.Op, "booleans", left)
	}

	if (e.Op == OpOr && bool(lb)) || (e.Op == OpAnd && !bool(lb)) {
		return lb, nil
	}

	right, err := ev.evalForced(e.Right, env)
	if err != nil {
		return nil, err
	}

	rb, ok := right.(Boolean)
	if !ok {
		return nil, mismatch(e.At, e.Op, "booleans", right)
	}

	return rb, nil
}

func (ev *evaluator) evalEquality(e *Binary, env *Env) (Value, error) {
	left, right, err := ev.evalOperands(e, env)
	if err != nil {
		return nil, err
	}

	eq := Equal(left, right)
	if e.Op == OpNotEq {
		eq = !eq
	}

	return Boolean(eq), nil
}

func (ev *evaluator) evalArithmetic(e *Binary, env *Env) (Value, error) {
	left, right, err := ev.evalOperands(e, env)
	if err != nil {
		return nil, err
	}

	if e.Op == OpAdd {
		_, ls := left.(String)
		_, rs := right.(String)

		if ls || rs {
			return String(Display(left) + Display(right)), nil
		}
	}

	l, lok := left.(Number)
	r, rok := right.(Number)

	if !lok || !rok {
		bad := left
		if lok {
			bad = right
		}

		want := "numbers"
		if e.Op == OpAdd {
			want = "numbers or strings"
		}

		return nil, mismatch(e.At, e.Op, want, bad)
	}

	switch e.Op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		if r == 0 {
			return nil, ErrDivisionByZero.At(e.At)
		}

		return l / r, nil
	case OpMod:
		if r == 0 {
			return nil, ErrModuloByZero.At(e.At)
		}

		return Number(math.Mod(float64(l), float64(r))), nil
	case OpLess:
		return Boolean(l < r), nil
	case OpLessEq:
		return Boolean(l <= r), nil
	case OpGreater:
		return Boolean(l > r), nil
	default:
		return Boolean(l >= r), nil
	}
}

// evalOperands forces the left operand, then the right.
func (ev *evaluator) evalOperands(e *Binary, env *Env) (left, right Value, err error) {
	left, err = ev.evalForced(e.Left, env)
	if err != nil {
		return nil, nil, err
	}

	right, err = ev.evalForced(e.Right, env)
	if err != nil {
		return nil, nil, err
	}

	return left, right, nil
}

// Equal reports whether two forced values are equal: numbers, strings, and
// booleans by value, functions and thunks by identity. Values of different
// types are never equal.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Number:
		b, ok := b.(Number)

		return ok && a == b
	case String:
		b, ok := b.(String)

		return ok && a == b
	case Boolean:
		b, ok := b.(Boolean)

		return ok && a == b
	case *Function:
		b, ok := b.(*Function)

		return ok && a == b
	case *Thunk:
		b, ok := b.(*Thunk)

		return ok && a == b
	default:
		return false
	}
}

func mismatch(pos Position, op Operator, want string, got Value) *Error {
	return ErrTypeMismatch.
		At(pos).
		Detail("'%s' requires %s", op, want).
		With(
			slog.String("operator", op.String()),
			slog.String("type", got.Type().String()),
		)
}
