package lang

import (
	"strconv"
	"strings"
)

// nameSet is an immutable set of names. Extending it never affects the set
// it was extended from, so sibling branches of a traversal cannot observe
// each other's additions.
type nameSet struct {
	next *nameSet
	name string
}

func (s *nameSet) with(name string) *nameSet {
	return &nameSet{next: s, name: name}
}

func (s *nameSet) has(name string) bool {
	for ; s != nil; s = s.next {
		if s.name == name {
			return true
		}
	}

	return false
}

// Expand substitutes the bound expression of every identifier in expr that
// refers to a composed definition, leaving self-contained definitions (those
// whose expression references no bound name) as bare identifiers.
//
// A name reached again while its own definition is being expanded is
// replaced by the marker identifier "...name...". Function parameters are
// never substituted.
func Expand(expr Expr, env *Env) Expr {
	return expand(expr, env, nil, nil)
}

func expand(expr Expr, env *Env, expanding, params *nameSet) Expr {
	switch e := expr.(type) {
	case *Ident:
		if params.has(e.Name) {
			return e
		}

		if expanding.has(e.Name) {
			return &Ident{Name: "..." + e.Name + "...", At: e.At}
		}

		v, ok := env.Lookup(e.Name)
		if !ok {
			return e
		}

		t, ok := v.(*Thunk)
		if !ok || selfContained(t.Expr, t.Env, nil) {
			return e
		}

		return expand(t.Expr, t.Env, expanding.with(e.Name), nil)

	case *Arrow:
		return &Arrow{
			Body:  expand(e.Body, env, expanding, params.with(e.Param)),
			Param: e.Param,
			At:    e.At,
		}

	case *Call:
		return &Call{
			Callee: expand(e.Callee, env, expanding, params),
			Arg:    expand(e.Arg, env, expanding, params),
			At:     e.At,
		}

	case *Conditional:
		return &Conditional{
			Cond: expand(e.Cond, env, expanding, params),
			Then: expand(e.Then, env, expanding, params),
			Else: expand(e.Else, env, expanding, params),
			At:   e.At,
		}

	case *Binary:
		return &Binary{
			Left:  expand(e.Left, env, expanding, params),
			Right: expand(e.Right, env, expanding, params),
			At:    e.At,
			Op:    e.Op,
		}

	case *Unary:
		return &Unary{
			Operand: expand(e.Operand, env, expanding, params),
			At:      e.At,
			Op:      e.Op,
		}

	case *Paren:
		return &Paren{Inner: expand(e.Inner, env, expanding, params), At: e.At}

	default:
		return expr
	}
}

// selfContained reports whether expr references no name bound in env, not
// counting parameters of arrows enclosing the reference.
func selfContained(expr Expr, env *Env, params *nameSet) bool {
	switch e := expr.(type) {
	case *Ident:
		if params.has(e.Name) {
			return true
		}

		_, bound := env.Lookup(e.Name)

		return !bound

	case *Arrow:
		return selfContained(e.Body, env, params.with(e.Param))

	case *Call:
		return selfContained(e.Callee, env, params) &&
			selfContained(e.Arg, env, params)

	case *Conditional:
		return selfContained(e.Cond, env, params) &&
			selfContained(e.Then, env, params) &&
			selfContained(e.Else, env, params)

	case *Binary:
		return selfContained(e.Left, env, params) &&
			selfContained(e.Right, env, params)

	case *Unary:
		return selfContained(e.Operand, env, params)

	case *Paren:
		return selfContained(e.Inner, env, params)

	default:
		return true
	}
}

// Print renders expr in surface syntax with the minimal parentheses needed to
// preserve its structure. Parenthesized nodes from the source are dropped.
func Print(expr Expr) string {
	var sb strings.Builder

	printExpr(&sb, expr, PrecConditional)

	return sb.String()
}

// printExpr writes expr, wrapping it in parentheses when its precedence is
// lower than level, the grammar level required at its position.
func printExpr(sb *strings.Builder, expr Expr, level int) {
	if p, ok := expr.(*Paren); ok {
		printExpr(sb, p.Inner, level)

		return
	}

	wrap := precedence(expr) < level
	if wrap {
		sb.WriteByte('(')
	}

	switch e := expr.(type) {
	case *NumberLit:
		sb.WriteString(FormatNumber(e.Value))

	case *StringLit:
		sb.WriteString(quote(e.Value))

	case *BoolLit:
		sb.WriteString(strconv.FormatBool(e.Value))

	case *Ident:
		sb.WriteString(e.Name)

	case *Arrow:
		sb.WriteString(e.Param)
		sb.WriteString(" => ")
		printExpr(sb, e.Body, PrecConditional)

	case *Call:
		printExpr(sb, e.Callee, PrecPrimary)
		sb.WriteByte('(')
		printExpr(sb, e.Arg, PrecConditional)
		sb.WriteByte(')')

	case *Conditional:
		printExpr(sb, e.Cond, PrecOr)
		sb.WriteString(" ? ")
		printExpr(sb, e.Then, PrecConditional)
		sb.WriteString(" : ")
		printExpr(sb, e.Else, PrecConditional)

	case *Unary:
		sb.WriteString(e.Op.String())
		printExpr(sb, e.Operand, PrecUnary)

	case *Binary:
		prec := e.Op.Precedence()

		printExpr(sb, e.Left, prec)
		sb.WriteByte(' ')
		sb.WriteString(e.Op.String())
		sb.WriteByte(' ')
		printExpr(sb, e.Right, prec+1)
	}

	if wrap {
		sb.WriteByte(')')
	}
}

// quote renders s as a string literal the lexer reads back unchanged.
func quote(s string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}
