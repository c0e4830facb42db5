package lang

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, source string) *Program {
	t.Helper()

	prog, err := ParseString(context.Background(), source)
	require.NoError(t, err)

	return prog
}

func mustParseExpr(t *testing.T, source string) Expr {
	t.Helper()

	expr, err := ParseExpr(source)
	require.NoError(t, err)

	return expr
}

// sexpr renders the tree shape of expr with every node parenthesized.
func sexpr(expr Expr) string {
	switch e := expr.(type) {
	case *NumberLit:
		return FormatNumber(e.Value)
	case *StringLit:
		return quote(e.Value)
	case *BoolLit:
		if e.Value {
			return "true"
		}

		return "false"
	case *Ident:
		return e.Name
	case *Paren:
		return sexpr(e.Inner)
	case *Arrow:
		return "(" + e.Param + " => " + sexpr(e.Body) + ")"
	case *Call:
		return "(call " + sexpr(e.Callee) + " " + sexpr(e.Arg) + ")"
	case *Conditional:
		return "(? " + sexpr(e.Cond) + " " + sexpr(e.Then) + " " + sexpr(e.Else) + ")"
	case *Unary:
		return "(" + e.Op.String() + sexpr(e.Operand) + ")"
	case *Binary:
		return "(" + sexpr(e.Left) + " " + e.Op.String() + " " + sexpr(e.Right) + ")"
	default:
		return "?"
	}
}

func TestParseExpr_PrecedenceAndAssociativity(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2 + 3 * 4", "(2 + (3 * 4))"},
		{"(2 + 3) * 4", "((2 + 3) * 4)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 / 2", "((8 / 4) / 2)"},
		{"7 % 4 * 2", "((7 % 4) * 2)"},
		{"1 + 2 < 4", "((1 + 2) < 4)"},
		{"1 < 2 === true", "((1 < 2) === true)"},
		{"a === b !== c", "((a === b) !== c)"},
		{"a || b && c", "(a || (b && c))"},
		{"a && b || c && d", "((a && b) || (c && d))"},
		{"!a && b", "((!a) && b)"},
		{"--x", "(-(-x))"},
		{"-f(1)", "(-(call f 1))"},
		{"f(x)(y)(z)", "(call (call (call f x) y) z)"},
		{"a ? b : c ? d : e", "(? a b (? c d e))"},
		{"a ? b ? c : d : e", "(? a (? b c d) e)"},
		{"a || b ? 1 : 2", "(? (a || b) 1 2)"},
		{"x => y => x + y", "(x => (y => (x + y)))"},
		{"(x) => x", "(x => x)"},
		{"x => x ? 1 : 2", "(x => (? x 1 2))"},
		{"(x => x)(1)", "(call (x => x) 1)"},
		{"f(x => x)", "(call f (x => x))"},
		{"1 + (x => x)", "(1 + (x => x))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sexpr(mustParseExpr(t, tt.input)))
		})
	}
}

func TestParse_Statements(t *testing.T) {
	prog := mustParse(t, `
let add = x => y => x + y;
console.log(add(1)(2));
inspect.expanded(add);
`)

	require.Len(t, prog.Statements, 3)

	let, ok := prog.Statements[0].(*LetStmt)
	require.True(t, ok)
	assert.Equal(t, "add", let.Name)
	assert.Equal(t, Position{Offset: 5, Line: 2, Column: 5}, let.NamePos)
	assert.Equal(t, 2, let.Pos().Line)

	log, ok := prog.Statements[1].(*EffectStmt)
	require.True(t, ok)
	assert.Equal(t, EffectPrint, log.Effect)
	assert.Equal(t, "(call (call add 1) 2)", sexpr(log.Arg))

	inspect, ok := prog.Statements[2].(*EffectStmt)
	require.True(t, ok)
	assert.Equal(t, EffectInspect, inspect.Effect)
}

func TestParse_EmptyProgram(t *testing.T) {
	for _, source := range []string{"", "   ", "// only a comment\n"} {
		prog := mustParse(t, source)
		assert.Empty(t, prog.Statements)
		assert.Equal(t, source, prog.Source)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   *Error
		line   int
		column int
	}{
		{"bare assignment", "let x = 5; x = 10;", ErrUnexpectedToken, 1, 12},
		{"bare expression", "1 + 2;", ErrUnexpectedToken, 1, 1},
		{"missing name", "let = 5;", ErrExpectedIdent, 1, 5},
		{"keyword as name", "let true = 5;", ErrExpectedIdent, 1, 5},
		{"missing assign", "let x 5;", ErrExpectedAssign, 1, 7},
		{"missing semicolon", "let x = 5", ErrExpectedSemicolon, 1, 10},
		{"missing effect semicolon", "console.log(1)", ErrExpectedSemicolon, 1, 15},
		{"missing lparen", "console.log 1;", ErrExpectedLParen, 1, 13},
		{"missing rparen", "console.log(1;", ErrExpectedRParen, 1, 14},
		{"unclosed group", "let x = (1 + 2;", ErrExpectedRParen, 1, 15},
		{"missing colon", "let x = a ? b;", ErrExpectedColon, 1, 14},
		{"dangling operator", "let x = 1 +;", ErrUnexpectedToken, 1, 12},
		{"unclosed call", "let x = f(1;", ErrExpectedRParen, 1, 12},
		{"second line", "let x = 1;\nlet y = ;", ErrUnexpectedToken, 2, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.want)

			e, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, KindParse, e.Kind())
			assert.Equal(t, tt.line, e.Line(), "line")
			assert.Equal(t, tt.column, e.Column(), "column")
			assert.Equal(t, tt.input, e.Source())
		})
	}
}

func TestParse_ErrorNamesFoundToken(t *testing.T) {
	_, err := ParseString(context.Background(), "let x = 5; x = 10;")
	require.Error(t, err)

	e, _ := AsError(err)
	assert.Equal(t, "unexpected token: x", e.Message())
	assert.Equal(t, "unexpected token: x (line 1, column 12)", e.Error())
}

func TestParse_LexErrorPropagates(t *testing.T) {
	_, err := ParseString(context.Background(), `let s = "open;`)
	require.ErrorIs(t, err, ErrUnterminatedString)
}

func TestParseExpr_TrailingInput(t *testing.T) {
	_, err := ParseExpr("1 + 2 3")
	require.ErrorIs(t, err, ErrUnexpectedToken)

	expr, err := ParseExpr("1 + 2;")
	require.NoError(t, err)
	assert.Equal(t, "(1 + 2)", sexpr(expr))
}

func TestParseReader(t *testing.T) {
	prog, err := ParseReader(context.Background(),
		strings.NewReader("console.log(1);"))
	require.NoError(t, err)
	assert.Len(t, prog.Statements, 1)
	assert.Equal(t, "console.log(1);", prog.Source)
}

func TestPrint_MinimalParentheses(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"((1))", "1"},
		{"(2 + 3) * 4", "(2 + 3) * 4"},
		{"2 + (3 * 4)", "2 + 3 * 4"},
		{"(1 - 2) - 3", "1 - 2 - 3"},
		{"1 - (2 - 3)", "1 - (2 - 3)"},
		{"-(1 + 2)", "-(1 + 2)"},
		{"!(a && b)", "!(a && b)"},
		{"(f)(x)", "f(x)"},
		{"(x => x)(1)", "(x => x)(1)"},
		{"(a ? b : c) ? d : e", "(a ? b : c) ? d : e"},
		{"a ? (b ? c : d) : e", "a ? b ? c : d : e"},
		{"(x) => (y) => x(y)", "x => y => x(y)"},
		{"f(a + b)(c ? d : e)", "f(a + b)(c ? d : e)"},
		{`"a\"b" + "\n"`, `"a\"b" + "\n"`},
		{"1.5 * 2", "1.5 * 2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Print(mustParseExpr(t, tt.input))
			assert.Equal(t, tt.want, got)

			// The printed text must parse back to the same tree.
			assert.Equal(t,
				sexpr(mustParseExpr(t, tt.input)),
				sexpr(mustParseExpr(t, got)))
		})
	}
}

func TestProgram_Format(t *testing.T) {
	prog := mustParse(t, `let  f = (x)=>(x+1) ;console.log( f(2) * (3) );
inspect.expanded(f);`)

	var sb strings.Builder
	require.NoError(t, prog.Format(context.Background(), &sb))

	assert.Equal(t,
		"let f = x => x + 1;\nconsole.log(f(2) * 3);\ninspect.expanded(f);\n",
		sb.String())
}
