package lang

// Program is a parsed source file: a sequence of top-level statements.
type Program struct {
	Source     string
	Statements []Stmt
}

// Stmt is a top-level statement. The set of statements is closed: only
// [*LetStmt] and [*EffectStmt] implement it.
type Stmt interface {
	Pos() Position
	stmtNode()
}

// LetStmt binds Name to the lazily evaluated Value.
type LetStmt struct {
	Value   Expr
	Name    string
	NamePos Position
	At      Position
}

// Effect identifies the side effect performed by an [EffectStmt].
type Effect int

const (
	EffectPrint   Effect = iota // console.log
	EffectInspect               // inspect.expanded
)

func (e Effect) String() string {
	switch e {
	case EffectPrint:
		return "console.log"
	case EffectInspect:
		return "inspect.expanded"
	default:
		return "unknown"
	}
}

// EffectStmt is a console.log or inspect.expanded call.
type EffectStmt struct {
	Arg    Expr
	At     Position
	Effect Effect
}

func (s *LetStmt) Pos() Position    { return s.At }
func (s *EffectStmt) Pos() Position { return s.At }

func (*LetStmt) stmtNode()    {}
func (*EffectStmt) stmtNode() {}

// Expr is an expression node. The set of expressions is closed: only the node
// types declared in this file implement it.
type Expr interface {
	Pos() Position
	exprNode()
}

// Operator is a unary or binary operator.
type Operator int

const (
	OpOr Operator = iota
	OpAnd
	OpEq
	OpNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNot
	OpNeg
)

var operatorNames = [...]string{
	OpOr:        "||",
	OpAnd:       "&&",
	OpEq:        "===",
	OpNotEq:     "!==",
	OpLess:      "<",
	OpLessEq:    "<=",
	OpGreater:   ">",
	OpGreaterEq: ">=",
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpMod:       "%",
	OpNot:       "!",
	OpNeg:       "-",
}

func (op Operator) String() string { return operatorNames[op] }

// Precedence levels of the grammar, loosest first.
const (
	PrecConditional    = 0
	PrecOr             = 1
	PrecAnd            = 2
	PrecEquality       = 3
	PrecRelational     = 4
	PrecAdditive       = 5
	PrecMultiplicative = 6
	PrecUnary          = 7
	PrecPrimary        = 10
)

// Precedence returns the grammar level the operator belongs to.
func (op Operator) Precedence() int {
	switch op {
	case OpOr:
		return PrecOr
	case OpAnd:
		return PrecAnd
	case OpEq, OpNotEq:
		return PrecEquality
	case OpLess, OpLessEq, OpGreater, OpGreaterEq:
		return PrecRelational
	case OpAdd, OpSub:
		return PrecAdditive
	case OpMul, OpDiv, OpMod:
		return PrecMultiplicative
	default:
		return PrecUnary
	}
}

type (
	// Conditional is cond ? Then : Else.
	Conditional struct {
		Cond, Then, Else Expr
		At               Position
	}

	// Binary is a binary operator application. Op determines which grammar
	// level (logical, equality, relational, additive, multiplicative) the
	// node belongs to.
	Binary struct {
		Left, Right Expr
		At          Position
		Op          Operator
	}

	// Unary is a prefix ! or - application.
	Unary struct {
		Operand Expr
		At      Position
		Op      Operator
	}

	NumberLit struct {
		At    Position
		Value float64
	}

	StringLit struct {
		Value string
		At    Position
	}

	BoolLit struct {
		At    Position
		Value bool
	}

	// Ident is a reference to a bound name.
	Ident struct {
		Name string
		At   Position
	}

	// Paren is a parenthesized expression as written in source.
	Paren struct {
		Inner Expr
		At    Position
	}

	// Arrow is a single-parameter function literal Param => Body.
	Arrow struct {
		Body  Expr
		Param string
		At    Position
	}

	// Call applies Callee to a single argument.
	Call struct {
		Callee, Arg Expr
		At          Position
	}
)

func (e *Conditional) Pos() Position { return e.At }
func (e *Binary) Pos() Position      { return e.At }
func (e *Unary) Pos() Position       { return e.At }
func (e *NumberLit) Pos() Position   { return e.At }
func (e *StringLit) Pos() Position   { return e.At }
func (e *BoolLit) Pos() Position     { return e.At }
func (e *Ident) Pos() Position       { return e.At }
func (e *Paren) Pos() Position       { return e.At }
func (e *Arrow) Pos() Position       { return e.At }
func (e *Call) Pos() Position        { return e.At }

func (*Conditional) exprNode() {}
func (*Binary) exprNode()      {}
func (*Unary) exprNode()       {}
func (*NumberLit) exprNode()   {}
func (*StringLit) exprNode()   {}
func (*BoolLit) exprNode()     {}
func (*Ident) exprNode()       {}
func (*Paren) exprNode()       {}
func (*Arrow) exprNode()       {}
func (*Call) exprNode()        {}

// precedence returns the grammar level of an expression node.
func precedence(e Expr) int {
	switch e := e.(type) {
	case *Conditional, *Arrow:
		return PrecConditional
	case *Binary:
		return e.Op.Precedence()
	case *Unary:
		return PrecUnary
	case *Paren:
		return precedence(e.Inner)
	default:
		return PrecPrimary
	}
}
