package lang

import (
	"math"
	"strconv"
	"strings"
)

// ValueType identifies the dynamic type of a [Value].
type ValueType int

const (
	TypeNumber ValueType = iota
	TypeString
	TypeBoolean
	TypeFunction
	TypeThunk
)

func (t ValueType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeFunction:
		return "function"
	case TypeThunk:
		return "thunk"
	default:
		return "unknown"
	}
}

// Value is a runtime value. The set of values is closed: [Number], [String],
// [Boolean], [*Function], and [*Thunk].
type Value interface {
	Type() ValueType
	valueNode()
}

type (
	Number  float64
	String  string
	Boolean bool

	// Function is a closure over the environment its arrow was evaluated in.
	Function struct {
		Body    Expr
		Closure *Env
		Param   string
	}

	// Thunk is a suspended evaluation of Expr in Env whose result is memoized
	// on first force.
	Thunk struct {
		Expr Expr
		Env  *Env
		memo Value
		busy bool
	}
)

func (Number) Type() ValueType    { return TypeNumber }
func (String) Type() ValueType    { return TypeString }
func (Boolean) Type() ValueType   { return TypeBoolean }
func (*Function) Type() ValueType { return TypeFunction }
func (*Thunk) Type() ValueType    { return TypeThunk }

func (Number) valueNode()    {}
func (String) valueNode()    {}
func (Boolean) valueNode()   {}
func (*Function) valueNode() {}
func (*Thunk) valueNode()    {}

// NewThunk returns an unevaluated thunk over expr in env.
func NewThunk(expr Expr, env *Env) *Thunk {
	return &Thunk{Expr: expr, Env: env}
}

// Memo returns the memoized result of the thunk, if it has been forced.
func (t *Thunk) Memo() (Value, bool) {
	return t.memo, t.memo != nil
}

// memoize fills the memo cell. The cell is write-once.
func (t *Thunk) memoize(v Value) {
	if t.memo != nil {
		panic("lang: thunk memo cell written twice")
	}

	t.memo = v
}

// Placeholder text for values without a textual form.
const (
	FunctionText = "[Function]"
	ThunkText    = "[Unevaluated Thunk]"
)

// Display returns the textual form of v used by string concatenation and by
// default output.
func Display(v Value) string {
	switch v := v.(type) {
	case Number:
		return FormatNumber(float64(v))
	case String:
		return string(v)
	case Boolean:
		return strconv.FormatBool(bool(v))
	case *Function:
		return FunctionText
	case *Thunk:
		return ThunkText
	default:
		return ""
	}
}

// FormatNumber formats f the way JavaScript's Number#toString does: integral
// values have no fraction, and magnitudes outside [1e-6, 1e21) use exponent
// notation.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)

		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")

		return mant + "e" + sign + digits
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Native converts a forced value to its Go equivalent: float64, string, bool,
// or the placeholder text for functions and thunks.
func Native(v Value) any {
	switch v := v.(type) {
	case Number:
		return float64(v)
	case String:
		return string(v)
	case Boolean:
		return bool(v)
	default:
		return Display(v)
	}
}
