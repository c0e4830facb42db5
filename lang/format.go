package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in canonical surface syntax, one statement per
// line, with parentheses re-derived from operator precedence.
func (p *Program) Format(_ context.Context, w io.Writer) error {
	for _, stmt := range p.Statements {
		if _, err := fmt.Fprintln(w, FormatStmt(stmt)); err != nil {
			return err
		}
	}

	return nil
}

// FormatStmt renders a single statement in canonical surface syntax.
func FormatStmt(stmt Stmt) string {
	switch s := stmt.(type) {
	case *LetStmt:
		return "let " + s.Name + " = " + Print(s.Value) + ";"
	case *EffectStmt:
		return s.Effect.String() + "(" + Print(s.Arg) + ");"
	default:
		return ""
	}
}

// FormatJSON writes the syntax tree of the program as JSON.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return writeJSON(w, p.Tree(), indent)
}

// FormatYAML writes the syntax tree of the program as YAML.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, p.Tree(), indent)
}

// TokenView is the serialized form of a [Token].
type TokenView struct {
	Number *float64 `json:"number,omitempty" yaml:"number,omitempty"`
	Type   string   `json:"type"             yaml:"type"`
	Text   string   `json:"text,omitempty"   yaml:"text,omitempty"`
	Pos    Position `json:"pos"              yaml:"pos"`
}

// ViewTokens converts tokens to their serialized form.
func ViewTokens(tokens []Token) []TokenView {
	views := make([]TokenView, len(tokens))

	for i, tok := range tokens {
		views[i] = TokenView{Type: tok.Type.String(), Pos: tok.Pos}

		switch tok.Type {
		case TokenNumber:
			n := tok.Number
			views[i].Number = &n
		case TokenString, TokenIdent:
			views[i].Text = tok.Text
		}
	}

	return views
}

// FormatTokensJSON writes tokens as a JSON array.
func FormatTokensJSON(_ context.Context, w io.Writer, tokens []Token, indent int) error {
	return writeJSON(w, ViewTokens(tokens), indent)
}

// FormatTokensYAML writes tokens as a YAML sequence.
func FormatTokensYAML(ctx context.Context, w io.Writer, tokens []Token, indent int) error {
	return writeYAML(ctx, w, ViewTokens(tokens), indent)
}

// Node is the serialized form of a syntax tree node. Children keep source
// order: condition, then, else for conditionals; callee, argument for calls;
// left, right for binary operators.
type Node struct {
	Value    any      `json:"value,omitempty"    yaml:"value,omitempty"`
	Kind     string   `json:"kind"               yaml:"kind"`
	Op       string   `json:"op,omitempty"       yaml:"op,omitempty"`
	Name     string   `json:"name,omitempty"     yaml:"name,omitempty"`
	Children []*Node  `json:"children,omitempty" yaml:"children,omitempty"`
	Pos      Position `json:"pos"                yaml:"pos"`
}

// Tree converts the program to its serialized tree form.
func (p *Program) Tree() *Node {
	root := &Node{Kind: "program"}

	for _, stmt := range p.Statements {
		switch s := stmt.(type) {
		case *LetStmt:
			root.Children = append(root.Children, &Node{
				Kind:     "let",
				Name:     s.Name,
				Pos:      s.At,
				Children: []*Node{ExprTree(s.Value)},
			})

		case *EffectStmt:
			root.Children = append(root.Children, &Node{
				Kind:     "effect",
				Name:     s.Effect.String(),
				Pos:      s.At,
				Children: []*Node{ExprTree(s.Arg)},
			})
		}
	}

	return root
}

// ExprTree converts an expression to its serialized tree form.
func ExprTree(expr Expr) *Node {
	n := &Node{Pos: expr.Pos()}

	switch e := expr.(type) {
	case *NumberLit:
		n.Kind, n.Value = "number", e.Value
	case *StringLit:
		n.Kind, n.Value = "string", e.Value
	case *BoolLit:
		n.Kind, n.Value = "boolean", e.Value
	case *Ident:
		n.Kind, n.Name = "identifier", e.Name
	case *Paren:
		n.Kind = "paren"
		n.Children = []*Node{ExprTree(e.Inner)}
	case *Arrow:
		n.Kind, n.Name = "arrow", e.Param
		n.Children = []*Node{ExprTree(e.Body)}
	case *Call:
		n.Kind = "call"
		n.Children = []*Node{ExprTree(e.Callee), ExprTree(e.Arg)}
	case *Conditional:
		n.Kind = "conditional"
		n.Children = []*Node{ExprTree(e.Cond), ExprTree(e.Then), ExprTree(e.Else)}
	case *Unary:
		n.Kind, n.Op = "unary", e.Op.String()
		n.Children = []*Node{ExprTree(e.Operand)}
	case *Binary:
		n.Kind, n.Op = "binary", e.Op.String()
		n.Children = []*Node{ExprTree(e.Left), ExprTree(e.Right)}
	}

	return n
}

func writeJSON(w io.Writer, v any, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
