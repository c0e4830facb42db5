package lang

import (
	"fmt"
	"log/slog"
	"strconv"
)

// TokenType identifies the lexical class of a [Token].
type TokenType int

const (
	TokenEOF TokenType = iota

	TokenNumber
	TokenString
	TokenIdent

	// Keywords.
	TokenLet
	TokenTrue
	TokenFalse
	TokenConsoleLog
	TokenInspectExpanded

	// Operators and punctuation.
	TokenAssign    // =
	TokenArrow     // =>
	TokenLParen    // (
	TokenRParen    // )
	TokenSemicolon // ;
	TokenQuestion  // ?
	TokenColon     // :
	TokenOr        // ||
	TokenAnd       // &&
	TokenEq        // ===
	TokenNotEq     // !==
	TokenLess      // <
	TokenLessEq    // <=
	TokenGreater   // >
	TokenGreaterEq // >=
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenPercent   // %
	TokenBang      // !
)

var tokenNames = [...]string{
	TokenEOF:             "EOF",
	TokenNumber:          "NUMBER",
	TokenString:          "STRING",
	TokenIdent:           "IDENTIFIER",
	TokenLet:             "let",
	TokenTrue:            "true",
	TokenFalse:           "false",
	TokenConsoleLog:      "console.log",
	TokenInspectExpanded: "inspect.expanded",
	TokenAssign:          "=",
	TokenArrow:           "=>",
	TokenLParen:          "(",
	TokenRParen:          ")",
	TokenSemicolon:       ";",
	TokenQuestion:        "?",
	TokenColon:           ":",
	TokenOr:              "||",
	TokenAnd:             "&&",
	TokenEq:              "===",
	TokenNotEq:           "!==",
	TokenLess:            "<",
	TokenLessEq:          "<=",
	TokenGreater:         ">",
	TokenGreaterEq:       ">=",
	TokenPlus:            "+",
	TokenMinus:           "-",
	TokenStar:            "*",
	TokenSlash:           "/",
	TokenPercent:         "%",
	TokenBang:            "!",
}

// String returns the source spelling of operators and keywords, or the class
// name of literal and identifier tokens.
func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}

	return "TokenType(" + strconv.Itoa(int(t)) + ")"
}

// Position is a location in source text.
// Line and Column are 1-based; Offset is a 0-based byte offset.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LogValue implements [slog.LogValuer].
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// Token is a single lexeme.
//
// Text holds the identifier name or the decoded string literal, and Number
// holds the value of numeric literals.
type Token struct {
	Text   string
	Number float64
	Pos    Position
	Type   TokenType
}

// String returns a short human-readable form used in parse errors.
func (t Token) String() string {
	switch t.Type {
	case TokenNumber:
		return FormatNumber(t.Number)
	case TokenString:
		return strconv.Quote(t.Text)
	case TokenIdent:
		return t.Text
	case TokenEOF:
		return "end of input"
	default:
		return t.Type.String()
	}
}

// keywords maps reserved identifier-shaped words to their token type.
var keywords = map[string]TokenType{
	"let":   TokenLet,
	"true":  TokenTrue,
	"false": TokenFalse,
}
