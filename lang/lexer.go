package lang

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Operator spellings ordered longest first so that the lexer always takes the
// longest match.
var (
	operators3 = map[string]TokenType{
		"===": TokenEq,
		"!==": TokenNotEq,
	}
	operators2 = map[string]TokenType{
		"&&": TokenAnd,
		"||": TokenOr,
		"<=": TokenLessEq,
		">=": TokenGreaterEq,
		"=>": TokenArrow,
	}
	operators1 = map[byte]TokenType{
		'=': TokenAssign,
		'(': TokenLParen,
		')': TokenRParen,
		'!': TokenBang,
		'-': TokenMinus,
		'+': TokenPlus,
		'*': TokenStar,
		'/': TokenSlash,
		'%': TokenPercent,
		'?': TokenQuestion,
		':': TokenColon,
		';': TokenSemicolon,
		'<': TokenLess,
		'>': TokenGreater,
	}
	keywordLiterals = []struct {
		text string
		typ  TokenType
	}{
		{"console.log", TokenConsoleLog},
		{"inspect.expanded", TokenInspectExpanded},
	}
)

// Tokenize splits source into tokens terminated by a [TokenEOF] token.
//
// Failures are returned as *[Error] of kind [KindLex] carrying source.
func Tokenize(source string) ([]Token, error) {
	lx := &lexer{
		input: []byte(source),
		line:  1,
		col:   1,
	}

	tokens, err := lx.run()
	if err != nil {
		return nil, attachSource(err, source)
	}

	return tokens, nil
}

// lexer holds the scanner state.
type lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

func (lx *lexer) run() ([]Token, error) {
	var tokens []Token

	for {
		lx.skipWhitespaceAndComments()

		if lx.eof() {
			tokens = append(tokens, Token{Type: TokenEOF, Pos: lx.position()})

			return tokens, nil
		}

		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
	}
}

// next scans the token starting at the current (non-space) position.
func (lx *lexer) next() (Token, error) {
	pos := lx.position()

	if typ, ok := operators3[lx.peekN(3)]; ok {
		lx.advanceN(3)

		return Token{Type: typ, Pos: pos}, nil
	}

	if typ, ok := operators2[lx.peekN(2)]; ok {
		lx.advanceN(2)

		return Token{Type: typ, Pos: pos}, nil
	}

	for _, kw := range keywordLiterals {
		if lx.peekN(len(kw.text)) == kw.text {
			lx.advanceN(len(kw.text))

			return Token{Type: kw.typ, Text: kw.text, Pos: pos}, nil
		}
	}

	if typ, ok := operators1[lx.input[lx.pos]]; ok {
		lx.advance()

		return Token{Type: typ, Pos: pos}, nil
	}

	switch r := lx.peek(); {
	case isDigit(r):
		return lx.scanNumber(pos), nil

	case isIdentStart(r):
		return lx.scanIdent(pos), nil

	case r == '"':
		return lx.scanString(pos)

	default:
		return Token{}, ErrUnexpectedCharacter.
			At(pos).
			Detail("%q", r).
			With(slog.String("char", string(r)))
	}
}

func (lx *lexer) scanNumber(pos Position) Token {
	start := lx.pos

	for isDigit(lx.peek()) {
		lx.advance()
	}

	// A dot is part of the number only when a digit follows it.
	if lx.peek() == '.' && lx.pos+1 < len(lx.input) &&
		isDigit(rune(lx.input[lx.pos+1])) {
		lx.advance()

		for isDigit(lx.peek()) {
			lx.advance()
		}
	}

	text := string(lx.input[start:lx.pos])

	// The scanned text is always a valid decimal literal.
	num, _ := strconv.ParseFloat(text, 64)

	return Token{Type: TokenNumber, Text: text, Number: num, Pos: pos}
}

func (lx *lexer) scanIdent(pos Position) Token {
	start := lx.pos

	for isIdentPart(lx.peek()) {
		lx.advance()
	}

	text := string(lx.input[start:lx.pos])

	if typ, ok := keywords[text]; ok {
		return Token{Type: typ, Text: text, Pos: pos}
	}

	return Token{Type: TokenIdent, Text: text, Pos: pos}
}

func (lx *lexer) scanString(pos Position) (Token, error) {
	lx.advance() // opening quote

	var sb strings.Builder

	for {
		if lx.eof() || lx.peek() == '\n' {
			return Token{}, ErrUnterminatedString.At(pos)
		}

		r := lx.peek()
		lx.advance()

		switch r {
		case '"':
			return Token{Type: TokenString, Text: sb.String(), Pos: pos}, nil

		case '\\':
			if lx.eof() {
				return Token{}, ErrUnterminatedString.At(pos)
			}

			esc := lx.peek()
			lx.advance()

			switch esc {
			case 'n':
				sb.WriteByte('\n')
			default:
				sb.WriteRune(esc)
			}

		default:
			sb.WriteRune(r)
		}
	}
}

func (lx *lexer) peek() rune {
	if lx.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(lx.input[lx.pos:])

	return r
}

func (lx *lexer) peekN(n int) string {
	if lx.pos+n > len(lx.input) {
		return string(lx.input[lx.pos:])
	}

	return string(lx.input[lx.pos : lx.pos+n])
}

func (lx *lexer) advance() {
	if lx.eof() {
		return
	}

	r, size := utf8.DecodeRune(lx.input[lx.pos:])

	lx.pos += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
}

func (lx *lexer) advanceN(n int) {
	for range n {
		lx.advance()
	}
}

func (lx *lexer) eof() bool {
	return lx.pos >= len(lx.input)
}

func (lx *lexer) position() Position {
	return Position{
		Offset: lx.pos,
		Line:   lx.line,
		Column: lx.col,
	}
}

func (lx *lexer) skipWhitespaceAndComments() {
	for !lx.eof() {
		switch {
		case unicode.IsSpace(lx.peek()):
			lx.advance()

		case lx.peekN(2) == "//":
			for !lx.eof() && lx.peek() != '\n' {
				lx.advance()
			}

		default:
			return
		}
	}
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isIdentPart(r rune) bool { return isIdentStart(r) || isDigit(r) }
