package lang

import (
	"context"
	"io"
	"log/slog"
)

// ParseReader parses a program from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString tokenizes and parses source into a [Program].
func ParseString(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	o.logger.TraceContext(ctx, "tokenize complete",
		slog.Int("token_count", len(tokens)))

	prog, err := Parse(tokens)
	if err != nil {
		return nil, attachSource(err, source)
	}

	prog.Source = source

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("statement_count", len(prog.Statements)))

	return prog, nil
}

// ParseExpr parses source as a single expression, optionally followed by a
// semicolon.
func ParseExpr(source string) (Expr, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}

	expr, err := p.parseExpr()
	if err == nil {
		p.accept(TokenSemicolon)

		if !p.check(TokenEOF) {
			err = p.unexpected()
		}
	}

	if err != nil {
		return nil, attachSource(err, source)
	}

	return expr, nil
}

// Parse builds a [Program] from a token sequence produced by [Tokenize].
//
// Failures are returned as *[Error] of kind [KindParse].
func Parse(tokens []Token) (*Program, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		tokens = append(tokens[:len(tokens):len(tokens)], Token{Type: TokenEOF})
	}

	p := &parser{tokens: tokens}

	return p.parseProgram()
}

// parser holds the parser state.
type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) parseProgram() (*Program, error) {
	prog := new(Program)

	for !p.check(TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)
	}

	return prog, nil
}

// parseStatement parses: let IDENT = expr ; | effect ( expr ) ;.
func (p *parser) parseStatement() (Stmt, error) {
	tok := p.peek()

	switch tok.Type {
	case TokenLet:
		p.next()

		name, err := p.expect(TokenIdent, ErrExpectedIdent)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenAssign, ErrExpectedAssign); err != nil {
			return nil, err
		}

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenSemicolon, ErrExpectedSemicolon); err != nil {
			return nil, err
		}

		return &LetStmt{
			Value:   value,
			Name:    name.Text,
			NamePos: name.Pos,
			At:      tok.Pos,
		}, nil

	case TokenConsoleLog, TokenInspectExpanded:
		p.next()

		if _, err := p.expect(TokenLParen, ErrExpectedLParen); err != nil {
			return nil, err
		}

		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRParen, ErrExpectedRParen); err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenSemicolon, ErrExpectedSemicolon); err != nil {
			return nil, err
		}

		effect := EffectPrint
		if tok.Type == TokenInspectExpanded {
			effect = EffectInspect
		}

		return &EffectStmt{Arg: arg, At: tok.Pos, Effect: effect}, nil

	default:
		return nil, p.unexpected()
	}
}

func (p *parser) parseExpr() (Expr, error) {
	return p.parseConditional()
}

// parseConditional parses: or ( ? expr : expr )?.
func (p *parser) parseConditional() (Expr, error) {
	cond, err := p.parseBinary(PrecOr)
	if err != nil {
		return nil, err
	}

	q, ok := p.accept(TokenQuestion)
	if !ok {
		return cond, nil
	}

	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenColon, ErrExpectedColon); err != nil {
		return nil, err
	}

	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &Conditional{Cond: cond, Then: then, Else: els, At: q.Pos}, nil
}

// binaryLevels lists the operators accepted at each left-associative level.
var binaryLevels = map[int]map[TokenType]Operator{
	PrecOr:  {TokenOr: OpOr},
	PrecAnd: {TokenAnd: OpAnd},
	PrecEquality: {
		TokenEq:    OpEq,
		TokenNotEq: OpNotEq,
	},
	PrecRelational: {
		TokenLess:      OpLess,
		TokenLessEq:    OpLessEq,
		TokenGreater:   OpGreater,
		TokenGreaterEq: OpGreaterEq,
	},
	PrecAdditive: {
		TokenPlus:  OpAdd,
		TokenMinus: OpSub,
	},
	PrecMultiplicative: {
		TokenStar:    OpMul,
		TokenSlash:   OpDiv,
		TokenPercent: OpMod,
	},
}

// parseBinary parses the left-associative level prec and everything tighter.
func (p *parser) parseBinary(prec int) (Expr, error) {
	if prec > PrecMultiplicative {
		return p.parseUnary()
	}

	left, err := p.parseBinary(prec + 1)
	if err != nil {
		return nil, err
	}

	ops := binaryLevels[prec]

	for {
		tok := p.peek()

		op, ok := ops[tok.Type]
		if !ok {
			return left, nil
		}

		p.next()

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}

		left = &Binary{Left: left, Right: right, At: tok.Pos, Op: op}
	}
}

// parseUnary parses: ( ! | - ) unary | postfix.
func (p *parser) parseUnary() (Expr, error) {
	tok := p.peek()

	var op Operator

	switch tok.Type {
	case TokenBang:
		op = OpNot
	case TokenMinus:
		op = OpNeg
	default:
		return p.parsePostfix()
	}

	p.next()

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &Unary{Operand: operand, At: tok.Pos, Op: op}, nil
}

// parsePostfix parses: primary ( "(" expr ")" )*.
func (p *parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.check(TokenLParen) {
		p.next()

		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRParen, ErrExpectedRParen); err != nil {
			return nil, err
		}

		expr = &Call{Callee: expr, Arg: arg, At: expr.Pos()}
	}

	return expr, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()

	switch tok.Type {
	case TokenNumber:
		p.next()

		return &NumberLit{At: tok.Pos, Value: tok.Number}, nil

	case TokenString:
		p.next()

		return &StringLit{Value: tok.Text, At: tok.Pos}, nil

	case TokenTrue, TokenFalse:
		p.next()

		return &BoolLit{At: tok.Pos, Value: tok.Type == TokenTrue}, nil

	case TokenIdent:
		p.next()

		if p.check(TokenArrow) {
			p.next()

			return p.parseArrowBody(tok)
		}

		return &Ident{Name: tok.Text, At: tok.Pos}, nil

	case TokenLParen:
		// (x) => body
		if p.peekAt(1).Type == TokenIdent &&
			p.peekAt(2).Type == TokenRParen &&
			p.peekAt(3).Type == TokenArrow {
			p.next()
			param := p.next()
			p.next()
			p.next()

			arrow, err := p.parseArrowBody(param)
			if err != nil {
				return nil, err
			}

			arrow.(*Arrow).At = tok.Pos

			return arrow, nil
		}

		p.next()

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRParen, ErrExpectedRParen); err != nil {
			return nil, err
		}

		return &Paren{Inner: inner, At: tok.Pos}, nil

	default:
		return nil, p.unexpected()
	}
}

func (p *parser) parseArrowBody(param Token) (Expr, error) {
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &Arrow{Body: body, Param: param.Text, At: param.Pos}, nil
}

func (p *parser) peek() Token { return p.peekAt(0) }

// peekAt returns the token n positions ahead, or the final EOF token.
func (p *parser) peekAt(n int) Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}

	return p.tokens[len(p.tokens)-1]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return tok
}

func (p *parser) check(typ TokenType) bool {
	return p.peek().Type == typ
}

func (p *parser) accept(typ TokenType) (Token, bool) {
	if !p.check(typ) {
		return Token{}, false
	}

	return p.next(), true
}

func (p *parser) expect(typ TokenType, sentinel *Error) (Token, error) {
	tok, ok := p.accept(typ)
	if !ok {
		found := p.peek()

		return Token{}, sentinel.
			At(found.Pos).
			With(slog.String("found", found.String()))
	}

	return tok, nil
}

func (p *parser) unexpected() error {
	found := p.peek()

	return ErrUnexpectedToken.
		At(found.Pos).
		Detail("%s", found).
		With(slog.String("found", found.String()))
}
