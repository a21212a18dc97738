package parser

import (
	"fmt"

	"github.com/sandrolain/gochurch/pkg/types"
)

// Parser implements a recursive descent parser for lambda-calculus programs.
type Parser struct {
	lexer   *Lexer
	current Token
	prev    Token
	depth   int
	opts    ParseOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...ParseOption) *Parser {
	options := ParseOptions{
		MaxDepth: 1000,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		lexer: NewLexer(input),
		opts:  options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the whole input.
//
//	program := item (';' item)* ';'?
//	item    := 'let' name '=' expr | peek expr | expr
//
// An expression item is the main expression and must come last.
func (p *Parser) Parse() (*types.Program, error) {
	program := &types.Program{}

	for p.current.Type != TokenEOF {
		if program.Main != nil {
			return nil, p.error(types.ErrSyntaxError, "The main expression must be the last item")
		}

		switch p.current.Type {
		case TokenLet:
			stmt, err := p.parseLet()
			if err != nil {
				return nil, err
			}
			program.Statements = append(program.Statements, stmt)
		case TokenPeek:
			stmt, err := p.parsePeek()
			if err != nil {
				return nil, err
			}
			program.Statements = append(program.Statements, stmt)
		default:
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			program.Main = expr
		}

		switch p.current.Type {
		case TokenSemicolon:
			p.advance()
		case TokenEOF:
		case TokenError:
			return nil, p.lexer.Error()
		default:
			return nil, p.error(types.ErrExpectedToken,
				fmt.Sprintf("Expected ; but got %s", p.current.Type.String()))
		}
	}

	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}
	return program, nil
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.prev = p.current
	p.current = p.lexer.Next()
}

// expect consumes a token of type tt or fails.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type != tt {
		return p.unexpected(fmt.Sprintf("Expected %s but got %s", tt.String(), p.current.Type.String()))
	}
	p.advance()
	return nil
}

// error creates a parser error at the current token.
func (p *Parser) error(code types.ErrorCode, message string) error {
	return &types.Error{
		Code:     code,
		Message:  message,
		Position: p.current.Position,
		Token:    p.current.Value,
	}
}

// unexpected reports the current token, preferring lexer and end-of-input
// errors over the generic message.
func (p *Parser) unexpected(message string) error {
	switch p.current.Type {
	case TokenError:
		return p.lexer.Error()
	case TokenEOF:
		return p.error(types.ErrUnexpectedEnd, "Unexpected end of expression")
	}
	if message == "" {
		message = fmt.Sprintf("Unexpected token: %s", p.current.Value)
	}
	return p.error(types.ErrExpectedToken, message)
}

// parseLet parses: 'let' name '=' expr
func (p *Parser) parseLet() (*types.LetBinding, error) {
	pos := p.current.Position
	p.advance()

	if p.current.Type != TokenName {
		return nil, p.unexpected(fmt.Sprintf("Expected binding name but got %s", p.current.Type.String()))
	}
	name := p.current.Value
	p.advance()

	if err := p.expect(TokenEqual); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &types.LetBinding{Name: name, Value: value, Position: pos}, nil
}

// parsePeek parses: peek_num expr | peek_bool expr | peek_list expr
func (p *Parser) parsePeek() (*types.PeekStatement, error) {
	pos := p.current.Position
	kind, ok := types.ParsePeekKind(p.current.Value)
	if !ok {
		return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Unknown peek: %s", p.current.Value))
	}
	p.advance()

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &types.PeekStatement{Kind: kind, Value: value, Position: pos}, nil
}

// parseExpression parses a lambda or an application.
func (p *Parser) parseExpression() (types.Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, p.error(types.ErrSyntaxError, "Expression nesting too deep")
	}

	if p.current.Type == TokenLambda {
		return p.parseLambda()
	}
	return p.parseApplication()
}

// parseLambda parses: ('\' | 'λ') name+ '.' expr
// Several names abbreviate nested lambdas: \f x.e is \f.\x.e.
func (p *Parser) parseLambda() (types.Expr, error) {
	pos := p.current.Position
	p.advance()

	var params []string
	for p.current.Type == TokenName {
		params = append(params, p.current.Value)
		p.advance()
	}
	if len(params) == 0 {
		return nil, p.unexpected(fmt.Sprintf("Expected parameter name but got %s", p.current.Type.String()))
	}

	if err := p.expect(TokenDot); err != nil {
		return nil, err
	}

	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	for i := len(params) - 1; i > 0; i-- {
		body = &types.Lambda{Param: params[i], Body: body, Position: pos}
	}
	return &types.Lambda{Param: params[0], Body: body, Position: pos}, nil
}

// parseApplication parses: atom+ lambda?
// Application is left associative; a trailing lambda extends to the end of
// the enclosing expression.
func (p *Parser) parseApplication() (types.Expr, error) {
	pos := p.current.Position
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		var arg types.Expr
		switch p.current.Type {
		case TokenName, TokenBuiltin, TokenParenOpen:
			arg, err = p.parseAtom()
		case TokenLambda:
			arg, err = p.parseExpression()
		default:
			return expr, nil
		}
		if err != nil {
			return nil, err
		}
		expr = &types.App{Func: expr, Arg: arg, Position: pos}
	}
}

// parseAtom parses: name | BUILTIN | '(' expr ')'
func (p *Parser) parseAtom() (types.Expr, error) {
	tok := p.current
	switch tok.Type {
	case TokenName:
		p.advance()
		return &types.Var{Name: tok.Value, Position: tok.Position}, nil
	case TokenBuiltin:
		p.advance()
		return &types.Builtin{Name: tok.Value, Position: tok.Position}, nil
	case TokenParenOpen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, p.unexpected("")
}
