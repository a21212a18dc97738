package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/gochurch/pkg/types"
)

const eof = -1

// Lexer converts source text into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all subsequent calls.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	// skipWhitespace records unclosed comments
	if l.err != nil {
		return l.error(types.ErrCommentNotClosed, l.err.Error())
	}

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	if tt := lookupSymbol(ch); tt > 0 {
		return l.newToken(tt)
	}

	if isNameStart(ch) {
		l.backup()
		return l.scanName()
	}

	return l.error(types.ErrUnexpectedChar, fmt.Sprintf("Unexpected character %q", ch))
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanName reads an identifier, builtin or keyword from the current position.
// Names start with a letter or underscore and continue with letters, digits,
// underscores and primes.
func (l *Lexer) scanName() Token {
	l.acceptAll(isNamePart)
	t := l.newToken(TokenName)

	if tt := lookupKeyword(t.Value); tt > 0 {
		t.Type = tt
	} else if isBuiltinName(t.Value) {
		t.Type = TokenBuiltin
	}

	return t
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(code types.ErrorCode, message string) Token {
	t := l.newToken(TokenError)
	if te, ok := l.err.(*types.Error); ok {
		// keep the first error
		return Token{Type: TokenError, Value: te.Token, Position: te.Position}
	}
	l.err = &types.Error{
		Code:     code,
		Message:  message,
		Position: t.Position,
		Token:    t.Value,
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

func (l *Lexer) skipWhitespace() {
	for {
		if l.err != nil {
			return
		}

		l.acceptAll(isWhitespace)
		l.ignore()

		pos := l.current
		if !l.acceptRune('/') {
			return
		}
		if !l.acceptRune('*') {
			// a lone slash is left for Next to reject
			l.current = pos
			l.width = 0
			return
		}

		// Inside /* ... */
		for {
			ch := l.nextRune()
			if ch == eof {
				l.err = &types.Error{
					Code:     types.ErrCommentNotClosed,
					Message:  "Unclosed comment",
					Position: l.current,
				}
				return
			}
			if ch == '*' && l.acceptRune('/') {
				break
			}
		}
		l.ignore()
	}
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNameStart(r rune) bool {
	return r == '_' || (r != 'λ' && unicode.IsLetter(r))
}

func isNamePart(r rune) bool {
	return isNameStart(r) || isDigit(r) || r == '\''
}
