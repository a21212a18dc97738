package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Names
	TokenName    // x, two, f'
	TokenBuiltin // SUCC, ADD, AS_NAT

	// Keywords
	TokenLet  // let
	TokenPeek // peek_num, peek_bool, peek_list

	// Symbols
	TokenLambda     // \ or λ
	TokenDot        // .
	TokenEqual      // =
	TokenSemicolon  // ;
	TokenParenOpen  // (
	TokenParenClose // )
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenName:
		return "(name)"
	case TokenBuiltin:
		return "(builtin)"
	case TokenLet:
		return "let"
	case TokenPeek:
		return "(peek)"
	case TokenLambda:
		return "\\"
	case TokenDot:
		return "."
	case TokenEqual:
		return "="
	case TokenSemicolon:
		return ";"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	default:
		return "(unknown)"
	}
}

// Token represents a lexical token.
type Token struct {
	Type     TokenType // Type of the token
	Value    string    // Literal value of the token
	Position int       // Starting byte offset in the input string
}

// symbols maps single-character symbols to token types.
var symbols = [...]TokenType{
	'\\': TokenLambda,
	'.':  TokenDot,
	'=':  TokenEqual,
	';':  TokenSemicolon,
	'(':  TokenParenOpen,
	')':  TokenParenClose,
}

const symbolCount = rune(len(symbols))

// lookupSymbol returns the token type for a single-character symbol.
// Returns 0 if the rune is not a valid symbol.
func lookupSymbol(r rune) TokenType {
	if r == 'λ' {
		return TokenLambda
	}
	if r < 0 || r >= symbolCount {
		return 0
	}
	return symbols[r]
}

// lookupKeyword returns the token type for a keyword.
// Returns 0 if the string is not a recognized keyword.
func lookupKeyword(s string) TokenType {
	switch s {
	case "let":
		return TokenLet
	case "peek_num", "peek_bool", "peek_list":
		return TokenPeek
	default:
		return 0
	}
}

// isBuiltinName reports whether s is spelled like a builtin: at least two
// characters, an upper-case letter followed by upper-case letters, digits or
// underscores. Single capitals such as F remain variables.
func isBuiltinName(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case i > 0 && (r == '_' || isDigit(r)):
		default:
			return false
		}
	}
	return len(s) >= 2
}
