package condef

import "fmt"

// TokenType is the kind of a lexical token.
type TokenType int

// Token types.
const (
	TokenEOF TokenType = iota
	TokenIllegal
	TokenIdent       // bare identifier, also used for keywords
	TokenQuotedIdent // "delimited" identifier, value unescaped
	TokenLParen
	TokenRParen
	TokenComma
	TokenDot
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenIllegal:
		return "illegal character"
	case TokenIdent:
		return "identifier"
	case TokenQuotedIdent:
		return "quoted identifier"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	case TokenDot:
		return "'.'"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token is a lexical token with its byte offset.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

// Lexer tokenizes constraint definitions lazily; the parser pulls one token
// at a time so trailing clauses it does not understand are never scanned.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	err     *ParseError
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// Err returns the lexical error that produced a TokenIllegal, if any.
func (l *Lexer) Err() *ParseError {
	return l.err
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}

	pos := l.pos
	switch {
	case l.ch == 0 && l.pos >= len(l.input):
		return Token{Type: TokenEOF, Pos: pos}
	case l.ch == '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}
	case l.ch == ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}
	case l.ch == ',':
		l.readChar()
		return Token{Type: TokenComma, Literal: ",", Pos: pos}
	case l.ch == '.':
		l.readChar()
		return Token{Type: TokenDot, Literal: ".", Pos: pos}
	case l.ch == '"':
		lit, ok := l.readQuotedIdentifier()
		if !ok {
			l.err = &ParseError{Pos: pos, Message: errUnterminatedQuote}
			return Token{Type: TokenIllegal, Literal: l.input[pos:], Pos: pos}
		}
		return Token{Type: TokenQuotedIdent, Literal: lit, Pos: pos}
	case isIdentStart(l.ch):
		return Token{Type: TokenIdent, Literal: l.readIdentifier(), Pos: pos}
	default:
		ch := l.ch
		l.readChar()
		l.err = &ParseError{Pos: pos, Message: fmt.Sprintf("illegal character %q", ch)}
		return Token{Type: TokenIllegal, Literal: string(ch), Pos: pos}
	}
}

// readQuotedIdentifier reads a double-quoted identifier.
// Handles doubled double quotes as escape: "col""name" -> col"name
func (l *Lexer) readQuotedIdentifier() (string, bool) {
	l.readChar() // skip opening quote

	var result []byte
	for l.pos < len(l.input) {
		if l.ch == '"' {
			if l.peekChar() != '"' {
				l.readChar() // skip closing quote
				return string(result), true
			}
			result = append(result, '"')
			l.readChar()
			l.readChar()
			continue
		}
		result = append(result, l.ch)
		l.readChar()
	}
	return "", false
}

// readIdentifier reads a bare identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentStart(l.ch) || isDigit(l.ch) || l.ch == '$' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// isIdentStart accepts ASCII letters, underscore and any byte of a multibyte
// UTF-8 sequence.
func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
