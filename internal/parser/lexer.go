package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer splits a schema.prisma document into tokens. Plain // and /* */
// comments are skipped; /// doc comments are returned as TokenDocComment.
type Lexer struct {
	input        string
	position     int  // index of ch
	readPosition int  // index after ch
	ch           byte // 0 at EOF
	line         int
	column       int
}

func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 1,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++

	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(offset int) byte {
	if l.readPosition+offset >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition+offset]
}

func (l *Lexer) atDocComment() bool {
	return l.ch == '/' && l.peekAt(0) == '/' && l.peekAt(1) == '/' && l.peekAt(2) != '/'
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()

	tok.Line = l.line
	tok.Column = l.column

	if l.atDocComment() {
		tok.Type = TokenDocComment
		tok.Literal = l.readDocComment()
		return tok
	}

	switch l.ch {
	case '@':
		if l.peekChar() == '@' {
			l.readChar()
			tok = Token{Type: TokenAtAt, Literal: "@@", Line: tok.Line, Column: tok.Column}
		} else {
			tok = newToken(TokenAt, l.ch, tok.Line, tok.Column)
		}
	case '(':
		tok = newToken(TokenLParen, l.ch, tok.Line, tok.Column)
	case ')':
		tok = newToken(TokenRParen, l.ch, tok.Line, tok.Column)
	case '{':
		tok = newToken(TokenLBrace, l.ch, tok.Line, tok.Column)
	case '}':
		tok = newToken(TokenRBrace, l.ch, tok.Line, tok.Column)
	case '[':
		tok = newToken(TokenLBracket, l.ch, tok.Line, tok.Column)
	case ']':
		tok = newToken(TokenRBracket, l.ch, tok.Line, tok.Column)
	case '=':
		tok = newToken(TokenEqual, l.ch, tok.Line, tok.Column)
	case ':':
		tok = newToken(TokenColon, l.ch, tok.Line, tok.Column)
	case '?':
		tok = newToken(TokenQuestion, l.ch, tok.Line, tok.Column)
	case ',':
		tok = newToken(TokenComma, l.ch, tok.Line, tok.Column)
	case ';':
		tok = newToken(TokenSemicolon, l.ch, tok.Line, tok.Column)
	case '.':
		tok = newToken(TokenDot, l.ch, tok.Line, tok.Column)
	case '"':
		tok.Type = TokenString
		tok.Literal = l.readString()
		l.readChar() // closing quote
		return tok
	case '\n':
		tok = newToken(TokenNewline, l.ch, tok.Line, tok.Column)
	case 0:
		tok.Type = TokenEOF
	default:
		switch {
		case isLetter(l.ch):
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		case isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekChar())):
			tok.Type, tok.Literal = l.readNumber()
			return tok
		default:
			tok = newToken(TokenIllegal, l.ch, tok.Line, tok.Column)
		}
	}

	l.readChar()
	return tok
}

// skipWhitespace skips blanks and non-doc comments. Newlines are tokens.
func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' && !l.atDocComment() {
			l.skipLineComment()
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.skipBlockComment()
			continue
		}
		return
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func (l *Lexer) skipBlockComment() {
	l.readChar()
	l.readChar()
	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}
}

func (l *Lexer) readDocComment() string {
	start := l.position + 3
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	return strings.TrimSpace(l.input[start:l.position])
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() (TokenType, string) {
	position := l.position
	tokenType := TokenInt

	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		tokenType = TokenFloat
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return tokenType, l.input[position:l.position]
}

// readString returns the text between quotes. An unterminated string ends
// at the newline.
func (l *Lexer) readString() string {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '"' || l.ch == 0 || l.ch == '\n' {
			break
		}
		if l.ch == '\\' {
			l.readChar()
		}
	}
	return l.input[position:l.position]
}

func newToken(tokenType TokenType, ch byte, line, column int) Token {
	return Token{
		Type:    tokenType,
		Literal: string(ch),
		Line:    line,
		Column:  column,
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= utf8.RuneSelf && unicode.IsLetter(rune(ch))
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
