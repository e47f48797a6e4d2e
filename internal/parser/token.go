package parser

// TokenType is the kind of a lexed token.
type TokenType string

const (
	TokenEOF        TokenType = "EOF"
	TokenIllegal    TokenType = "ILLEGAL"
	TokenWhitespace TokenType = "WHITESPACE"
	TokenNewline    TokenType = "NEWLINE"

	// TokenDocComment is a /// line; Literal holds the trimmed text.
	TokenDocComment TokenType = "DOC"

	TokenIdent   TokenType = "IDENT"
	TokenString  TokenType = "STRING"
	TokenInt     TokenType = "INT"
	TokenFloat   TokenType = "FLOAT"
	TokenBoolean TokenType = "BOOLEAN"

	TokenAt        TokenType = "@"
	TokenAtAt      TokenType = "@@"
	TokenLParen    TokenType = "("
	TokenRParen    TokenType = ")"
	TokenLBrace    TokenType = "{"
	TokenRBrace    TokenType = "}"
	TokenLBracket  TokenType = "["
	TokenRBracket  TokenType = "]"
	TokenEqual     TokenType = "="
	TokenColon     TokenType = ":"
	TokenQuestion  TokenType = "?"
	TokenComma     TokenType = ","
	TokenSemicolon TokenType = ";"
	TokenDot       TokenType = "."

	TokenModel       TokenType = "model"
	TokenEnum        TokenType = "enum"
	TokenDatasource  TokenType = "datasource"
	TokenGenerator   TokenType = "generator"
	TokenTypeKeyword TokenType = "type"
)

// Token is one lexed token with its position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

var keywords = map[string]TokenType{
	"model":      TokenModel,
	"enum":       TokenEnum,
	"datasource": TokenDatasource,
	"generator":  TokenGenerator,
	"type":       TokenTypeKeyword,
	"true":       TokenBoolean,
	"false":      TokenBoolean,
}

// IsKeyword reports whether ident is a block keyword.
func IsKeyword(ident string) bool {
	tok, ok := keywords[ident]
	return ok && tok != TokenBoolean
}

// LookupIdent returns the token type for an identifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}
