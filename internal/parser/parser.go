package parser

import (
	"fmt"
)

// Parser builds the AST from a token stream. It keeps going after errors
// so one pass reports as many problems as possible.
type Parser struct {
	lexer     *Lexer
	errors    []string
	curToken  Token
	peekToken Token
	doc       []string // pending /// lines
}

func NewParser(lexer *Lexer) *Parser {
	p := &Parser{
		lexer:  lexer,
		errors: []string{},
	}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the syntax errors found so far.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *Parser) expectToken(t TokenType) bool {
	if p.curToken.Type == t {
		return true
	}
	p.errorf("expected %s, found %s at line %d, column %d", t, p.curToken.Type, p.curToken.Line, p.curToken.Column)
	return false
}

// takeDoc returns and clears the pending doc lines.
func (p *Parser) takeDoc() []string {
	doc := p.doc
	p.doc = nil
	return doc
}

// ParseSchema parses the whole document.
func (p *Parser) ParseSchema() *Schema {
	schema := &Schema{
		Datasources: []*Datasource{},
		Generators:  []*Generator{},
		Models:      []*Model{},
		Enums:       []*Enum{},
	}

	for p.curToken.Type != TokenEOF {
		switch p.curToken.Type {
		case TokenDocComment:
			p.doc = append(p.doc, p.curToken.Literal)
			p.nextToken()
		case TokenDatasource:
			p.takeDoc()
			if ds := p.parseDatasource(); ds != nil {
				schema.Datasources = append(schema.Datasources, ds)
			}
		case TokenGenerator:
			p.takeDoc()
			if gen := p.parseGenerator(); gen != nil {
				schema.Generators = append(schema.Generators, gen)
			}
		case TokenModel:
			doc := p.takeDoc()
			if model := p.parseModel(); model != nil {
				model.Doc = doc
				schema.Models = append(schema.Models, model)
			}
		case TokenEnum:
			doc := p.takeDoc()
			if enum := p.parseEnum(); enum != nil {
				enum.Doc = doc
				schema.Enums = append(schema.Enums, enum)
			}
		case TokenIllegal, TokenWhitespace, TokenNewline:
			p.nextToken()
		default:
			p.errorf("unexpected token %s at line %d, column %d", p.curToken.Type, p.curToken.Line, p.curToken.Column)
			p.takeDoc()
			p.nextToken()
		}
	}

	return schema
}

// parseBlockHeader consumes `keyword Name {` and returns Name.
func (p *Parser) parseBlockHeader(keyword TokenType, what string) (string, bool) {
	if !p.expectToken(keyword) {
		return "", false
	}
	p.nextToken()

	if p.curToken.Type != TokenIdent {
		p.errorf("expected %s name at line %d", what, p.curToken.Line)
		return "", false
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expectToken(TokenLBrace) {
		return "", false
	}
	p.nextToken()
	return name, true
}

// closeBlock consumes the closing brace, reporting a missing one.
func (p *Parser) closeBlock() {
	if p.curToken.Type == TokenRBrace {
		p.nextToken()
	} else if p.curToken.Type != TokenEOF {
		p.errorf("expected }, found %s at line %d", p.curToken.Type, p.curToken.Line)
	}
}

// parseKeyValues reads `key = value` lines until the closing brace.
func (p *Parser) parseKeyValues() []*Field {
	fields := []*Field{}
	for p.curToken.Type != TokenRBrace && p.curToken.Type != TokenEOF {
		if p.curToken.Type == TokenIdent {
			if field := p.parseField(); field != nil {
				fields = append(fields, field)
			}
		} else {
			p.nextToken()
		}
	}
	p.closeBlock()
	return fields
}

func (p *Parser) parseDatasource() *Datasource {
	name, ok := p.parseBlockHeader(TokenDatasource, "datasource")
	if !ok {
		return nil
	}
	return &Datasource{Name: name, Fields: p.parseKeyValues()}
}

func (p *Parser) parseGenerator() *Generator {
	name, ok := p.parseBlockHeader(TokenGenerator, "generator")
	if !ok {
		return nil
	}
	return &Generator{Name: name, Fields: p.parseKeyValues()}
}

// parseModel parses a model block. Doc comments above a field attach to it;
// a doc comment on the same line as a field attaches to that field.
func (p *Parser) parseModel() *Model {
	name, ok := p.parseBlockHeader(TokenModel, "model")
	if !ok {
		return nil
	}
	model := &Model{
		Name:       name,
		Fields:     []*ModelField{},
		Attributes: []*Attribute{},
	}

	var last *ModelField
	lastLine := 0
	for p.curToken.Type != TokenRBrace && p.curToken.Type != TokenEOF {
		switch p.curToken.Type {
		case TokenDocComment:
			if last != nil && p.curToken.Line == lastLine {
				last.Doc = append(last.Doc, p.curToken.Literal)
			} else {
				p.doc = append(p.doc, p.curToken.Literal)
			}
			p.nextToken()
		case TokenAtAt:
			p.nextToken()
			if attr := p.parseAttribute(); attr != nil {
				model.Attributes = append(model.Attributes, attr)
			}
		case TokenIdent, TokenTypeKeyword, TokenEnum, TokenModel:
			// keywords are valid field names
			line := p.curToken.Line
			doc := p.takeDoc()
			if field := p.parseModelField(); field != nil {
				field.Doc = doc
				model.Fields = append(model.Fields, field)
				last, lastLine = field, line
			}
		default:
			p.nextToken()
		}
	}
	p.takeDoc()
	p.closeBlock()

	return model
}

func (p *Parser) parseModelField() *ModelField {
	field := &ModelField{
		Name:       p.curToken.Literal,
		Attributes: []*Attribute{},
	}
	p.nextToken()

	field.Type = p.parseFieldType()

	for p.curToken.Type == TokenAt {
		p.nextToken()
		if attr := p.parseAttribute(); attr != nil {
			field.Attributes = append(field.Attributes, attr)
		}
	}

	return field
}

// parseFieldType parses Type, Type[], Type? and Unsupported("...").
func (p *Parser) parseFieldType() *FieldType {
	fieldType := &FieldType{}

	if p.curToken.Type != TokenIdent {
		p.errorf("invalid field type at line %d", p.curToken.Line)
		return nil
	}
	if p.curToken.Literal == "Unsupported" {
		fieldType.IsUnsupported = true
		p.nextToken()
		if p.curToken.Type == TokenLParen {
			p.nextToken()
			if p.curToken.Type == TokenString {
				fieldType.UnsupportedValue = p.curToken.Literal
				p.nextToken()
			}
			if !p.expectToken(TokenRParen) {
				return nil
			}
			p.nextToken()
		}
	} else {
		fieldType.Name = p.curToken.Literal
		p.nextToken()
	}

	if p.curToken.Type == TokenLBracket {
		p.nextToken()
		if p.curToken.Type == TokenRBracket {
			fieldType.IsArray = true
			p.nextToken()
		}
	}

	if p.curToken.Type == TokenQuestion {
		fieldType.IsOptional = true
		p.nextToken()
	}

	return fieldType
}

func (p *Parser) parseEnum() *Enum {
	name, ok := p.parseBlockHeader(TokenEnum, "enum")
	if !ok {
		return nil
	}
	enum := &Enum{
		Name:   name,
		Values: []*EnumValue{},
	}

	for p.curToken.Type != TokenRBrace && p.curToken.Type != TokenEOF {
		if p.curToken.Type != TokenIdent {
			p.nextToken()
			continue
		}
		value := &EnumValue{
			Name:       p.curToken.Literal,
			Attributes: []*Attribute{},
		}
		p.nextToken()
		for p.curToken.Type == TokenAt {
			p.nextToken()
			if attr := p.parseAttribute(); attr != nil {
				value.Attributes = append(value.Attributes, attr)
			}
		}
		enum.Values = append(enum.Values, value)
	}
	p.closeBlock()

	return enum
}

// parseAttribute parses the part after @ or @@: a possibly dotted name
// (db.Uuid) and an optional argument list.
func (p *Parser) parseAttribute() *Attribute {
	attr := &Attribute{
		Arguments: []*AttributeArgument{},
	}

	if p.curToken.Type != TokenIdent {
		p.errorf("expected attribute name at line %d", p.curToken.Line)
		return nil
	}
	attr.Name = p.curToken.Literal
	p.nextToken()

	for p.curToken.Type == TokenDot {
		p.nextToken()
		if p.curToken.Type == TokenIdent {
			attr.Name = attr.Name + "." + p.curToken.Literal
			p.nextToken()
		}
	}

	if p.curToken.Type == TokenLParen {
		p.nextToken()
		for p.curToken.Type != TokenRParen && p.curToken.Type != TokenEOF {
			if arg := p.parseAttributeArgument(); arg != nil {
				attr.Arguments = append(attr.Arguments, arg)
			}
			if p.curToken.Type == TokenComma {
				p.nextToken()
			}
		}
		if !p.expectToken(TokenRParen) {
			return nil
		}
		p.nextToken()
	}

	return attr
}

func (p *Parser) parseAttributeArgument() *AttributeArgument {
	arg := &AttributeArgument{}

	// name: value or name = value
	if p.curToken.Type == TokenIdent && (p.peekToken.Type == TokenEqual || p.peekToken.Type == TokenColon) {
		arg.Name = p.curToken.Literal
		p.nextToken()
		p.nextToken()
	}
	arg.Value = p.parseValue()

	return arg
}

// parseValue parses a literal, a list or a function call such as now() or
// env("DATABASE_URL"). Function calls become {"function": name, "args": [...]}.
func (p *Parser) parseValue() interface{} {
	switch p.curToken.Type {
	case TokenString, TokenInt, TokenFloat:
		val := p.curToken.Literal
		p.nextToken()
		return val
	case TokenBoolean:
		val := p.curToken.Literal == "true"
		p.nextToken()
		return val
	case TokenLBracket:
		p.nextToken()
		values := []interface{}{}
		for p.curToken.Type != TokenRBracket && p.curToken.Type != TokenEOF {
			if val := p.parseValue(); val != nil {
				values = append(values, val)
			}
			if p.curToken.Type == TokenComma {
				p.nextToken()
			}
		}
		if p.curToken.Type == TokenRBracket {
			p.nextToken()
		}
		return values
	case TokenIdent, TokenTypeKeyword, TokenModel, TokenEnum:
		ident := p.curToken.Literal
		p.nextToken()
		if p.curToken.Type != TokenLParen {
			return ident
		}
		p.nextToken()
		args := []interface{}{}
		for p.curToken.Type != TokenRParen && p.curToken.Type != TokenEOF {
			args = append(args, p.parseValue())
			if p.curToken.Type == TokenComma {
				p.nextToken()
			}
		}
		if !p.expectToken(TokenRParen) {
			return nil
		}
		p.nextToken()
		return map[string]interface{}{
			"function": ident,
			"args":     args,
		}
	default:
		p.nextToken()
		return nil
	}
}

func (p *Parser) parseField() *Field {
	field := &Field{Name: p.curToken.Literal}
	p.nextToken()

	if !p.expectToken(TokenEqual) {
		return nil
	}
	p.nextToken()

	field.Value = p.parseValue()
	return field
}
