package parser

import (
	"fmt"
	"os"
	"strings"
)

// ParseFile parses a schema.prisma file.
func ParseFile(filePath string) (*Schema, []string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read schema: %w", err)
	}

	return Parse(string(data))
}

// Parse parses and validates a schema. The returned list holds syntax and
// validation problems; err is non-nil whenever the list is not empty.
func Parse(input string) (*Schema, []string, error) {
	lexer := NewLexer(input)
	parser := NewParser(lexer)

	schema := parser.ParseSchema()

	errors := parser.Errors()
	errors = append(errors, Validate(schema)...)

	if len(errors) > 0 {
		return schema, errors, fmt.Errorf("schema has %d error(s)", len(errors))
	}

	return schema, nil, nil
}

// ParseAndValidate is Parse with the problems folded into the error.
func ParseAndValidate(input string) (*Schema, error) {
	schema, errors, err := Parse(input)
	if err != nil {
		return schema, fmt.Errorf("invalid schema:\n%s", formatErrors(errors))
	}
	return schema, nil
}

func formatErrors(errors []string) string {
	var sb strings.Builder
	for i, err := range errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err)
	}
	return sb.String()
}
