package parser

import "strings"

// Node is any AST node.
type Node interface {
	String() string
}

// Schema is a parsed schema.prisma document.
type Schema struct {
	Datasources []*Datasource
	Generators  []*Generator
	Models      []*Model
	Enums       []*Enum
}

type Datasource struct {
	Name   string
	Fields []*Field
}

type Generator struct {
	Name   string
	Fields []*Field
}

// Model is a `model` block.
type Model struct {
	Name       string
	Doc        []string // /// lines above the block
	Fields     []*ModelField
	Attributes []*Attribute // @@attributes
}

// ModelField is one field line of a model.
type ModelField struct {
	Name       string
	Doc        []string // /// lines above or trailing the field
	Type       *FieldType
	Attributes []*Attribute // @attributes
}

// FieldType is the declared type of a field.
type FieldType struct {
	Name             string // String, Int, a model or enum name
	IsArray          bool   // Type[]
	IsOptional       bool   // Type?
	IsUnsupported    bool   // Unsupported("...")
	UnsupportedValue string
}

type Enum struct {
	Name   string
	Doc    []string
	Values []*EnumValue
}

type EnumValue struct {
	Name       string
	Attributes []*Attribute
}

// Attribute is @name(args) or @@name(args). Dotted names such as db.Uuid
// are kept joined.
type Attribute struct {
	Name      string
	Arguments []*AttributeArgument
}

// AttributeArgument is a positional or named argument.
type AttributeArgument struct {
	Name  string      // empty for positional arguments
	Value interface{} // string, []interface{}, or map with "function" and "args"
}

// Field is a key = value pair in a datasource or generator block.
type Field struct {
	Name  string
	Value interface{}
}

// Model returns the model called name, or nil.
func (s *Schema) Model(name string) *Model {
	for _, m := range s.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Enum returns the enum called name, or nil.
func (s *Schema) Enum(name string) *Enum {
	for _, e := range s.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Field returns the field called name, or nil.
func (m *Model) Field(name string) *ModelField {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Attribute returns the first @@attribute called name, or nil.
func (m *Model) Attribute(name string) *Attribute {
	for _, a := range m.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Attribute returns the first @attribute called name, or nil.
func (f *ModelField) Attribute(name string) *Attribute {
	for _, a := range f.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// HasAttribute reports whether the field carries @name.
func (f *ModelField) HasAttribute(name string) bool {
	return f.Attribute(name) != nil
}

// Arg returns the named argument, falling back to the positional argument
// at index pos when pos >= 0.
func (a *Attribute) Arg(name string, pos int) (interface{}, bool) {
	positional := 0
	for _, arg := range a.Arguments {
		if arg.Name == name {
			return arg.Value, true
		}
		if arg.Name == "" {
			if positional == pos {
				return arg.Value, true
			}
			positional++
		}
	}
	return nil, false
}

// StringList returns the argument as a list of identifiers.
func (a *Attribute) StringList(name string, pos int) []string {
	v, ok := a.Arg(name, pos)
	if !ok {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// StringArg returns the argument as a string.
func (a *Attribute) StringArg(name string, pos int) string {
	v, _ := a.Arg(name, pos)
	s, _ := v.(string)
	return s
}

func (s *Schema) String() string {
	var sb strings.Builder
	sb.WriteString("Schema{\n")
	for _, ds := range s.Datasources {
		sb.WriteString("  " + ds.String() + "\n")
	}
	for _, gen := range s.Generators {
		sb.WriteString("  " + gen.String() + "\n")
	}
	for _, model := range s.Models {
		sb.WriteString("  " + model.String() + "\n")
	}
	for _, enum := range s.Enums {
		sb.WriteString("  " + enum.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (d *Datasource) String() string {
	return "Datasource(" + d.Name + ")"
}

func (g *Generator) String() string {
	return "Generator(" + g.Name + ")"
}

func (m *Model) String() string {
	return "Model(" + m.Name + ")"
}

func (e *Enum) String() string {
	return "Enum(" + e.Name + ")"
}
