// Package catalog describes the entities an input grammar is derived from:
// their scalar fields, enums, relations and unique keys. A catalogue is
// built programmatically or loaded from a schema.prisma file, and is
// immutable once Link succeeds.
package catalog

import (
	"sort"
	"strings"

	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
)

// ScalarType is a built-in Prisma scalar type.
type ScalarType string

const (
	String   ScalarType = "String"
	Int      ScalarType = "Int"
	BigInt   ScalarType = "BigInt"
	Float    ScalarType = "Float"
	Decimal  ScalarType = "Decimal"
	Boolean  ScalarType = "Boolean"
	DateTime ScalarType = "DateTime"
	Json     ScalarType = "Json"
	Bytes    ScalarType = "Bytes"
)

// Numeric reports whether the type supports _avg and _sum.
func (t ScalarType) Numeric() bool {
	switch t {
	case Int, BigInt, Float, Decimal:
		return true
	}
	return false
}

// Orderable reports whether the type supports lt/gt and _min/_max.
func (t ScalarType) Orderable() bool {
	switch t {
	case Json:
		return false
	}
	return true
}

func isScalarType(name string) bool {
	switch ScalarType(name) {
	case String, Int, BigInt, Float, Decimal, Boolean, DateTime, Json, Bytes:
		return true
	}
	return false
}

// Kind classifies a field.
type Kind int

const (
	KindScalar Kind = iota
	KindEnum
	KindRelation
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindRelation:
		return "relation"
	default:
		return "scalar"
	}
}

// Format is a value format enforced on string fields in write positions
// and on unique identifiers.
type Format int

const (
	FormatNone Format = iota
	FormatUUID
	FormatCUID
	FormatEmail
)

// Field is one field of a model.
type Field struct {
	Name string
	Kind Kind
	// Type is the scalar type name, the enum name or the target model.
	Type       string
	List       bool
	Optional   bool
	HasDefault bool
	IsID       bool
	IsUnique   bool
	UpdatedAt  bool
	Format     Format
	Relation   *Relation
}

// Scalar returns the scalar type; enum and relation fields return "".
func (f *Field) Scalar() ScalarType {
	if f.Kind != KindScalar {
		return ""
	}
	return ScalarType(f.Type)
}

// IsRelation reports whether the field points to another model.
func (f *Field) IsRelation() bool {
	return f.Kind == KindRelation
}

// ToMany reports a list relation.
func (f *Field) ToMany() bool {
	return f.Kind == KindRelation && f.List
}

// Owning reports whether this end of the relation stores the foreign key.
func (f *Field) Owning() bool {
	return f.Relation != nil && len(f.Relation.Fields) > 0
}

// RequiredOnCreate reports whether a create input must supply the field.
func (f *Field) RequiredOnCreate() bool {
	return !f.Optional && !f.List && !f.HasDefault && !f.UpdatedAt
}

// Relation holds the relation side of a field.
type Relation struct {
	// Name is the @relation name; empty when the pair is unambiguous.
	Name       string
	Target     string
	Fields     []string
	References []string
	// Back is the opposite field on Target, set by Link.
	Back string
}

// CompoundKey is a @@id or @@unique over more than one field.
type CompoundKey struct {
	Name    string
	Fields  []string
	Primary bool
}

// Property is the WhereUnique property name: the key's name, or the field
// names joined by underscores.
func (k CompoundKey) Property() string {
	if k.Name != "" {
		return k.Name
	}
	return strings.Join(k.Fields, "_")
}

// Model is one entity.
type Model struct {
	Name   string
	Fields []*Field
	Keys   []CompoundKey

	index map[string]*Field
}

// Field returns the field called name, or nil.
func (m *Model) Field(name string) *Field {
	return m.index[name]
}

// Scalars returns scalar and enum fields in declaration order.
func (m *Model) Scalars() []*Field {
	var out []*Field
	for _, f := range m.Fields {
		if f.Kind != KindRelation {
			out = append(out, f)
		}
	}
	return out
}

// Relations returns relation fields in declaration order.
func (m *Model) Relations() []*Field {
	var out []*Field
	for _, f := range m.Fields {
		if f.Kind == KindRelation {
			out = append(out, f)
		}
	}
	return out
}

// HasToMany reports whether any relation of the model is a list.
func (m *Model) HasToMany() bool {
	for _, f := range m.Fields {
		if f.ToMany() {
			return true
		}
	}
	return false
}

// ForeignKey returns the owning relation that stores scalar field name, or nil.
func (m *Model) ForeignKey(name string) *Field {
	for _, f := range m.Fields {
		if !f.Owning() {
			continue
		}
		for _, fk := range f.Relation.Fields {
			if fk == name {
				return f
			}
		}
	}
	return nil
}

// UniqueFields returns the fields that identify a row on their own.
func (m *Model) UniqueFields() []*Field {
	var out []*Field
	for _, f := range m.Fields {
		if f.Kind != KindRelation && (f.IsID || f.IsUnique) {
			out = append(out, f)
		}
	}
	return out
}

// IsKeyPart reports whether name belongs to a unique identifier.
func (m *Model) IsKeyPart(name string) bool {
	if f := m.Field(name); f != nil && (f.IsID || f.IsUnique) {
		return true
	}
	for _, k := range m.Keys {
		for _, kf := range k.Fields {
			if kf == name {
				return true
			}
		}
	}
	return false
}

// Enum is a named set of values.
type Enum struct {
	Name   string
	Values []string
}

// Catalog is the set of models and enums the grammar is derived from.
type Catalog struct {
	models []*Model
	enums  []*Enum
	byName map[string]*Model
	enumBy map[string]*Enum
	linked bool
}

func New() *Catalog {
	return &Catalog{byName: make(map[string]*Model), enumBy: make(map[string]*Enum)}
}

// Model returns the model called name, or nil.
func (c *Catalog) Model(name string) *Model {
	return c.byName[name]
}

// Models returns models in declaration order.
func (c *Catalog) Models() []*Model {
	return c.models
}

// Enum returns the enum called name, or nil.
func (c *Catalog) Enum(name string) *Enum {
	return c.enumBy[name]
}

// Enums returns enums sorted by name.
func (c *Catalog) Enums() []*Enum {
	out := make([]*Enum, len(c.enums))
	copy(out, c.enums)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Linked reports whether Link succeeded.
func (c *Catalog) Linked() bool {
	return c.linked
}

func invalid(format string, args ...interface{}) error {
	return perrors.Newf(perrors.ErrInvalidCatalog, format, args...)
}
