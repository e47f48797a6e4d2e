// Package filters defines the predicate grammars of a Where input: scalar,
// enum, list and Json filters with their nested and aggregate variants.
//
// Every filter is a named definition in a schema.Arena. The not operator
// refers to the nested filter of the same type by name, so the grammar is
// self-referential without eager recursion.
package filters

import (
	"github.com/carlosnayan/prisma-go-inputs/catalog"
	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
	"github.com/carlosnayan/prisma-go-inputs/internal/limits"
	"github.com/carlosnayan/prisma-go-inputs/jsonnull"
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

// Variant selects one of the four shapes defined per type and nullability.
type Variant int

const (
	Plain Variant = iota
	Nested
	WithAggregates
	NestedWithAggregates
)

func (v Variant) nested() Variant {
	switch v {
	case Plain:
		return Nested
	case WithAggregates:
		return NestedWithAggregates
	}
	return v
}

func (v Variant) isNested() bool {
	return v == Nested || v == NestedWithAggregates
}

func (v Variant) aggregates() bool {
	return v == WithAggregates || v == NestedWithAggregates
}

// QueryMode is the name of the string comparison mode enum.
const QueryMode = "QueryMode"

// Operators by the type class that owns them. A key listed here but not
// accepted by a given filter is an operator type mismatch rather than an
// unknown key.
var operators = map[string]bool{
	"equals": true, "in": true, "notIn": true, "not": true,
	"lt": true, "lte": true, "gt": true, "gte": true,
	"contains": true, "startsWith": true, "endsWith": true, "mode": true,
	"has": true, "hasEvery": true, "hasSome": true, "isEmpty": true,
	"path": true, "string_contains": true, "string_starts_with": true, "string_ends_with": true,
	"array_contains": true, "array_starts_with": true, "array_ends_with": true,
	"_count": true, "_min": true, "_max": true, "_avg": true, "_sum": true,
}

// Type is a filterable field type: a scalar type or an enum.
type Type struct {
	Scalar catalog.ScalarType
	Enum   *catalog.Enum
}

// Label is the type part of a filter name: String, Int, Bool, EnumRole.
func (t Type) Label() string {
	if t.Enum != nil {
		return "Enum" + t.Enum.Name
	}
	if t.Scalar == catalog.Boolean {
		return "Bool"
	}
	return string(t.Scalar)
}

func (t Type) hasIn() bool {
	return t.Enum != nil || t.Scalar != catalog.Boolean
}

func (t Type) ordered() bool {
	if t.Enum != nil {
		return false
	}
	switch t.Scalar {
	case catalog.Boolean, catalog.Bytes, catalog.Json:
		return false
	}
	return true
}

func (t Type) minMax() bool {
	return t.Enum != nil || t.Scalar.Orderable()
}

func (t Type) numeric() bool {
	return t.Enum == nil && t.Scalar.Numeric()
}

// Operand returns the schema of a single value of the type.
func (t Type) Operand() schema.Schema {
	if t.Enum != nil {
		return schema.Enum(t.Enum.Name, t.Enum.Values...)
	}
	switch t.Scalar {
	case catalog.Int:
		return schema.Int()
	case catalog.BigInt:
		return schema.BigInt()
	case catalog.Float:
		return schema.Float()
	case catalog.Decimal:
		return schema.Decimal()
	case catalog.Boolean:
		return schema.Bool()
	case catalog.DateTime:
		return schema.DateTime()
	case catalog.Bytes:
		return schema.Bytes()
	case catalog.Json:
		return schema.JSONValue()
	default:
		return schema.String()
	}
}

// Name returns the arena name of a filter, for example
// NestedStringNullableWithAggregatesFilter.
func Name(t Type, nullable bool, v Variant) string {
	name := ""
	if v.isNested() {
		name = "Nested"
	}
	name += t.Label()
	if nullable {
		name += "Nullable"
	}
	if v.aggregates() {
		name += "WithAggregates"
	}
	return name + "Filter"
}

// ListName returns the arena name of the filter for a list of t.
func ListName(t Type) string {
	return t.Label() + "NullableListFilter"
}

// Grammar defines and hands out the filters of one catalogue.
type Grammar struct {
	arena   *schema.Arena
	catalog *catalog.Catalog
}

// Define registers every filter for the scalar types and the enums of cat.
func Define(arena *schema.Arena, cat *catalog.Catalog) *Grammar {
	g := &Grammar{arena: arena, catalog: cat}

	arena.Define(QueryMode, func(*schema.Builder) schema.Schema {
		return schema.Enum(QueryMode, "default", "insensitive")
	})

	var types []Type
	for _, s := range []catalog.ScalarType{
		catalog.String, catalog.Int, catalog.BigInt, catalog.Float, catalog.Decimal,
		catalog.Boolean, catalog.DateTime, catalog.Bytes,
	} {
		types = append(types, Type{Scalar: s})
	}
	for _, e := range cat.Enums() {
		types = append(types, Type{Enum: e})
	}

	for _, t := range types {
		for _, nullable := range []bool{false, true} {
			for _, v := range []Variant{Plain, Nested, WithAggregates, NestedWithAggregates} {
				arena.Define(Name(t, nullable, v), g.scalarFilter(t, nullable, v))
			}
		}
		arena.Define(ListName(t), g.listFilter(t))
	}

	jsonType := Type{Scalar: catalog.Json}
	for _, nullable := range []bool{false, true} {
		arena.Define(Name(jsonType, nullable, Plain), g.jsonFilter(nullable, Plain))
		arena.Define(Name(jsonType, nullable, WithAggregates), g.jsonFilter(nullable, WithAggregates))
	}
	arena.Define(ListName(jsonType), g.listFilter(jsonType))

	return g
}

// TypeOf returns the filter type of a scalar or enum field.
func (g *Grammar) TypeOf(f *catalog.Field) Type {
	if f.Kind == catalog.KindEnum {
		return Type{Enum: g.catalog.Enum(f.Type)}
	}
	return Type{Scalar: f.Scalar()}
}

// Filter returns a lazy reference to the filter for field f.
func (g *Grammar) Filter(f *catalog.Field, v Variant) schema.Schema {
	t := g.TypeOf(f)
	if f.List {
		return g.arena.Ref(ListName(t))
	}
	return g.arena.Ref(Name(t, f.Optional, v))
}

// WhereField is what a Where input accepts for field f: its filter or a
// raw value as shorthand for equals. Nullable fields also accept null.
// Lists and Json accept their filter only.
func (g *Grammar) WhereField(f *catalog.Field) schema.Schema {
	return g.field(f, Plain)
}

// AggregateWhereField is WhereField for ScalarWhereWithAggregates.
func (g *Grammar) AggregateWhereField(f *catalog.Field) schema.Schema {
	return g.field(f, WithAggregates)
}

func (g *Grammar) field(f *catalog.Field, v Variant) schema.Schema {
	filter := g.Filter(f, v)
	if f.List || f.Scalar() == catalog.Json {
		return filter
	}
	var s schema.Schema = schema.Union(filter, g.TypeOf(f).Operand())
	if f.Optional {
		s = schema.Nullable(s)
	}
	return s
}

func (g *Grammar) scalarFilter(t Type, nullable bool, v Variant) schema.BuildFunc {
	name := Name(t, nullable, v)
	return func(b *schema.Builder) schema.Schema {
		operand := t.Operand()
		orNull := func(s schema.Schema) schema.Schema {
			if nullable {
				return schema.Nullable(s)
			}
			return s
		}

		fields := []schema.Field{schema.Optional("equals", orNull(operand))}
		if t.hasIn() {
			fields = append(fields,
				schema.Optional("in", orNull(schema.Array(operand))),
				schema.Optional("notIn", orNull(schema.Array(operand))),
			)
		}
		if t.ordered() {
			for _, op := range []string{"lt", "lte", "gt", "gte"} {
				fields = append(fields, schema.Optional(op, operand))
			}
		}
		if t.Enum == nil && t.Scalar == catalog.String {
			for _, op := range []string{"contains", "startsWith", "endsWith"} {
				fields = append(fields, schema.Optional(op, operand))
			}
			if !v.isNested() {
				fields = append(fields, schema.Optional("mode", b.Ref(QueryMode)))
			}
		}
		fields = append(fields, schema.Optional("not", orNull(schema.Union(operand, b.Ref(Name(t, nullable, v.nested()))))))

		if v.aggregates() {
			fields = append(fields, schema.Optional("_count", b.Ref(Name(Type{Scalar: catalog.Int}, nullable, Nested))))
			if t.minMax() {
				fields = append(fields,
					schema.Optional("_min", b.Ref(Name(t, nullable, Nested))),
					schema.Optional("_max", b.Ref(Name(t, nullable, Nested))),
				)
			}
			if t.numeric() {
				avg := Type{Scalar: catalog.Float}
				if t.Scalar == catalog.Decimal {
					avg = t
				}
				fields = append(fields,
					schema.Optional("_avg", b.Ref(Name(avg, nullable, Nested))),
					schema.Optional("_sum", b.Ref(Name(t, nullable, Nested))),
				)
			}
		}

		return schema.Object(name, fields...).OnUnknownKey(mismatch(t.Label()))
	}
}

func (g *Grammar) listFilter(t Type) schema.BuildFunc {
	name := ListName(t)
	return func(b *schema.Builder) schema.Schema {
		operand := t.Operand()
		return schema.Object(name,
			schema.Optional("equals", schema.Nullable(schema.Array(operand))),
			schema.Optional("has", schema.Nullable(operand)),
			schema.Optional("hasEvery", schema.Array(operand)),
			schema.Optional("hasSome", schema.Array(operand)),
			schema.Optional("isEmpty", schema.Bool()),
		).OnUnknownKey(mismatch(t.Label() + " list"))
	}
}

func (g *Grammar) jsonFilter(nullable bool, v Variant) schema.BuildFunc {
	name := Name(Type{Scalar: catalog.Json}, nullable, v)
	return func(b *schema.Builder) schema.Schema {
		operand := jsonnull.FilterOperand()
		value := schema.JSONValue()
		fields := []schema.Field{
			schema.Optional("equals", operand),
			schema.Optional("path", schema.Union(schema.String(), schema.Array(schema.String()).Max(limits.MaxPathSegments))),
			schema.Optional("mode", b.Ref(QueryMode)),
			schema.Optional("string_contains", schema.String()),
			schema.Optional("string_starts_with", schema.String()),
			schema.Optional("string_ends_with", schema.String()),
			schema.Optional("array_contains", schema.Nullable(value)),
			schema.Optional("array_starts_with", schema.Nullable(value)),
			schema.Optional("array_ends_with", schema.Nullable(value)),
			schema.Optional("lt", value),
			schema.Optional("lte", value),
			schema.Optional("gt", value),
			schema.Optional("gte", value),
			schema.Optional("not", operand),
		}
		if v.aggregates() {
			fields = append(fields, schema.Optional("_count", b.Ref(Name(Type{Scalar: catalog.Int}, nullable, Nested))))
		}
		return schema.Object(name, fields...).OnUnknownKey(mismatch("Json"))
	}
}

// mismatch reports operators that exist for another type class.
func mismatch(label string) schema.UnknownKeyHook {
	return func(key string) *perrors.PrismaError {
		if !operators[key] {
			return nil
		}
		return perrors.Newf(perrors.ErrOperatorTypeMismatch, "operator %q is not valid for %s fields", key, label)
	}
}
