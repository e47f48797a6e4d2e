package inputs

import (
	"strings"

	"github.com/carlosnayan/prisma-go-inputs/catalog"
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

// defineReadPath registers the filter, unique lookup and ordering inputs
// of m.
func (r *Registry) defineReadPath(m *catalog.Model) {
	r.defineWhere(m)
	r.defineWhereUnique(m)
	r.defineScalarWhere(m, ScalarWhere, r.filters.WhereField)
	r.defineScalarWhere(m, ScalarWhereWithAggregates, r.filters.AggregateWhereField)
	r.defineRelationFilters(m)
	for _, k := range m.Keys {
		r.defineCompoundKey(m, k)
	}
	r.defineOrderBy(m)
}

// logical returns the AND, OR and NOT combinators over self. AND and NOT
// take one input or a list; OR takes a list.
func logical(self schema.Schema) []schema.Field {
	return []schema.Field{
		schema.Optional("AND", listOf(self)),
		schema.Optional("OR", arrayOf(self)),
		schema.Optional("NOT", listOf(self)),
	}
}

func (r *Registry) defineWhere(m *catalog.Model) {
	name := Name(m.Name, Where)
	r.arena.Define(name, func(b *schema.Builder) schema.Schema {
		fields := logical(b.Ref(name))
		fields = append(fields, r.whereFields(b, m)...)
		return schema.Object(name, fields...)
	})
}

// whereFields are the per-field predicates of a Where input.
func (r *Registry) whereFields(b *schema.Builder, m *catalog.Model) []schema.Field {
	var fields []schema.Field
	for _, f := range m.Fields {
		if f.IsRelation() {
			fields = append(fields, schema.Optional(f.Name, r.relationWhere(b, f)))
			continue
		}
		fields = append(fields, schema.Optional(f.Name, r.filters.WhereField(f)))
	}
	return fields
}

// relationWhere accepts a relation filter or, for to-one relations, the
// related Where input directly.
func (r *Registry) relationWhere(b *schema.Builder, f *catalog.Field) schema.Schema {
	target := f.Relation.Target
	if f.List {
		return b.Ref(Name(target, ListRelationFilter))
	}
	kind := RelationFilter
	if f.Optional {
		kind = NullableRelationFilter
	}
	var s schema.Schema = schema.Union(b.Ref(Name(target, kind)), b.Ref(Name(target, Where)))
	if f.Optional {
		s = schema.Nullable(s)
	}
	return s
}

func (r *Registry) defineRelationFilters(m *catalog.Model) {
	where := Name(m.Name, Where)

	r.arena.Define(Name(m.Name, ListRelationFilter), func(b *schema.Builder) schema.Schema {
		return schema.Object(Name(m.Name, ListRelationFilter),
			schema.Optional("every", b.Ref(where)),
			schema.Optional("some", b.Ref(where)),
			schema.Optional("none", b.Ref(where)),
		)
	})
	r.arena.Define(Name(m.Name, RelationFilter), func(b *schema.Builder) schema.Schema {
		return schema.Object(Name(m.Name, RelationFilter),
			schema.Optional("is", b.Ref(where)),
			schema.Optional("isNot", b.Ref(where)),
		)
	})
	r.arena.Define(Name(m.Name, NullableRelationFilter), func(b *schema.Builder) schema.Schema {
		return schema.Object(Name(m.Name, NullableRelationFilter),
			schema.Optional("is", schema.Nullable(b.Ref(where))),
			schema.Optional("isNot", schema.Nullable(b.Ref(where))),
		)
	})
}

// ScalarWhere and ScalarWhereWithAggregates only see scalar columns.
func (r *Registry) defineScalarWhere(m *catalog.Model, kind Kind, field func(*catalog.Field) schema.Schema) {
	name := Name(m.Name, kind)
	r.arena.Define(name, func(b *schema.Builder) schema.Schema {
		fields := logical(b.Ref(name))
		for _, f := range m.Scalars() {
			fields = append(fields, schema.Optional(f.Name, field(f)))
		}
		return schema.Object(name, fields...)
	})
}

// CompoundKeyName is the arena name of the input for compound key k.
func CompoundKeyName(m *catalog.Model, k catalog.CompoundKey) string {
	return m.Name + pascal(k.Property()) + "CompoundUniqueInput"
}

// defineCompoundKey requires every member of k; a partial key is an
// incomplete compound key rather than a plain shape error.
func (r *Registry) defineCompoundKey(m *catalog.Model, k catalog.CompoundKey) {
	name := CompoundKeyName(m, k)
	r.arena.Define(name, func(*schema.Builder) schema.Schema {
		fields := make([]schema.Field, 0, len(k.Fields))
		for _, fn := range k.Fields {
			fields = append(fields, schema.Required(fn, r.value(m.Field(fn))))
		}
		return schema.Object(name, fields...).OnMissing(schema.ErrIncompleteCompoundKey)
	})
}

// defineWhereUnique accepts the unique fields and compound keys of m as
// identifiers, plus every Where predicate on the remaining fields. At
// least one identifier must be present.
func (r *Registry) defineWhereUnique(m *catalog.Model) {
	name := Name(m.Name, WhereUnique)
	r.arena.Define(name, func(b *schema.Builder) schema.Schema {
		var identifiers []string
		fields := logical(b.Ref(Name(m.Name, Where)))

		for _, k := range m.Keys {
			fields = append(fields, schema.Optional(k.Property(), b.Ref(CompoundKeyName(m, k))))
			identifiers = append(identifiers, k.Property())
		}
		for _, f := range m.Fields {
			switch {
			case f.IsRelation():
				fields = append(fields, schema.Optional(f.Name, r.relationWhere(b, f)))
			case f.IsID || f.IsUnique:
				fields = append(fields, schema.Optional(f.Name, r.value(f)))
				identifiers = append(identifiers, f.Name)
			default:
				fields = append(fields, schema.Optional(f.Name, r.filters.WhereField(f)))
			}
		}

		return schema.Object(name, fields...).Refine(func(c *schema.Context, path schema.Path, obj map[string]interface{}) {
			for _, id := range identifiers {
				if _, ok := obj[id]; ok {
					return
				}
			}
			c.Report(path, schema.ErrShape, "%s needs at least one of: %s", name, strings.Join(identifiers, ", "))
		})
	})
}

func (r *Registry) defineOrderBy(m *catalog.Model) {
	name := Name(m.Name, OrderByWithRelation)
	r.arena.Define(name, func(b *schema.Builder) schema.Schema {
		var fields []schema.Field
		for _, f := range m.Fields {
			switch {
			case f.ToMany():
				fields = append(fields, schema.Optional(f.Name, b.Ref(Name(f.Relation.Target, OrderByRelationAggregate))))
			case f.IsRelation():
				fields = append(fields, schema.Optional(f.Name, b.Ref(Name(f.Relation.Target, OrderByWithRelation))))
			default:
				fields = append(fields, schema.Optional(f.Name, sortOrder(b, f)))
			}
		}
		return schema.Object(name, fields...)
	})

	agg := Name(m.Name, OrderByRelationAggregate)
	r.arena.Define(agg, func(b *schema.Builder) schema.Schema {
		return schema.Object(agg, schema.Optional("_count", b.Ref(SortOrder)))
	})

	withAgg := Name(m.Name, OrderByWithAggregation)
	r.arena.Define(withAgg, func(b *schema.Builder) schema.Schema {
		var fields []schema.Field
		for _, f := range m.Scalars() {
			fields = append(fields, schema.Optional(f.Name, sortOrder(b, f)))
		}
		for _, a := range r.aggregateKinds(m) {
			fields = append(fields, schema.Optional(a.key, b.Ref(Name(m.Name, a.orderBy))))
		}
		return schema.Object(withAgg, fields...)
	})
}

// sortOrder is asc or desc; nullable columns also take {sort, nulls}.
func sortOrder(b *schema.Builder, f *catalog.Field) schema.Schema {
	if f.Optional {
		return schema.Union(b.Ref(SortOrder), b.Ref(SortOrderInput))
	}
	return b.Ref(SortOrder)
}

// defineShared registers the model independent enums and inputs.
func (r *Registry) defineShared() {
	r.arena.Define(SortOrder, func(*schema.Builder) schema.Schema {
		return schema.Enum(SortOrder, "asc", "desc")
	})
	r.arena.Define(NullsOrder, func(*schema.Builder) schema.Schema {
		return schema.Enum(NullsOrder, "first", "last")
	})
	r.arena.Define(SortOrderInput, func(b *schema.Builder) schema.Schema {
		return schema.Object(SortOrderInput,
			schema.Required("sort", b.Ref(SortOrder)),
			schema.Optional("nulls", b.Ref(NullsOrder)),
		)
	})
}
