package inputs

import (
	"github.com/carlosnayan/prisma-go-inputs/catalog"
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

// defineArgs registers the argument object of every operation on m.
func (r *Registry) defineArgs(m *catalog.Model) {
	ref := func(b *schema.Builder, kind Kind) schema.Schema {
		return b.Ref(Name(m.Name, kind))
	}
	either := func(b *schema.Builder, checked, unchecked Kind) schema.Schema {
		return schema.Union(ref(b, checked), ref(b, unchecked))
	}
	define := func(kind Kind, projected bool, build func(b *schema.Builder) []schema.Field) {
		name := Name(m.Name, kind)
		r.arena.Define(name, func(b *schema.Builder) schema.Schema {
			var fields []schema.Field
			if projected {
				fields = r.projectionArgs(b, m)
			}
			o := schema.Object(name, append(fields, build(b)...)...)
			if projected {
				o = o.Refine(selectOrInclude)
			}
			return o
		})
	}

	window := func(b *schema.Builder) []schema.Field {
		return []schema.Field{
			schema.Optional("cursor", ref(b, WhereUnique)),
			schema.Optional("take", schema.Int()),
			schema.Optional("skip", schema.Int().Min(0)),
		}
	}
	find := func(b *schema.Builder) []schema.Field {
		fields := []schema.Field{
			schema.Optional("where", ref(b, Where)),
			schema.Optional("orderBy", listOf(ref(b, OrderByWithRelation))),
		}
		fields = append(fields, window(b)...)
		return append(fields, schema.Optional("distinct", listOf(ref(b, ScalarFieldEnum))))
	}

	define(FindUniqueArgs, true, func(b *schema.Builder) []schema.Field {
		return []schema.Field{schema.Required("where", ref(b, WhereUnique))}
	})
	define(FindFirstArgs, true, find)
	define(FindManyArgs, true, find)

	define(CreateArgs, true, func(b *schema.Builder) []schema.Field {
		return []schema.Field{schema.Required("data", either(b, CreateInput, UncheckedCreateInput))}
	})
	define(CreateManyArgs, false, func(b *schema.Builder) []schema.Field {
		return []schema.Field{
			schema.Required("data", listOf(ref(b, CreateManyInput))),
			schema.Optional("skipDuplicates", schema.Bool()),
		}
	})
	define(UpdateArgs, true, func(b *schema.Builder) []schema.Field {
		return []schema.Field{
			schema.Required("data", either(b, UpdateInput, UncheckedUpdateInput)),
			schema.Required("where", ref(b, WhereUnique)),
		}
	})
	define(UpdateManyArgs, false, func(b *schema.Builder) []schema.Field {
		return []schema.Field{
			schema.Required("data", either(b, UpdateManyMutationInput, UncheckedUpdateManyInput)),
			schema.Optional("where", ref(b, Where)),
		}
	})
	define(UpsertArgs, true, func(b *schema.Builder) []schema.Field {
		return []schema.Field{
			schema.Required("where", ref(b, WhereUnique)),
			schema.Required("create", either(b, CreateInput, UncheckedCreateInput)),
			schema.Required("update", either(b, UpdateInput, UncheckedUpdateInput)),
		}
	})
	define(DeleteArgs, true, func(b *schema.Builder) []schema.Field {
		return []schema.Field{schema.Required("where", ref(b, WhereUnique))}
	})
	define(DeleteManyArgs, false, func(b *schema.Builder) []schema.Field {
		return []schema.Field{schema.Optional("where", ref(b, Where))}
	})

	define(AggregateArgs, false, func(b *schema.Builder) []schema.Field {
		fields := []schema.Field{
			schema.Optional("where", ref(b, Where)),
			schema.Optional("orderBy", listOf(ref(b, OrderByWithRelation))),
		}
		fields = append(fields, window(b)...)
		return append(fields, r.aggregateSelection(b, m)...)
	})
	define(GroupByArgs, false, func(b *schema.Builder) []schema.Field {
		fields := []schema.Field{
			schema.Optional("where", ref(b, Where)),
			schema.Optional("orderBy", listOf(ref(b, OrderByWithAggregation))),
			schema.Required("by", listOf(ref(b, ScalarFieldEnum))),
			schema.Optional("having", ref(b, ScalarWhereWithAggregates)),
			schema.Optional("take", schema.Int()),
			schema.Optional("skip", schema.Int().Min(0)),
		}
		return append(fields, r.aggregateSelection(b, m)...)
	})
}
