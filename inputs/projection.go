package inputs

import (
	"github.com/carlosnayan/prisma-go-inputs/catalog"
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

// defineProjection registers Select, Include and the argument objects a
// relation takes inside them.
func (r *Registry) defineProjection(m *catalog.Model) {
	hasRelations := len(m.Relations()) > 0

	sel := Name(m.Name, Select)
	r.arena.Define(sel, func(b *schema.Builder) schema.Schema {
		var fields []schema.Field
		for _, f := range m.Scalars() {
			fields = append(fields, schema.Optional(f.Name, schema.Bool()))
		}
		fields = append(fields, r.relationProjection(b, m)...)
		return schema.Object(sel, fields...)
	})

	if hasRelations {
		inc := Name(m.Name, Include)
		r.arena.Define(inc, func(b *schema.Builder) schema.Schema {
			return schema.Object(inc, r.relationProjection(b, m)...)
		})
	}

	args := Name(m.Name, DefaultArgs)
	r.arena.Define(args, func(b *schema.Builder) schema.Schema {
		return schema.Object(args, r.projectionArgs(b, m)...).Refine(selectOrInclude)
	})

	if m.HasToMany() {
		countSel := Name(m.Name, CountOutputTypeSelect)
		r.arena.Define(countSel, func(b *schema.Builder) schema.Schema {
			var fields []schema.Field
			for _, f := range m.Relations() {
				if !f.List {
					continue
				}
				countArgs := schema.Object(m.Name+"CountOutputTypeCount"+pascal(f.Name)+"Args",
					schema.Optional("where", b.Ref(Name(f.Relation.Target, Where))),
				)
				fields = append(fields, schema.Optional(f.Name, schema.Union(schema.Bool(), countArgs)))
			}
			return schema.Object(countSel, fields...)
		})

		countArgs := Name(m.Name, CountOutputTypeArgs)
		r.arena.Define(countArgs, func(b *schema.Builder) schema.Schema {
			return schema.Object(countArgs, schema.Optional("select", b.Ref(countSel)))
		})
	}
}

// relationProjection lists the relations of m as they appear in Select
// and Include: true, or the arguments of the nested read.
func (r *Registry) relationProjection(b *schema.Builder, m *catalog.Model) []schema.Field {
	var fields []schema.Field
	for _, f := range m.Relations() {
		nested := Name(f.Relation.Target, DefaultArgs)
		if f.List {
			nested = Name(f.Relation.Target, FindManyArgs)
		}
		fields = append(fields, schema.Optional(f.Name, schema.Union(schema.Bool(), b.Ref(nested))))
	}
	if m.HasToMany() {
		fields = append(fields, schema.Optional("_count", schema.Union(schema.Bool(), b.Ref(Name(m.Name, CountOutputTypeArgs)))))
	}
	return fields
}

// projectionArgs are the select and include keys of an operation.
func (r *Registry) projectionArgs(b *schema.Builder, m *catalog.Model) []schema.Field {
	fields := []schema.Field{schema.Optional("select", schema.Nullable(b.Ref(Name(m.Name, Select))))}
	if len(m.Relations()) > 0 {
		fields = append(fields, schema.Optional("include", schema.Nullable(b.Ref(Name(m.Name, Include)))))
	}
	return fields
}

func selectOrInclude(c *schema.Context, path schema.Path, obj map[string]interface{}) {
	if obj["select"] != nil && obj["include"] != nil {
		c.Report(path, schema.ErrShape, "select and include cannot be used together")
	}
}
