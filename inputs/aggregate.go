package inputs

import (
	"github.com/carlosnayan/prisma-go-inputs/catalog"
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

// aggregate describes one aggregation: its key in aggregate and groupBy
// arguments, its selection and ordering inputs and the fields it covers.
type aggregate struct {
	key     string
	input   Kind
	orderBy Kind
	fields  []*catalog.Field
}

// aggregateKinds returns the aggregations m supports. _avg and _sum only
// exist when m has numeric columns; _min and _max when it has orderable ones.
func (r *Registry) aggregateKinds(m *catalog.Model) []aggregate {
	var numeric, orderable []*catalog.Field
	for _, f := range m.Scalars() {
		if f.List {
			continue
		}
		if f.Kind == catalog.KindEnum || f.Scalar().Orderable() {
			orderable = append(orderable, f)
		}
		if f.Kind == catalog.KindScalar && f.Scalar().Numeric() {
			numeric = append(numeric, f)
		}
	}

	out := []aggregate{{key: "_count", input: CountAggregate, orderBy: CountOrderByAggregate, fields: m.Scalars()}}
	if len(numeric) > 0 {
		out = append(out,
			aggregate{key: "_avg", input: AvgAggregate, orderBy: AvgOrderByAggregate, fields: numeric},
			aggregate{key: "_sum", input: SumAggregate, orderBy: SumOrderByAggregate, fields: numeric},
		)
	}
	if len(orderable) > 0 {
		out = append(out,
			aggregate{key: "_min", input: MinAggregate, orderBy: MinOrderByAggregate, fields: orderable},
			aggregate{key: "_max", input: MaxAggregate, orderBy: MaxOrderByAggregate, fields: orderable},
		)
	}
	return out
}

// defineAggregates registers the selection and ordering input of every
// aggregation of m.
func (r *Registry) defineAggregates(m *catalog.Model) {
	r.arena.Define(Name(m.Name, ScalarFieldEnum), func(*schema.Builder) schema.Schema {
		names := make([]string, 0, len(m.Fields))
		for _, f := range m.Scalars() {
			names = append(names, f.Name)
		}
		return schema.Enum(Name(m.Name, ScalarFieldEnum), names...)
	})

	for _, a := range r.aggregateKinds(m) {
		a := a
		selection := Name(m.Name, a.input)
		r.arena.Define(selection, func(*schema.Builder) schema.Schema {
			fields := make([]schema.Field, 0, len(a.fields)+1)
			for _, f := range a.fields {
				fields = append(fields, schema.Optional(f.Name, schema.Literal(true)))
			}
			if a.key == "_count" {
				fields = append(fields, schema.Optional("_all", schema.Literal(true)))
			}
			return schema.Object(selection, fields...)
		})

		ordering := Name(m.Name, a.orderBy)
		r.arena.Define(ordering, func(b *schema.Builder) schema.Schema {
			fields := make([]schema.Field, 0, len(a.fields))
			for _, f := range a.fields {
				fields = append(fields, schema.Optional(f.Name, b.Ref(SortOrder)))
			}
			return schema.Object(ordering, fields...)
		})
	}
}

// aggregateSelection is the _count, _avg, _sum, _min and _max keys of
// aggregate and groupBy arguments. _count also takes true for a row count.
func (r *Registry) aggregateSelection(b *schema.Builder, m *catalog.Model) []schema.Field {
	var fields []schema.Field
	for _, a := range r.aggregateKinds(m) {
		var s schema.Schema = b.Ref(Name(m.Name, a.input))
		if a.key == "_count" {
			s = schema.Union(schema.Literal(true), s)
		}
		fields = append(fields, schema.Optional(a.key, s))
	}
	return fields
}
