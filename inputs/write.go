package inputs

import (
	"github.com/carlosnayan/prisma-go-inputs/catalog"
	"github.com/carlosnayan/prisma-go-inputs/jsonnull"
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

// value is a single non-null value of scalar or enum field f, with the
// field's string format applied.
func (r *Registry) value(f *catalog.Field) schema.Schema {
	if f.Kind == catalog.KindScalar && f.Scalar() == catalog.String && f.Format != catalog.FormatNone {
		return schema.String().WithFormat(stringFormat(f.Format))
	}
	return r.filters.TypeOf(f).Operand()
}

func stringFormat(f catalog.Format) schema.Format {
	switch f {
	case catalog.FormatUUID:
		return schema.FormatUUID
	case catalog.FormatCUID:
		return schema.FormatCUID
	case catalog.FormatEmail:
		return schema.FormatEmail
	}
	return schema.FormatNone
}

// createValue is what a create input accepts for scalar field f.
func (r *Registry) createValue(m *catalog.Model, f *catalog.Field) schema.Schema {
	if f.List {
		element := r.value(f)
		set := schema.Object(m.Name+"Create"+f.Name+"Input", schema.Required("set", arrayOf(element)))
		return schema.Union(arrayOf(element), set)
	}
	if f.Scalar() == catalog.Json {
		return jsonnull.WriteSchema(!f.Optional)
	}
	if f.Optional {
		return schema.Nullable(r.value(f))
	}
	return r.value(f)
}

// updateValue is what an update input accepts for scalar field f: a new
// value or the field's update operations.
func (r *Registry) updateValue(m *catalog.Model, f *catalog.Field) schema.Schema {
	if f.List {
		element := r.value(f)
		ops := schema.Object(m.Name+"Update"+f.Name+"Input",
			schema.Optional("set", arrayOf(element)),
			schema.Optional("push", listOf(element)),
		)
		return schema.Union(arrayOf(element), ops)
	}
	if f.Scalar() == catalog.Json {
		return jsonnull.WriteSchema(!f.Optional)
	}

	set := r.value(f)
	if f.Optional {
		set = schema.Nullable(set)
	}
	return schema.Union(set, schema.Object(fieldUpdateName(r.filters.TypeOf(f).Label(), f.Optional), updateOperations(f, set)...))
}

// fieldUpdateName follows StringFieldUpdateOperationsInput and
// NullableIntFieldUpdateOperationsInput.
func fieldUpdateName(label string, nullable bool) string {
	if nullable {
		return "Nullable" + label + "FieldUpdateOperationsInput"
	}
	return label + "FieldUpdateOperationsInput"
}

// updateOperations: set for every type, arithmetic for numeric ones.
func updateOperations(f *catalog.Field, set schema.Schema) []schema.Field {
	fields := []schema.Field{schema.Optional("set", set)}
	if f.Kind == catalog.KindScalar && f.Scalar().Numeric() {
		operand := operandOf(f.Scalar())
		for _, op := range []string{"increment", "decrement", "multiply", "divide"} {
			fields = append(fields, schema.Optional(op, operand))
		}
	}
	return fields
}

func operandOf(t catalog.ScalarType) schema.Schema {
	switch t {
	case catalog.Int:
		return schema.Int()
	case catalog.BigInt:
		return schema.BigInt()
	case catalog.Decimal:
		return schema.Decimal()
	}
	return schema.Float()
}

// writeShape selects the fields of a create or update input.
type writeShape struct {
	update bool
	// unchecked inputs write foreign keys as scalars and leave owning
	// relations out; checked inputs do the opposite.
	unchecked bool
	// relations includes relation fields as nested writes.
	relations bool
	// without is the back relation implied by an enclosing nested write.
	without string
}

func (r *Registry) writeFields(b *schema.Builder, m *catalog.Model, w writeShape) []schema.Field {
	implied := map[string]bool{}
	if back := m.Field(w.without); back != nil && back.Owning() {
		for _, fk := range back.Relation.Fields {
			implied[fk] = true
		}
	}

	var fields []schema.Field
	for _, f := range m.Fields {
		if f.Name == w.without {
			continue
		}
		if !f.IsRelation() {
			if implied[f.Name] || (!w.unchecked && m.ForeignKey(f.Name) != nil) {
				continue
			}
			if w.update {
				fields = append(fields, schema.Optional(f.Name, r.updateValue(m, f)))
			} else if f.RequiredOnCreate() {
				fields = append(fields, schema.Required(f.Name, r.createValue(m, f)))
			} else {
				fields = append(fields, schema.Optional(f.Name, r.createValue(m, f)))
			}
			continue
		}
		if !w.relations || (w.unchecked && f.Owning()) {
			continue
		}
		nested := b.Ref(NestedName(f.Relation.Target, r.nestedWriteKind(m, f, w), f.Relation.Back))
		if !w.update && !w.unchecked && requiredRelation(m, f) {
			fields = append(fields, schema.Required(f.Name, nested))
		} else {
			fields = append(fields, schema.Optional(f.Name, nested))
		}
	}
	return fields
}

// nestedWriteKind picks the nested write input of relation f.
func (r *Registry) nestedWriteKind(m *catalog.Model, f *catalog.Field, w writeShape) NestedKind {
	switch {
	case !w.update && f.List && w.unchecked:
		return UncheckedCreateNestedManyWithout
	case !w.update && f.List:
		return CreateNestedManyWithout
	case !w.update && w.unchecked:
		return UncheckedCreateNestedOneWithout
	case !w.update:
		return CreateNestedOneWithout
	case f.List && w.unchecked:
		return UncheckedUpdateManyWithoutNested
	case f.List:
		return UpdateManyWithoutNested
	case w.unchecked:
		return UncheckedUpdateOneWithoutNested
	case requiredRelation(m, f):
		return UpdateOneRequiredWithoutNested
	}
	return UpdateOneWithoutNested
}

func (r *Registry) defineWrite(name string, m *catalog.Model, w writeShape) {
	r.arena.Define(name, func(b *schema.Builder) schema.Schema {
		return schema.Object(name, r.writeFields(b, m, w)...)
	})
}

// defineWrites registers the top level create and update inputs of m.
func (r *Registry) defineWrites(m *catalog.Model) {
	r.defineWrite(Name(m.Name, CreateInput), m, writeShape{relations: true})
	r.defineWrite(Name(m.Name, UncheckedCreateInput), m, writeShape{unchecked: true, relations: true})
	r.defineWrite(Name(m.Name, UpdateInput), m, writeShape{update: true, relations: true})
	r.defineWrite(Name(m.Name, UncheckedUpdateInput), m, writeShape{update: true, unchecked: true, relations: true})
	r.defineWrite(Name(m.Name, CreateManyInput), m, writeShape{unchecked: true})
	r.defineWrite(Name(m.Name, UpdateManyMutationInput), m, writeShape{update: true})
	r.defineWrite(Name(m.Name, UncheckedUpdateManyInput), m, writeShape{update: true, unchecked: true})
}
