package inputs

import (
	"github.com/carlosnayan/prisma-go-inputs/catalog"
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

// nested names the schemas of one relation as seen from its target: the
// target model written without the back relation, which the enclosing
// write implies.
type nested struct {
	r       *Registry
	owner   *catalog.Model
	field   *catalog.Field
	target  *catalog.Model
	without string
}

func (n nested) name(kind NestedKind) string {
	return NestedName(n.target.Name, kind, n.without)
}

func (n nested) ref(b *schema.Builder, kind NestedKind) schema.Schema {
	return b.Ref(n.name(kind))
}

func (n nested) model(b *schema.Builder, kind Kind) schema.Schema {
	return b.Ref(Name(n.target.Name, kind))
}

func (n nested) variant() func(v interface{}) int {
	return byVariant(uncheckedKeys(n.target, n.without))
}

// create is a checked or unchecked create of the target.
func (n nested) create(b *schema.Builder) schema.Schema {
	return schema.Switch(n.variant(), n.ref(b, CreateWithout), n.ref(b, UncheckedCreateWithout))
}

// update is a checked or unchecked update of the target.
func (n nested) update(b *schema.Builder) schema.Schema {
	return schema.Switch(n.variant(), n.ref(b, UpdateWithout), n.ref(b, UncheckedUpdateWithout))
}

func (n nested) define(kind NestedKind, build func(b *schema.Builder) []schema.Field) {
	name := n.name(kind)
	n.r.arena.Define(name, func(b *schema.Builder) schema.Schema {
		return schema.Object(name, build(b)...)
	})
}

func (n nested) defineWrite(kind NestedKind, w writeShape) {
	w.without = n.without
	n.r.defineWrite(n.name(kind), n.target, w)
}

// defineNested registers the nested write inputs relation f of m needs.
func (r *Registry) defineNested(m *catalog.Model, f *catalog.Field) {
	n := nested{r: r, owner: m, field: f, target: r.target(f), without: f.Relation.Back}

	n.defineWrite(CreateWithout, writeShape{relations: true})
	n.defineWrite(UncheckedCreateWithout, writeShape{unchecked: true, relations: true})
	n.defineWrite(UpdateWithout, writeShape{update: true, relations: true})
	n.defineWrite(UncheckedUpdateWithout, writeShape{update: true, unchecked: true, relations: true})

	n.define(CreateOrConnectWithout, func(b *schema.Builder) []schema.Field {
		return []schema.Field{
			schema.Required("where", n.model(b, WhereUnique)),
			schema.Required("create", n.create(b)),
		}
	})

	if f.List {
		n.defineToMany()
	} else {
		n.defineToOne()
	}
}

func (n nested) defineToMany() {
	backOwning := n.r.backField(n.field).Owning()

	n.define(UpsertWithWhereUniqueWithout, func(b *schema.Builder) []schema.Field {
		return []schema.Field{
			schema.Required("where", n.model(b, WhereUnique)),
			schema.Required("update", n.update(b)),
			schema.Required("create", n.create(b)),
		}
	})
	n.define(UpdateWithWhereUniqueWithout, func(b *schema.Builder) []schema.Field {
		return []schema.Field{
			schema.Required("where", n.model(b, WhereUnique)),
			schema.Required("data", n.update(b)),
		}
	})
	n.define(UpdateManyWithWhereWithout, func(b *schema.Builder) []schema.Field {
		return []schema.Field{
			schema.Required("where", n.model(b, ScalarWhere)),
			schema.Required("data", schema.Switch(n.variant(), n.model(b, UpdateManyMutationInput), n.ref(b, UncheckedUpdateManyWithout))),
		}
	})
	n.defineWrite(UncheckedUpdateManyWithout, writeShape{update: true, unchecked: true})

	// createMany needs the foreign key on the target side.
	if backOwning {
		n.defineWrite(CreateManyFor, writeShape{unchecked: true})
		n.define(CreateManyEnvelopeFor, func(b *schema.Builder) []schema.Field {
			return []schema.Field{
				schema.Required("data", listOf(n.ref(b, CreateManyFor))),
				schema.Optional("skipDuplicates", schema.Bool()),
			}
		})
	}

	create := func(b *schema.Builder) []schema.Field {
		fields := []schema.Field{
			schema.Optional("create", listOf(n.create(b))),
			schema.Optional("connectOrCreate", listOf(n.ref(b, CreateOrConnectWithout))),
		}
		if backOwning {
			fields = append(fields, schema.Optional("createMany", n.ref(b, CreateManyEnvelopeFor)))
		}
		return append(fields, schema.Optional("connect", listOf(n.model(b, WhereUnique))))
	}
	n.define(CreateNestedManyWithout, create)
	n.define(UncheckedCreateNestedManyWithout, create)

	update := func(b *schema.Builder) []schema.Field {
		unique := listOf(n.model(b, WhereUnique))
		return append(create(b),
			schema.Optional("upsert", listOf(n.ref(b, UpsertWithWhereUniqueWithout))),
			schema.Optional("set", unique),
			schema.Optional("disconnect", unique),
			schema.Optional("delete", unique),
			schema.Optional("update", listOf(n.ref(b, UpdateWithWhereUniqueWithout))),
			schema.Optional("updateMany", listOf(n.ref(b, UpdateManyWithWhereWithout))),
			schema.Optional("deleteMany", listOf(n.model(b, ScalarWhere))),
		)
	}
	n.define(UpdateManyWithoutNested, update)
	n.define(UncheckedUpdateManyWithoutNested, update)
}

func (n nested) defineToOne() {
	required := requiredRelation(n.owner, n.field)

	n.define(UpsertWithout, func(b *schema.Builder) []schema.Field {
		return []schema.Field{
			schema.Required("update", n.update(b)),
			schema.Required("create", n.create(b)),
			schema.Optional("where", n.model(b, Where)),
		}
	})
	n.define(UpdateToOneWithWhereWithout, func(b *schema.Builder) []schema.Field {
		return []schema.Field{
			schema.Optional("where", n.model(b, Where)),
			schema.Required("data", n.update(b)),
		}
	})

	create := func(b *schema.Builder) []schema.Field {
		return []schema.Field{
			schema.Optional("create", n.create(b)),
			schema.Optional("connectOrCreate", n.ref(b, CreateOrConnectWithout)),
			schema.Optional("connect", n.model(b, WhereUnique)),
		}
	}
	n.define(CreateNestedOneWithout, create)
	n.define(UncheckedCreateNestedOneWithout, create)

	update := func(b *schema.Builder) []schema.Field {
		fields := append(create(b),
			schema.Optional("upsert", n.ref(b, UpsertWithout)),
			schema.Optional("update", schema.Union(n.ref(b, UpdateToOneWithWhereWithout), n.update(b))),
		)
		// a required relation can be replaced but never left empty
		if !required {
			severed := schema.Union(schema.Bool(), n.model(b, Where))
			fields = append(fields,
				schema.Optional("disconnect", severed),
				schema.Optional("delete", severed),
			)
		}
		return fields
	}
	if required {
		n.define(UpdateOneRequiredWithoutNested, update)
	} else {
		n.define(UpdateOneWithoutNested, update)
	}
	n.define(UncheckedUpdateOneWithoutNested, update)
}
