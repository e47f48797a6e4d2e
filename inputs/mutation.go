package inputs

import (
	"fmt"

	"github.com/carlosnayan/prisma-go-inputs/catalog"
	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

// Op is a write operation.
type Op string

const (
	OpCreate     Op = "create"
	OpCreateMany Op = "createMany"
	OpUpdate     Op = "update"
	OpUpdateMany Op = "updateMany"
	OpUpsert     Op = "upsert"
)

// Ops lists the write operations in a stable order.
var Ops = []Op{OpCreate, OpCreateMany, OpUpdate, OpUpdateMany, OpUpsert}

// Variant tells how a mutation writes relations.
type Variant int

const (
	// Checked writes relations through nested operations; foreign key
	// scalars are not accepted.
	Checked Variant = iota
	// Unchecked writes foreign key scalars; owning relation fields are
	// not accepted.
	Unchecked
)

func (v Variant) String() string {
	if v == Unchecked {
		return "unchecked"
	}
	return "checked"
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// uncheckedKeys returns the keys only the unchecked writes of m accept:
// its foreign key scalars, less those implied by the back relation without.
func uncheckedKeys(m *catalog.Model, without string) map[string]bool {
	implied := map[string]bool{}
	if back := m.Field(without); back != nil && back.Owning() {
		for _, fk := range back.Relation.Fields {
			implied[fk] = true
		}
	}
	keys := map[string]bool{}
	for _, f := range m.Fields {
		if !f.IsRelation() && !implied[f.Name] && m.ForeignKey(f.Name) != nil {
			keys[f.Name] = true
		}
	}
	return keys
}

// byVariant selects the Checked or Unchecked alternative of a write before
// any of it is checked: a foreign key scalar among the keys means
// Unchecked. With within set, the keys of those members are inspected
// instead, as for an upsert's create and update.
func byVariant(keys map[string]bool, within ...string) func(v interface{}) int {
	return func(v interface{}) int {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return int(Checked)
		}
		maps := []map[string]interface{}{obj}
		if len(within) > 0 {
			maps = maps[:0]
			for _, key := range within {
				if inner, ok := obj[key].(map[string]interface{}); ok {
					maps = append(maps, inner)
				}
			}
		}
		for _, m := range maps {
			for key := range m {
				if keys[key] {
					return int(Unchecked)
				}
			}
		}
		return int(Checked)
	}
}

// Mutation is a validated write input tagged with its operation and the
// variant it matched.
type Mutation struct {
	Model   string
	Op      Op
	Variant Variant
	// Data is the normalized input for every operation except createMany.
	// For upsert it holds the create and update keys.
	Data map[string]interface{}
	// Rows holds the normalized rows of a createMany.
	Rows []map[string]interface{}
}

var writeKinds = map[Op]Kind{
	OpCreate:     "CreateWrite",
	OpCreateMany: "CreateManyWrite",
	OpUpdate:     "UpdateWrite",
	OpUpdateMany: "UpdateManyWrite",
	OpUpsert:     "UpsertWrite",
}

// tagged wraps the output of inner into a Mutation.
func tagged(model string, op Op, v Variant, inner schema.Schema) schema.Schema {
	return schema.Custom(func(c *schema.Context, path schema.Path, in interface{}) interface{} {
		out := inner.Check(c, path, in)
		m := &Mutation{Model: model, Op: op, Variant: v}
		switch o := out.(type) {
		case map[string]interface{}:
			m.Data = o
		case []interface{}:
			for _, row := range o {
				if r, ok := row.(map[string]interface{}); ok {
					m.Rows = append(m.Rows, r)
				}
			}
		}
		return m
	})
}

// defineMutations registers one schema per write operation that accepts
// either variant of the input and tags the result. The variants never mix
// within one input; an upsert's create and update share the variant.
func (r *Registry) defineMutations(m *catalog.Model) {
	keys := uncheckedKeys(m, "")
	variants := func(op Op, checked, unchecked func(b *schema.Builder) schema.Schema) {
		selector := byVariant(keys)
		if op == OpUpsert {
			selector = byVariant(keys, "create", "update")
		}
		r.arena.Define(Name(m.Name, writeKinds[op]), func(b *schema.Builder) schema.Schema {
			return schema.Switch(selector,
				tagged(m.Name, op, Checked, checked(b)),
				tagged(m.Name, op, Unchecked, unchecked(b)),
			)
		})
	}
	ref := func(kind Kind) func(b *schema.Builder) schema.Schema {
		return func(b *schema.Builder) schema.Schema { return b.Ref(Name(m.Name, kind)) }
	}
	upsert := func(create, update Kind) func(b *schema.Builder) schema.Schema {
		return func(b *schema.Builder) schema.Schema {
			return schema.Object(Name(m.Name, writeKinds[OpUpsert]),
				schema.Required("create", b.Ref(Name(m.Name, create))),
				schema.Required("update", b.Ref(Name(m.Name, update))),
			)
		}
	}

	variants(OpCreate, ref(CreateInput), ref(UncheckedCreateInput))
	variants(OpUpdate, ref(UpdateInput), ref(UncheckedUpdateInput))
	variants(OpUpdateMany, ref(UpdateManyMutationInput), ref(UncheckedUpdateManyInput))
	variants(OpUpsert, upsert(CreateInput, UpdateInput), upsert(UncheckedCreateInput, UncheckedUpdateInput))

	// createMany rows carry foreign keys, so they are always unchecked.
	r.arena.Define(Name(m.Name, writeKinds[OpCreateMany]), func(b *schema.Builder) schema.Schema {
		return tagged(m.Name, OpCreateMany, Unchecked, listOf(b.Ref(Name(m.Name, CreateManyInput))))
	})
}

// ParseMutation validates a write input for op on model.
func (r *Registry) ParseMutation(model string, op Op, input interface{}) (*Mutation, error) {
	kind, ok := writeKinds[op]
	if !ok {
		return nil, perrors.Newf(perrors.ErrUnknownSchema, "unknown write operation %q", op)
	}
	out, err := r.ValidateName(Name(model, kind), input)
	if err != nil {
		return nil, err
	}
	mutation, ok := out.(*Mutation)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected output %T", Name(model, kind), out)
	}
	r.log.Debug("%s %s accepted as %s", model, op, mutation.Variant)
	return mutation, nil
}

// ParseCreate validates the data of a create on model.
func (r *Registry) ParseCreate(model string, input interface{}) (*Mutation, error) {
	return r.ParseMutation(model, OpCreate, input)
}

// ParseUpdate validates the data of an update on model.
func (r *Registry) ParseUpdate(model string, input interface{}) (*Mutation, error) {
	return r.ParseMutation(model, OpUpdate, input)
}
