// Package inputs derives the validating input grammar of every model in a
// catalogue: read-path filters and ordering, projections, write inputs with
// nested relation writes, aggregation shapes and operation arguments.
//
// All schemas live in one schema.Arena under Prisma-style names such as
// FormWhereInput or FormCreateWithoutPublishedFormInput. Relation fields
// refer to other schemas by name, so self and mutual relations resolve
// lazily on first use. A Registry is immutable after New and safe for
// concurrent use.
package inputs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/carlosnayan/prisma-go-inputs/catalog"
	"github.com/carlosnayan/prisma-go-inputs/filters"
	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
	"github.com/carlosnayan/prisma-go-inputs/internal/limits"
	"github.com/carlosnayan/prisma-go-inputs/internal/logger"
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

// Kind names a per-model schema. The arena name is the model name followed
// by the kind, for example FormWhereUniqueInput.
type Kind string

const (
	Where                     Kind = "WhereInput"
	WhereUnique               Kind = "WhereUniqueInput"
	ScalarWhere               Kind = "ScalarWhereInput"
	ScalarWhereWithAggregates Kind = "ScalarWhereWithAggregatesInput"
	RelationFilter            Kind = "RelationFilter"
	NullableRelationFilter    Kind = "NullableRelationFilter"
	ListRelationFilter        Kind = "ListRelationFilter"

	OrderByWithRelation      Kind = "OrderByWithRelationInput"
	OrderByWithAggregation   Kind = "OrderByWithAggregationInput"
	OrderByRelationAggregate Kind = "OrderByRelationAggregateInput"
	CountOrderByAggregate    Kind = "CountOrderByAggregateInput"
	AvgOrderByAggregate      Kind = "AvgOrderByAggregateInput"
	SumOrderByAggregate      Kind = "SumOrderByAggregateInput"
	MinOrderByAggregate      Kind = "MinOrderByAggregateInput"
	MaxOrderByAggregate      Kind = "MaxOrderByAggregateInput"

	CountAggregate Kind = "CountAggregateInput"
	AvgAggregate   Kind = "AvgAggregateInput"
	SumAggregate   Kind = "SumAggregateInput"
	MinAggregate   Kind = "MinAggregateInput"
	MaxAggregate   Kind = "MaxAggregateInput"

	Select                Kind = "Select"
	Include               Kind = "Include"
	DefaultArgs           Kind = "Args"
	CountOutputTypeSelect Kind = "CountOutputTypeSelect"
	CountOutputTypeArgs   Kind = "CountOutputTypeArgs"

	CreateInput              Kind = "CreateInput"
	UncheckedCreateInput     Kind = "UncheckedCreateInput"
	UpdateInput              Kind = "UpdateInput"
	UncheckedUpdateInput     Kind = "UncheckedUpdateInput"
	CreateManyInput          Kind = "CreateManyInput"
	UpdateManyMutationInput  Kind = "UpdateManyMutationInput"
	UncheckedUpdateManyInput Kind = "UncheckedUpdateManyInput"

	ScalarFieldEnum Kind = "ScalarFieldEnum"

	FindUniqueArgs Kind = "FindUniqueArgs"
	FindFirstArgs  Kind = "FindFirstArgs"
	FindManyArgs   Kind = "FindManyArgs"
	CreateArgs     Kind = "CreateArgs"
	CreateManyArgs Kind = "CreateManyArgs"
	UpdateArgs     Kind = "UpdateArgs"
	UpdateManyArgs Kind = "UpdateManyArgs"
	UpsertArgs     Kind = "UpsertArgs"
	DeleteArgs     Kind = "DeleteArgs"
	DeleteManyArgs Kind = "DeleteManyArgs"
	AggregateArgs  Kind = "AggregateArgs"
	GroupByArgs    Kind = "GroupByArgs"
)

// NestedKind names a schema derived for one relation, without its back
// relation field. %s is replaced by the capitalized back relation name.
type NestedKind string

const (
	CreateWithout                NestedKind = "CreateWithout%sInput"
	UncheckedCreateWithout       NestedKind = "UncheckedCreateWithout%sInput"
	UpdateWithout                NestedKind = "UpdateWithout%sInput"
	UncheckedUpdateWithout       NestedKind = "UncheckedUpdateWithout%sInput"
	CreateOrConnectWithout       NestedKind = "CreateOrConnectWithout%sInput"
	UpsertWithout                NestedKind = "UpsertWithout%sInput"
	UpsertWithWhereUniqueWithout NestedKind = "UpsertWithWhereUniqueWithout%sInput"
	UpdateWithWhereUniqueWithout NestedKind = "UpdateWithWhereUniqueWithout%sInput"
	UpdateToOneWithWhereWithout  NestedKind = "UpdateToOneWithWhereWithout%sInput"
	UpdateManyWithWhereWithout   NestedKind = "UpdateManyWithWhereWithout%sInput"
	UncheckedUpdateManyWithout   NestedKind = "UncheckedUpdateManyWithout%sInput"
	CreateManyFor                NestedKind = "CreateMany%sInput"
	CreateManyEnvelopeFor        NestedKind = "CreateMany%sInputEnvelope"

	CreateNestedOneWithout           NestedKind = "CreateNestedOneWithout%sInput"
	CreateNestedManyWithout          NestedKind = "CreateNestedManyWithout%sInput"
	UncheckedCreateNestedOneWithout  NestedKind = "UncheckedCreateNestedOneWithout%sInput"
	UncheckedCreateNestedManyWithout NestedKind = "UncheckedCreateNestedManyWithout%sInput"
	UpdateOneWithoutNested           NestedKind = "UpdateOneWithout%sNestedInput"
	UpdateOneRequiredWithoutNested   NestedKind = "UpdateOneRequiredWithout%sNestedInput"
	UpdateManyWithoutNested          NestedKind = "UpdateManyWithout%sNestedInput"
	UncheckedUpdateOneWithoutNested  NestedKind = "UncheckedUpdateOneWithout%sNestedInput"
	UncheckedUpdateManyWithoutNested NestedKind = "UncheckedUpdateManyWithout%sNestedInput"
)

// Shared enum and input names.
const (
	SortOrder      = "SortOrder"
	NullsOrder     = "NullsOrder"
	SortOrderInput = "SortOrderInput"
)

// Name returns the arena name of a per-model schema.
func Name(model string, kind Kind) string {
	return model + string(kind)
}

// NestedName returns the arena name of a per-relation schema.
func NestedName(model string, kind NestedKind, without string) string {
	return model + fmt.Sprintf(string(kind), pascal(without))
}

// pascal turns workspaceId_slug into WorkspaceIdSlug.
func pascal(s string) string {
	var sb strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return sb.String()
}

// Options configure a Registry.
type Options struct {
	// Mode is how objects treat undeclared keys. The zero value is Strict.
	Mode schema.Mode
	// MaxDepth bounds lazy reference crossings per input; zero is unbounded.
	MaxDepth int
	// Logger receives build traces (debug) and rejections (warn). Nil uses
	// the default logger.
	Logger *logger.Logger
}

// Registry holds the input grammar of one catalogue.
type Registry struct {
	catalog *catalog.Catalog
	arena   *schema.Arena
	filters *filters.Grammar
	opts    schema.Options
	log     *logger.Logger
}

// New defines every schema of cat. Nothing is built until first use; call
// Warm at startup to build everything and surface definition defects.
func New(cat *catalog.Catalog, opts Options) (*Registry, error) {
	if !cat.Linked() {
		if err := cat.Link(); err != nil {
			return nil, err
		}
	}
	if opts.MaxDepth < 0 {
		return nil, perrors.Newf(perrors.ErrInvalidCatalog, "max depth must not be negative, got %d", opts.MaxDepth)
	}
	log := opts.Logger
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	arena := schema.NewArena()
	arena.SetLogger(log)
	r := &Registry{
		catalog: cat,
		arena:   arena,
		filters: filters.Define(arena, cat),
		opts:    schema.Options{Mode: opts.Mode, MaxDepth: opts.MaxDepth},
		log:     log,
	}

	r.defineShared()
	for _, m := range cat.Models() {
		r.defineReadPath(m)
		r.defineAggregates(m)
		r.defineProjection(m)
		r.defineWrites(m)
		r.defineArgs(m)
		r.defineMutations(m)
		for _, f := range m.Relations() {
			r.defineNested(m, f)
		}
	}
	log.Debug("defined %d schemas for %d models", len(arena.Names()), len(cat.Models()))
	return r, nil
}

// Catalog returns the catalogue the grammar was derived from.
func (r *Registry) Catalog() *catalog.Catalog {
	return r.catalog
}

// Options returns the validation options applied by Validate.
func (r *Registry) Options() schema.Options {
	return r.opts
}

// Schema returns the per-model schema of kind, building it if needed.
func (r *Registry) Schema(model string, kind Kind) (schema.Schema, error) {
	return r.Resolve(Name(model, kind))
}

// Nested returns a per-relation schema of model without the given back
// relation, for example Nested("Form", CreateWithout, "publishedForm").
func (r *Registry) Nested(model string, kind NestedKind, without string) (schema.Schema, error) {
	return r.Resolve(NestedName(model, kind, without))
}

// Resolve returns the schema registered under name.
func (r *Registry) Resolve(name string) (schema.Schema, error) {
	return r.arena.Resolve(name)
}

// Has reports whether name is defined.
func (r *Registry) Has(name string) bool {
	return r.arena.Has(name)
}

// Names returns every defined schema name, sorted.
func (r *Registry) Names() []string {
	return r.arena.Names()
}

// Warm builds every schema. An error means the definitions are broken.
func (r *Registry) Warm() error {
	if err := r.arena.Warm(); err != nil {
		r.log.Error("schema warm-up failed: %v", err)
		return err
	}
	r.log.Info("built %d schemas", len(r.arena.Names()))
	return nil
}

// Builds reports how many times the schema under name was built.
func (r *Registry) Builds(name string) int64 {
	return r.arena.Builds(name)
}

// Validate checks a decoded input against the per-model schema of kind and
// returns its normalized form.
func (r *Registry) Validate(model string, kind Kind, input interface{}) (interface{}, error) {
	return r.ValidateName(Name(model, kind), input)
}

// ValidateName checks a decoded input against the schema registered under name.
func (r *Registry) ValidateName(name string, input interface{}) (interface{}, error) {
	s, err := r.arena.Resolve(name)
	if err != nil {
		return nil, err
	}
	out, err := schema.Parse(s, input, r.opts)
	if err != nil {
		r.logRejection(name, err)
		return nil, err
	}
	return out, nil
}

// ValidateJSON decodes data, keeping numbers exact, and validates it.
func (r *Registry) ValidateJSON(model string, kind Kind, data []byte) (interface{}, error) {
	input, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return r.Validate(model, kind, input)
}

// DecodeJSON decodes one JSON document with numbers as json.Number.
func DecodeJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var input interface{}
	if err := dec.Decode(&input); err != nil {
		return nil, perrors.Newf(perrors.ErrShape, "invalid JSON: %v", err)
	}
	if dec.More() {
		return nil, perrors.Newf(perrors.ErrShape, "invalid JSON: trailing data after the document")
	}
	return input, nil
}

func (r *Registry) logRejection(name string, err error) {
	if !r.log.Enabled(logger.LogLevelWarn) {
		return
	}
	if ve, ok := err.(*schema.ValidationErrors); ok && len(ve.Issues) > 0 {
		first := ve.Issues[0]
		r.log.Warn("%s rejected: %d issue(s), first %s at %q", name, len(ve.Issues)+ve.Dropped, first.Code(), first.Path.String())
		return
	}
	r.log.Warn("%s rejected: %v", name, err)
}

func (r *Registry) target(f *catalog.Field) *catalog.Model {
	return r.catalog.Model(f.Relation.Target)
}

// backField returns the opposite side of relation f.
func (r *Registry) backField(f *catalog.Field) *catalog.Field {
	return r.target(f).Field(f.Relation.Back)
}

// requiredRelation reports a to-one owning relation whose foreign key
// cannot be null; a create must then connect or create the related row.
func requiredRelation(m *catalog.Model, f *catalog.Field) bool {
	if !f.Owning() || f.List || f.Optional {
		return false
	}
	for _, fk := range f.Relation.Fields {
		if sf := m.Field(fk); sf == nil || sf.Optional || sf.HasDefault {
			return false
		}
	}
	return true
}

// listOf accepts one element or an array, bounded like list operators.
func listOf(s schema.Schema) schema.Schema {
	return schema.OneOrMany(s)
}

func arrayOf(s schema.Schema) schema.Schema {
	return schema.Array(s).Max(limits.MaxListOperands)
}
