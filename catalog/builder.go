package catalog

import (
	"errors"
)

// Option adjusts a field under construction.
type Option func(f *Field)

// Optional marks the field nullable (Type?).
func Optional() Option {
	return func(f *Field) { f.Optional = true }
}

// List marks the field as a list (Type[]).
func List() Option {
	return func(f *Field) { f.List = true }
}

// Default marks the field as having a database default.
func Default() Option {
	return func(f *Field) { f.HasDefault = true }
}

// ID marks the field as the single-field primary key.
func ID() Option {
	return func(f *Field) { f.IsID = true }
}

// Unique marks the field @unique.
func Unique() Option {
	return func(f *Field) { f.IsUnique = true }
}

// UpdatedAt marks the field @updatedAt.
func UpdatedAt() Option {
	return func(f *Field) { f.UpdatedAt = true }
}

// WithFormat requires a string format in write positions.
func WithFormat(format Format) Option {
	return func(f *Field) { f.Format = format }
}

// Named sets the relation name used to pair ambiguous relations.
func Named(name string) Option {
	return func(f *Field) {
		if f.Relation != nil {
			f.Relation.Name = name
		}
	}
}

// References makes the relation the owning side, storing fields that
// reference the target's references.
func References(fields []string, references []string) Option {
	return func(f *Field) {
		if f.Relation != nil {
			f.Relation.Fields = fields
			f.Relation.References = references
		}
	}
}

// ScalarField declares a scalar field.
func ScalarField(name string, typ ScalarType, opts ...Option) *Field {
	return apply(&Field{Name: name, Kind: KindScalar, Type: string(typ)}, opts)
}

// EnumField declares a field typed by an enum.
func EnumField(name, enum string, opts ...Option) *Field {
	return apply(&Field{Name: name, Kind: KindEnum, Type: enum}, opts)
}

// RelationField declares a relation to target.
func RelationField(name, target string, opts ...Option) *Field {
	return apply(&Field{Name: name, Kind: KindRelation, Type: target, Relation: &Relation{Target: target}}, opts)
}

func apply(f *Field, opts []Option) *Field {
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddEnum declares an enum.
func (c *Catalog) AddEnum(name string, values ...string) *Catalog {
	e := &Enum{Name: name, Values: values}
	c.enums = append(c.enums, e)
	c.enumBy[name] = e
	return c
}

// AddModel declares a model with its fields.
func (c *Catalog) AddModel(name string, fields ...*Field) *Model {
	m := &Model{Name: name, index: make(map[string]*Field)}
	for _, f := range fields {
		m.Fields = append(m.Fields, f)
		m.index[f.Name] = f
	}
	c.models = append(c.models, m)
	c.byName[name] = m
	return m
}

// UniqueKey adds a compound @@unique. Name may be empty.
func (m *Model) UniqueKey(name string, fields ...string) *Model {
	m.Keys = append(m.Keys, CompoundKey{Name: name, Fields: fields})
	return m
}

// PrimaryKey adds a compound @@id. Name may be empty.
func (m *Model) PrimaryKey(name string, fields ...string) *Model {
	m.Keys = append(m.Keys, CompoundKey{Name: name, Fields: fields, Primary: true})
	return m
}

// Link checks references between models and pairs every relation field
// with its opposite field. It must be called once after all models are
// declared; the catalogue must not be changed afterwards.
func (c *Catalog) Link() error {
	var errs []error
	seen := make(map[string]bool)
	for _, e := range c.enums {
		if len(e.Values) == 0 {
			errs = append(errs, invalid("enum %s has no values", e.Name))
		}
	}
	for _, m := range c.models {
		if seen[m.Name] {
			errs = append(errs, invalid("model %s declared twice", m.Name))
		}
		seen[m.Name] = true
		errs = append(errs, c.checkModel(m)...)
	}
	if len(errs) == 0 {
		for _, m := range c.models {
			for _, f := range m.Relations() {
				if err := c.pair(m, f); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	c.linked = true
	return nil
}

func (c *Catalog) checkModel(m *Model) []error {
	var errs []error
	for _, f := range m.Fields {
		switch f.Kind {
		case KindScalar:
			if !isScalarType(f.Type) {
				errs = append(errs, invalid("%s.%s has unknown scalar type %s", m.Name, f.Name, f.Type))
			}
		case KindEnum:
			if c.Enum(f.Type) == nil {
				errs = append(errs, invalid("%s.%s uses undeclared enum %s", m.Name, f.Name, f.Type))
			}
		case KindRelation:
			target := c.Model(f.Relation.Target)
			if target == nil {
				errs = append(errs, invalid("%s.%s targets undeclared model %s", m.Name, f.Name, f.Relation.Target))
				continue
			}
			if len(f.Relation.Fields) != len(f.Relation.References) {
				errs = append(errs, invalid("%s.%s has %d fields but %d references", m.Name, f.Name, len(f.Relation.Fields), len(f.Relation.References)))
			}
			for _, fk := range f.Relation.Fields {
				if m.Field(fk) == nil || m.Field(fk).Kind == KindRelation {
					errs = append(errs, invalid("%s.%s stores unknown scalar %s", m.Name, f.Name, fk))
				}
			}
			for _, ref := range f.Relation.References {
				if target.Field(ref) == nil {
					errs = append(errs, invalid("%s.%s references unknown field %s.%s", m.Name, f.Name, target.Name, ref))
				}
			}
		}
	}
	for _, k := range m.Keys {
		if len(k.Fields) < 2 {
			errs = append(errs, invalid("compound key %s on %s needs at least two fields", k.Property(), m.Name))
		}
		for _, name := range k.Fields {
			if m.Field(name) == nil {
				errs = append(errs, invalid("compound key %s on %s references unknown field %s", k.Property(), m.Name, name))
			}
		}
	}
	if len(m.UniqueFields()) == 0 && len(m.Keys) == 0 {
		errs = append(errs, invalid("model %s has no unique identifier", m.Name))
	}
	return errs
}

// pair finds the opposite field of f: a relation on the target pointing
// back at m with the same relation name, excluding f itself.
func (c *Catalog) pair(m *Model, f *Field) error {
	target := c.Model(f.Relation.Target)
	var candidates []*Field
	for _, other := range target.Relations() {
		if other == f || other.Relation.Target != m.Name || other.Relation.Name != f.Relation.Name {
			continue
		}
		candidates = append(candidates, other)
	}
	switch len(candidates) {
	case 0:
		return invalid("%s.%s has no opposite relation field on %s", m.Name, f.Name, target.Name)
	case 1:
	default:
		return invalid("%s.%s is ambiguous: name the relation to choose between %d fields on %s", m.Name, f.Name, len(candidates), target.Name)
	}
	back := candidates[0]
	if f.Owning() && back.Owning() {
		return invalid("%s.%s and %s.%s both store the foreign key", m.Name, f.Name, target.Name, back.Name)
	}
	if !f.Owning() && !back.Owning() && !(f.List && back.List) {
		return invalid("neither %s.%s nor %s.%s stores the foreign key", m.Name, f.Name, target.Name, back.Name)
	}
	f.Relation.Back = back.Name
	return nil
}
