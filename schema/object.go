package schema

import (
	"sort"

	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
)

// Field declares one key of an object.
type Field struct {
	Name     string
	Schema   Schema
	Required bool
}

// Required declares a key that must be present.
func Required(name string, s Schema) Field {
	return Field{Name: name, Schema: s, Required: true}
}

// Optional declares a key that may be absent.
func Optional(name string, s Schema) Field {
	return Field{Name: name, Schema: s}
}

// Refinement inspects a normalized object after its keys were checked.
type Refinement func(c *Context, path Path, obj map[string]interface{})

// UnknownKeyHook classifies an undeclared key by returning the error to
// record for it. Returning nil falls back to an ErrShape issue.
type UnknownKeyHook func(key string) *perrors.PrismaError

// ObjectSchema validates a JSON object with declared keys. Undeclared keys
// are handled according to the Context mode.
type ObjectSchema struct {
	name        string
	fields      []Field
	index       map[string]int
	missing     *perrors.PrismaError
	unknownKey  UnknownKeyHook
	refinements []Refinement
}

// Object creates an object schema; name appears in issue messages.
func Object(name string, fields ...Field) *ObjectSchema {
	o := &ObjectSchema{name: name, index: make(map[string]int, len(fields)), missing: ErrShape}
	for _, f := range fields {
		o.add(f)
	}
	return o
}

func (o *ObjectSchema) add(f Field) {
	if i, ok := o.index[f.Name]; ok {
		o.fields[i] = f
		return
	}
	o.index[f.Name] = len(o.fields)
	o.fields = append(o.fields, f)
}

// Name returns the schema name used in messages.
func (o *ObjectSchema) Name() string {
	return o.name
}

// Fields returns the declared fields in declaration order.
func (o *ObjectSchema) Fields() []Field {
	return o.fields
}

// Has reports whether key is declared.
func (o *ObjectSchema) Has(key string) bool {
	_, ok := o.index[key]
	return ok
}

// Extend adds or replaces fields. It must only be called while the schema
// is being constructed.
func (o *ObjectSchema) Extend(fields ...Field) *ObjectSchema {
	for _, f := range fields {
		o.add(f)
	}
	return o
}

// Refine appends a whole-object check.
func (o *ObjectSchema) Refine(r Refinement) *ObjectSchema {
	o.refinements = append(o.refinements, r)
	return o
}

// OnUnknownKey installs a classifier for undeclared keys.
func (o *ObjectSchema) OnUnknownKey(hook UnknownKeyHook) *ObjectSchema {
	o.unknownKey = hook
	return o
}

// OnMissing sets the sentinel reported for absent required keys.
func (o *ObjectSchema) OnMissing(sentinel *perrors.PrismaError) *ObjectSchema {
	o.missing = sentinel
	return o
}

func (o *ObjectSchema) Check(c *Context, path Path, v interface{}) interface{} {
	in, ok := v.(map[string]interface{})
	if !ok {
		c.Report(path, ErrShape, "%s: expected object, received %s", o.name, perrors.TypeName(v))
		return nil
	}
	out := make(map[string]interface{}, len(in))

	var missing []string
	for _, f := range o.fields {
		value, present := in[f.Name]
		if !present {
			if f.Required {
				missing = append(missing, f.Name)
			}
			continue
		}
		out[f.Name] = f.Schema.Check(c, path.Append(f.Name), value)
	}
	for _, name := range missing {
		c.Report(path.Append(name), o.missing, "%s: required field %q is missing", o.name, name)
	}

	if len(out) < len(in) {
		o.checkUnknown(c, path, in, out)
	}

	for _, r := range o.refinements {
		r(c, path, out)
	}
	return out
}

func (o *ObjectSchema) checkUnknown(c *Context, path Path, in, out map[string]interface{}) {
	var unknown []string
	for key := range in {
		if _, declared := o.index[key]; !declared {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		switch c.Mode() {
		case Strip:
		case Passthrough:
			out[key] = in[key]
		default:
			if o.unknownKey != nil {
				if err := o.unknownKey(key); err != nil {
					c.add(path.Append(key), err)
					continue
				}
			}
			c.Report(path.Append(key), ErrShape, "%s: unknown field %q", o.name, key)
		}
	}
}
