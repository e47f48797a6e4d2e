package parser

import (
	"fmt"
)

var scalarTypes = []string{
	"String", "Int", "BigInt", "Float", "Decimal",
	"Boolean", "DateTime", "Json", "Bytes",
}

var providers = map[string]bool{
	"postgresql":  true,
	"mysql":       true,
	"sqlite":      true,
	"sqlserver":   true,
	"cockroachdb": true,
}

// Validator checks a parsed schema for semantic problems.
type Validator struct {
	schema *Schema
	models map[string]*Model
	enums  map[string]*Enum
	errors []string
}

// Validate returns every problem found in schema.
func Validate(schema *Schema) []string {
	v := &Validator{
		schema: schema,
		models: make(map[string]*Model),
		enums:  make(map[string]*Enum),
		errors: []string{},
	}
	v.validateSchema()
	return v.errors
}

func (v *Validator) errorf(format string, args ...interface{}) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *Validator) validateSchema() {
	for _, ds := range v.schema.Datasources {
		v.validateDatasource(ds)
	}
	for _, gen := range v.schema.Generators {
		if !hasKey(gen.Fields, "provider") {
			v.errorf("generator '%s' must have a 'provider'", gen.Name)
		}
	}

	for _, enum := range v.schema.Enums {
		if _, dup := v.enums[enum.Name]; dup {
			v.errorf("duplicate enum '%s'", enum.Name)
		}
		v.enums[enum.Name] = enum
		v.validateEnum(enum)
	}
	for _, model := range v.schema.Models {
		if _, dup := v.models[model.Name]; dup {
			v.errorf("duplicate model '%s'", model.Name)
		}
		if _, clash := v.enums[model.Name]; clash {
			v.errorf("model '%s' has the same name as an enum", model.Name)
		}
		v.models[model.Name] = model
	}
	for _, model := range v.schema.Models {
		v.validateModel(model)
	}
}

func hasKey(fields []*Field, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (v *Validator) validateDatasource(ds *Datasource) {
	for _, field := range ds.Fields {
		if field.Name != "provider" {
			continue
		}
		if provider, ok := field.Value.(string); ok && !providers[provider] {
			v.errorf("invalid provider in datasource '%s': %s", ds.Name, provider)
		}
		return
	}
	v.errorf("datasource '%s' must have a 'provider'", ds.Name)
}

func (v *Validator) validateModel(model *Model) {
	seen := make(map[string]bool)
	for _, field := range model.Fields {
		if seen[field.Name] {
			v.errorf("duplicate field '%s' in model '%s'", field.Name, model.Name)
		}
		seen[field.Name] = true

		v.validateFieldType(field.Type, model.Name, field.Name)
		for _, attr := range field.Attributes {
			v.validateFieldAttribute(attr, model, field)
		}
	}

	for _, attr := range model.Attributes {
		switch attr.Name {
		case "id", "unique", "index":
			fields := attr.StringList("fields", 0)
			if len(fields) == 0 {
				v.errorf("@@%s in model '%s' must list fields", attr.Name, model.Name)
			}
			for _, name := range fields {
				if !seen[name] {
					v.errorf("@@%s in model '%s' references unknown field '%s'", attr.Name, model.Name, name)
				}
			}
		}
	}
}

func (v *Validator) validateFieldType(fieldType *FieldType, modelName, fieldName string) {
	if fieldType == nil {
		v.errorf("field '%s' in model '%s' has no type", fieldName, modelName)
		return
	}
	if fieldType.IsUnsupported {
		return
	}
	if IsValidType(fieldType.Name) {
		return
	}
	if _, ok := v.models[fieldType.Name]; ok {
		return
	}
	if _, ok := v.enums[fieldType.Name]; ok {
		return
	}
	v.errorf("field '%s' in model '%s' has unknown type '%s'", fieldName, modelName, fieldType.Name)
}

func (v *Validator) validateFieldAttribute(attr *Attribute, model *Model, field *ModelField) {
	switch attr.Name {
	case "default":
		if len(attr.Arguments) == 0 {
			v.errorf("@default on field '%s' of model '%s' needs a value", field.Name, model.Name)
		}
	case "relation":
		fields := attr.StringList("fields", -1)
		references := attr.StringList("references", -1)
		if (len(fields) == 0) != (len(references) == 0) {
			v.errorf("@relation on field '%s' of model '%s' needs both 'fields' and 'references' or neither", field.Name, model.Name)
		}
		if len(fields) != len(references) {
			v.errorf("@relation on field '%s' of model '%s' must have as many 'fields' as 'references'", field.Name, model.Name)
		}
		for _, name := range fields {
			if model.Field(name) == nil {
				v.errorf("@relation on field '%s' of model '%s' references unknown field '%s'", field.Name, model.Name, name)
			}
		}
		if field.Type != nil {
			if target, ok := v.models[field.Type.Name]; ok {
				for _, name := range references {
					if target.Field(name) == nil {
						v.errorf("@relation on field '%s' of model '%s' references unknown field '%s.%s'", field.Name, model.Name, target.Name, name)
					}
				}
			} else {
				v.errorf("@relation on field '%s' of model '%s' targets '%s', which is not a model", field.Name, model.Name, field.Type.Name)
			}
		}
	}
}

func (v *Validator) validateEnum(enum *Enum) {
	if len(enum.Values) == 0 {
		v.errorf("enum '%s' has no values", enum.Name)
	}
	seen := make(map[string]bool)
	for _, value := range enum.Values {
		if seen[value.Name] {
			v.errorf("duplicate value '%s' in enum '%s'", value.Name, enum.Name)
		}
		seen[value.Name] = true
	}
}

// ScalarTypes returns the built-in scalar type names.
func ScalarTypes() []string {
	out := make([]string, len(scalarTypes))
	copy(out, scalarTypes)
	return out
}

// IsValidType reports whether typeName is a built-in scalar type.
func IsValidType(typeName string) bool {
	for _, t := range scalarTypes {
		if t == typeName {
			return true
		}
	}
	return false
}
