package catalog

import (
	"strings"

	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
	"github.com/carlosnayan/prisma-go-inputs/internal/parser"
)

// LoadFile parses a schema.prisma file and builds a linked catalogue.
func LoadFile(path string) (*Catalog, error) {
	schema, problems, err := parser.ParseFile(path)
	if err != nil {
		if len(problems) > 0 {
			return nil, invalid("%s: %s", path, strings.Join(problems, "; "))
		}
		return nil, perrors.WrapPrismaError(perrors.ErrInvalidCatalog, err)
	}
	return FromSchema(schema)
}

// Parse builds a linked catalogue from schema.prisma source.
func Parse(source string) (*Catalog, error) {
	schema, problems, err := parser.Parse(source)
	if err != nil {
		return nil, invalid("%s", strings.Join(problems, "; "))
	}
	return FromSchema(schema)
}

// FromSchema converts a parsed schema. Unsupported(...) fields are skipped
// since no input can address them.
func FromSchema(schema *parser.Schema) (*Catalog, error) {
	c := New()
	for _, e := range schema.Enums {
		values := make([]string, 0, len(e.Values))
		for _, v := range e.Values {
			values = append(values, v.Name)
		}
		c.AddEnum(e.Name, values...)
	}

	models := make(map[string]bool, len(schema.Models))
	for _, m := range schema.Models {
		models[m.Name] = true
	}

	for _, pm := range schema.Models {
		var fields []*Field
		for _, pf := range pm.Fields {
			if pf.Type == nil || pf.Type.IsUnsupported {
				continue
			}
			fields = append(fields, convertField(pf, models, schema))
		}
		m := c.AddModel(pm.Name, fields...)

		for _, attr := range pm.Attributes {
			switch attr.Name {
			case "id", "unique":
				keyFields := attr.StringList("fields", 0)
				name := attr.StringArg("name", -1)
				if len(keyFields) == 1 {
					if f := m.Field(keyFields[0]); f != nil {
						if attr.Name == "id" {
							f.IsID = true
						} else {
							f.IsUnique = true
						}
					}
					continue
				}
				m.Keys = append(m.Keys, CompoundKey{Name: name, Fields: keyFields, Primary: attr.Name == "id"})
			}
		}
	}

	if err := c.Link(); err != nil {
		return nil, err
	}
	return c, nil
}

func convertField(pf *parser.ModelField, models map[string]bool, schema *parser.Schema) *Field {
	f := &Field{
		Name:       pf.Name,
		Type:       pf.Type.Name,
		List:       pf.Type.IsArray,
		Optional:   pf.Type.IsOptional,
		HasDefault: pf.HasAttribute("default"),
		IsID:       pf.HasAttribute("id"),
		IsUnique:   pf.HasAttribute("unique"),
		UpdatedAt:  pf.HasAttribute("updatedAt"),
	}

	switch {
	case models[pf.Type.Name]:
		f.Kind = KindRelation
		f.Relation = &Relation{Target: pf.Type.Name}
		if attr := pf.Attribute("relation"); attr != nil {
			f.Relation.Name = attr.StringArg("name", 0)
			f.Relation.Fields = attr.StringList("fields", -1)
			f.Relation.References = attr.StringList("references", -1)
		}
	case schema.Enum(pf.Type.Name) != nil:
		f.Kind = KindEnum
	default:
		f.Kind = KindScalar
		f.Format = fieldFormat(pf)
	}
	return f
}

// fieldFormat derives a string format from /// validator comments,
// @db.Uuid and uuid()/cuid() defaults. Doc comments win.
func fieldFormat(pf *parser.ModelField) Format {
	if pf.Type.Name != string(String) {
		return FormatNone
	}
	for _, line := range pf.Doc {
		switch {
		case strings.Contains(line, ".uuid()"):
			return FormatUUID
		case strings.Contains(line, ".cuid()"):
			return FormatCUID
		case strings.Contains(line, ".email()"):
			return FormatEmail
		}
	}
	if pf.HasAttribute("db.Uuid") {
		return FormatUUID
	}
	if attr := pf.Attribute("default"); attr != nil {
		if v, ok := attr.Arg("value", 0); ok {
			if fn, ok := v.(map[string]interface{}); ok {
				switch fn["function"] {
				case "uuid":
					return FormatUUID
				case "cuid":
					return FormatCUID
				}
			}
		}
	}
	return FormatNone
}
