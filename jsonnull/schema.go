package jsonnull

import (
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

// WriteSchema validates a Json column value in create and update inputs.
// Required columns reject DbNull (and therefore null); AnyNull is always
// rejected. The output is a Value.
func WriteSchema(required bool) schema.Schema {
	return writeSchema{required: required}
}

type writeSchema struct {
	required bool
}

func (w writeSchema) Check(c *schema.Context, path schema.Path, v interface{}) interface{} {
	if s, ok := v.(string); ok && s == TokenAnyNull {
		c.Report(path, schema.ErrAmbiguousNullSemantics, "%s is only valid in filters; use %s or %s", TokenAnyNull, TokenDbNull, TokenJsonNull)
		return nil
	}
	val := Normalize(v, true)
	switch val.Kind {
	case KindDbNull:
		if w.required {
			c.Report(path, schema.ErrAmbiguousNullSemantics, "required Json column cannot be %s; use %s for a JSON null", TokenDbNull, TokenJsonNull)
			return nil
		}
	case KindValue:
		if schema.JSONValue().Check(c, path, val.JSON) == nil {
			return nil
		}
	}
	return val
}

// FilterOperand validates the equals and not operands of a Json filter.
// All three null tokens are accepted; a raw null means DbNull. The output
// is a Filter.
func FilterOperand() schema.Schema {
	return filterOperand{}
}

type filterOperand struct{}

func (filterOperand) Check(c *schema.Context, path schema.Path, v interface{}) interface{} {
	f := NormalizeFilter(v, true)
	if f.Kind == KindValue && schema.JSONValue().Check(c, path, f.JSON) == nil {
		return nil
	}
	return f
}
