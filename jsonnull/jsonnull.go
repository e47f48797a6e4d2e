// Package jsonnull encodes the null vocabulary of Json columns.
//
// A Json column distinguishes SQL NULL (DbNull) from a stored JSON null
// literal (JsonNull). Writes can address exactly those two; filters may
// additionally ask for AnyNull, which matches either. Value is the write
// side and can never hold AnyNull; Filter is the filter side.
package jsonnull

import (
	"encoding/json"
	"reflect"
)

// Kind is the null state of a Json column or operand.
type Kind int

const (
	KindValue Kind = iota
	KindDbNull
	KindJsonNull
	KindAnyNull
)

// Tokens accepted in place of a JSON value.
const (
	TokenDbNull   = "DbNull"
	TokenJsonNull = "JsonNull"
	TokenAnyNull  = "AnyNull"
)

func (k Kind) String() string {
	switch k {
	case KindDbNull:
		return TokenDbNull
	case KindJsonNull:
		return TokenJsonNull
	case KindAnyNull:
		return TokenAnyNull
	default:
		return "Value"
	}
}

// Value is a normalized Json write operand.
type Value struct {
	Kind Kind
	// JSON is the decoded value when Kind is KindValue.
	JSON interface{}
}

var (
	DbNull   = Value{Kind: KindDbNull}
	JsonNull = Value{Kind: KindJsonNull}
)

// Of wraps a JSON value.
func Of(v interface{}) Value {
	return Value{Kind: KindValue, JSON: v}
}

// Normalize maps a write operand: absent, null and "DbNull" become DbNull,
// "JsonNull" becomes JsonNull, anything else is a value. "AnyNull" is not
// part of the write vocabulary and comes back as a plain string value;
// write schemas reject it before calling Normalize.
func Normalize(v interface{}, present bool) Value {
	if !present || v == nil {
		return DbNull
	}
	if s, ok := v.(string); ok {
		switch s {
		case TokenDbNull:
			return DbNull
		case TokenJsonNull:
			return JsonNull
		}
	}
	return Of(v)
}

// IsNull reports DbNull or JsonNull.
func (v Value) IsNull() bool {
	return v.Kind == KindDbNull || v.Kind == KindJsonNull
}

// Equal compares kinds and, for values, the decoded JSON.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	return v.Kind != KindValue || reflect.DeepEqual(v.JSON, other.JSON)
}

// Token returns the wire form: the null token, or the JSON value itself.
func (v Value) Token() interface{} {
	if v.Kind == KindValue {
		return v.JSON
	}
	return v.Kind.String()
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Token())
}

// UnmarshalJSON reads the write vocabulary; a JSON null literal decodes to
// DbNull, the string "JsonNull" to JsonNull.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Normalize(raw, true)
	return nil
}

// Filter is a normalized Json filter operand.
type Filter struct {
	Kind Kind
	JSON interface{}
}

var AnyNull = Filter{Kind: KindAnyNull}

// NormalizeFilter is Normalize extended with "AnyNull".
func NormalizeFilter(v interface{}, present bool) Filter {
	if s, ok := v.(string); ok && s == TokenAnyNull {
		return AnyNull
	}
	w := Normalize(v, present)
	return Filter{Kind: w.Kind, JSON: w.JSON}
}

// Matches reports whether a stored column state satisfies an equals
// operand. AnyNull matches both null kinds.
func (f Filter) Matches(stored Value) bool {
	switch f.Kind {
	case KindAnyNull:
		return stored.IsNull()
	case KindValue:
		return stored.Kind == KindValue && reflect.DeepEqual(f.JSON, stored.JSON)
	default:
		return stored.Kind == f.Kind
	}
}

// Token returns the wire form of the operand.
func (f Filter) Token() interface{} {
	if f.Kind == KindValue {
		return f.JSON
	}
	return f.Kind.String()
}

func (f Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Token())
}
