package schema

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"net/mail"
	"regexp"
	"strconv"
	"time"

	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
	"github.com/carlosnayan/prisma-go-inputs/internal/uuid"
)

// Format is a value format checked on strings.
type Format int

const (
	FormatNone Format = iota
	FormatUUID
	FormatCUID
	FormatEmail
)

var cuidPattern = regexp.MustCompile(`^c[^\s-]{8,}$`)

// StringSchema accepts strings, optionally restricted to a format.
type StringSchema struct {
	format Format
}

func String() *StringSchema {
	return &StringSchema{}
}

// UUID returns a copy that requires a canonical UUID.
func (s *StringSchema) UUID() *StringSchema {
	return &StringSchema{format: FormatUUID}
}

// WithFormat returns a copy that requires f.
func (s *StringSchema) WithFormat(f Format) *StringSchema {
	return &StringSchema{format: f}
}

func (s *StringSchema) Check(c *Context, path Path, v interface{}) interface{} {
	str, ok := v.(string)
	if !ok {
		c.Report(path, ErrShape, "expected string, received %s", perrors.TypeName(v))
		return nil
	}
	switch s.format {
	case FormatUUID:
		if !uuid.IsValid(str) {
			c.Report(path, ErrInvalidFormat, "invalid uuid %s", perrors.DescribeValue(str))
			return nil
		}
	case FormatCUID:
		if !cuidPattern.MatchString(str) {
			c.Report(path, ErrInvalidFormat, "invalid cuid %s", perrors.DescribeValue(str))
			return nil
		}
	case FormatEmail:
		if _, err := mail.ParseAddress(str); err != nil {
			c.Report(path, ErrInvalidFormat, "invalid email %s", perrors.DescribeValue(str))
			return nil
		}
	}
	return str
}

// IntSchema accepts integral numbers and normalizes them to int64.
type IntSchema struct {
	name string
	min  *int64
}

func Int() *IntSchema {
	return &IntSchema{name: "integer"}
}

// BigInt accepts integers and numeric strings that fit in int64.
func BigInt() *IntSchema {
	return &IntSchema{name: "bigint"}
}

// Min returns a copy that rejects values below n.
func (s *IntSchema) Min(n int64) *IntSchema {
	return &IntSchema{name: s.name, min: &n}
}

func (s *IntSchema) Check(c *Context, path Path, v interface{}) interface{} {
	if n, ok := toInt64(v, s.name == "bigint"); ok {
		if s.min != nil && n < *s.min {
			c.Report(path, ErrShape, "expected %s >= %d, received %d", s.name, *s.min, n)
			return nil
		}
		return n
	}
	c.Report(path, ErrShape, "expected %s, received %s", s.name, perrors.TypeName(v))
	return nil
}

func toInt64(v interface{}, allowString bool) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) && math.Abs(n) <= 1<<53 {
			return int64(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		// 1.0 and 1e3 are integers written as floats
		if f, err := n.Float64(); err == nil {
			return toInt64(f, false)
		}
	case string:
		if allowString {
			if i, err := strconv.ParseInt(n, 10, 64); err == nil {
				return i, true
			}
		}
	}
	return 0, false
}

// FloatSchema accepts numbers and normalizes them to float64.
type FloatSchema struct {
	decimal bool
}

func Float() *FloatSchema {
	return &FloatSchema{}
}

// Decimal accepts numbers and numeric strings. The output keeps the
// original digits as a json.Number.
func Decimal() *FloatSchema {
	return &FloatSchema{decimal: true}
}

func (s *FloatSchema) Check(c *Context, path Path, v interface{}) interface{} {
	if s.decimal {
		switch n := v.(type) {
		case json.Number:
			if _, err := n.Float64(); err == nil {
				return n
			}
		case string:
			if _, err := strconv.ParseFloat(n, 64); err == nil {
				return json.Number(n)
			}
		case int, int32, int64, float64:
			f, _ := toFloat64(n)
			return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
		}
		c.Report(path, ErrShape, "expected decimal, received %s", perrors.TypeName(v))
		return nil
	}
	if f, ok := toFloat64(v); ok {
		return f
	}
	c.Report(path, ErrShape, "expected number, received %s", perrors.TypeName(v))
	return nil
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}

// BoolSchema accepts true and false.
type BoolSchema struct{}

func Bool() BoolSchema {
	return BoolSchema{}
}

func (BoolSchema) Check(c *Context, path Path, v interface{}) interface{} {
	if b, ok := v.(bool); ok {
		return b
	}
	c.Report(path, ErrShape, "expected boolean, received %s", perrors.TypeName(v))
	return nil
}

// DateTimeSchema coerces RFC3339 strings, plain dates and time.Time to time.Time.
type DateTimeSchema struct{}

func DateTime() DateTimeSchema {
	return DateTimeSchema{}
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func (DateTimeSchema) Check(c *Context, path Path, v interface{}) interface{} {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
		c.Report(path, ErrInvalidFormat, "invalid datetime %s", perrors.DescribeValue(t))
		return nil
	}
	c.Report(path, ErrShape, "expected datetime, received %s", perrors.TypeName(v))
	return nil
}

// BytesSchema accepts raw bytes or a base64 string and outputs []byte.
type BytesSchema struct{}

func Bytes() BytesSchema {
	return BytesSchema{}
}

func (BytesSchema) Check(c *Context, path Path, v interface{}) interface{} {
	switch b := v.(type) {
	case []byte:
		return b
	case string:
		decoded, err := base64.StdEncoding.DecodeString(b)
		if err != nil {
			c.Report(path, ErrInvalidFormat, "invalid base64 bytes")
			return nil
		}
		return decoded
	}
	c.Report(path, ErrShape, "expected bytes, received %s", perrors.TypeName(v))
	return nil
}

// EnumSchema accepts one of a fixed set of string literals.
type EnumSchema struct {
	name   string
	values []string
	index  map[string]bool
}

func Enum(name string, values ...string) *EnumSchema {
	index := make(map[string]bool, len(values))
	for _, v := range values {
		index[v] = true
	}
	return &EnumSchema{name: name, values: values, index: index}
}

func (s *EnumSchema) Name() string {
	return s.name
}

func (s *EnumSchema) Values() []string {
	return s.values
}

func (s *EnumSchema) Check(c *Context, path Path, v interface{}) interface{} {
	str, ok := v.(string)
	if !ok {
		c.Report(path, ErrShape, "expected %s, received %s", s.name, perrors.TypeName(v))
		return nil
	}
	if !s.index[str] {
		c.Report(path, ErrShape, "invalid %s value %s, expected one of %v", s.name, perrors.DescribeValue(str), s.values)
		return nil
	}
	return str
}

// LiteralSchema accepts exactly one value.
type LiteralSchema struct {
	value interface{}
}

func Literal(value interface{}) LiteralSchema {
	return LiteralSchema{value: value}
}

func (s LiteralSchema) Check(c *Context, path Path, v interface{}) interface{} {
	if v == s.value {
		return v
	}
	c.Report(path, ErrShape, "expected literal %v, received %s", s.value, perrors.DescribeValue(v))
	return nil
}

// NullSchema accepts only null.
type NullSchema struct{}

func Null() NullSchema {
	return NullSchema{}
}

func (NullSchema) Check(c *Context, path Path, v interface{}) interface{} {
	if v != nil {
		c.Report(path, ErrShape, "expected null, received %s", perrors.TypeName(v))
	}
	return nil
}

// AnySchema accepts every value unchanged.
type AnySchema struct{}

func Any() AnySchema {
	return AnySchema{}
}

func (AnySchema) Check(_ *Context, _ Path, v interface{}) interface{} {
	return v
}

// JSONValueSchema accepts any JSON value except a top-level null. Nested
// nulls inside objects and arrays are kept.
type JSONValueSchema struct{}

func JSONValue() JSONValueSchema {
	return JSONValueSchema{}
}

func (JSONValueSchema) Check(c *Context, path Path, v interface{}) interface{} {
	if v == nil {
		c.Report(path, ErrShape, "expected json value, received null")
		return nil
	}
	if !isJSON(v) {
		c.Report(path, ErrShape, "expected json value, received %T", v)
		return nil
	}
	return v
}

func isJSON(v interface{}) bool {
	switch x := v.(type) {
	case nil, string, bool, json.Number, int, int32, int64, float32, float64:
		return true
	case map[string]interface{}:
		for _, e := range x {
			if !isJSON(e) {
				return false
			}
		}
		return true
	case []interface{}:
		for _, e := range x {
			if !isJSON(e) {
				return false
			}
		}
		return true
	}
	return false
}
