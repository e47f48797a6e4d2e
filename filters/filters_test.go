package filters

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosnayan/prisma-go-inputs/catalog"
	"github.com/carlosnayan/prisma-go-inputs/jsonnull"
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

type obj = map[string]interface{}
type arr = []interface{}

func newGrammar(t *testing.T) (*schema.Arena, *Grammar) {
	t.Helper()
	c := catalog.New()
	c.AddEnum("Role", "OWNER", "MEMBER")
	a := schema.NewArena()
	return a, Define(a, c)
}

func parse(t *testing.T, a *schema.Arena, name string, input interface{}, opts schema.Options) (interface{}, error) {
	t.Helper()
	s, err := a.Resolve(name)
	require.NoError(t, err)
	return schema.Parse(s, input, opts)
}

func requireIssue(t *testing.T, err error, sentinel error, path string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel), "want %v, got %v", sentinel, err)
	var ve *schema.ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.At(path), "no issue at %q: %v", path, err)
}

func TestNames(t *testing.T) {
	role := &catalog.Enum{Name: "Role"}
	assert.Equal(t, "StringFilter", Name(Type{Scalar: catalog.String}, false, Plain))
	assert.Equal(t, "NestedStringNullableFilter", Name(Type{Scalar: catalog.String}, true, Nested))
	assert.Equal(t, "BoolWithAggregatesFilter", Name(Type{Scalar: catalog.Boolean}, false, WithAggregates))
	assert.Equal(t, "NestedEnumRoleNullableWithAggregatesFilter", Name(Type{Enum: role}, true, NestedWithAggregates))
	assert.Equal(t, "StringNullableListFilter", ListName(Type{Scalar: catalog.String}))
}

func TestStringFilter(t *testing.T) {
	a, _ := newGrammar(t)

	out, err := parse(t, a, "StringFilter", obj{
		"equals":     "a",
		"in":         arr{"a", "b"},
		"contains":   "x",
		"startsWith": "y",
		"mode":       "insensitive",
		"not":        obj{"not": obj{"endsWith": "z"}},
	}, schema.Options{})
	require.NoError(t, err)
	assert.Equal(t, "insensitive", out.(obj)["mode"])

	_, err = parse(t, a, "StringFilter", obj{"not": "plain"}, schema.Options{})
	require.NoError(t, err)

	_, err = parse(t, a, "StringFilter", obj{"mode": "loud"}, schema.Options{})
	requireIssue(t, err, schema.ErrShape, "mode")

	_, err = parse(t, a, "StringFilter", obj{"not": obj{"mode": "insensitive"}}, schema.Options{})
	requireIssue(t, err, schema.ErrOperatorTypeMismatch, "not.mode")
}

func TestOperatorTypeMismatch(t *testing.T) {
	a, _ := newGrammar(t)

	_, err := parse(t, a, "IntFilter", obj{"contains": "1"}, schema.Options{})
	requireIssue(t, err, schema.ErrOperatorTypeMismatch, "contains")

	_, err = parse(t, a, "BoolFilter", obj{"gt": true}, schema.Options{})
	requireIssue(t, err, schema.ErrOperatorTypeMismatch, "gt")

	_, err = parse(t, a, "StringNullableListFilter", obj{"contains": "x"}, schema.Options{})
	requireIssue(t, err, schema.ErrOperatorTypeMismatch, "contains")

	_, err = parse(t, a, "IntFilter", obj{"bogus": 1}, schema.Options{})
	requireIssue(t, err, schema.ErrShape, "bogus")
	assert.False(t, errors.Is(err, schema.ErrOperatorTypeMismatch))
}

func TestUnknownOperatorModes(t *testing.T) {
	a, _ := newGrammar(t)

	out, err := parse(t, a, "IntFilter", obj{"equals": 1, "bogus": 2}, schema.Options{Mode: schema.Strip})
	require.NoError(t, err)
	assert.Equal(t, obj{"equals": int64(1)}, out)

	out, err = parse(t, a, "IntFilter", obj{"equals": 1, "bogus": 2}, schema.Options{Mode: schema.Passthrough})
	require.NoError(t, err)
	assert.Equal(t, obj{"equals": int64(1), "bogus": 2}, out)
}

func TestNullableFilters(t *testing.T) {
	a, _ := newGrammar(t)

	_, err := parse(t, a, "StringNullableFilter", obj{"equals": nil, "not": nil, "in": nil}, schema.Options{})
	require.NoError(t, err)

	_, err = parse(t, a, "StringFilter", obj{"equals": nil}, schema.Options{})
	requireIssue(t, err, schema.ErrShape, "equals")
}

func TestDateTimeCoercion(t *testing.T) {
	a, _ := newGrammar(t)

	out, err := parse(t, a, "DateTimeFilter", obj{"gte": "2024-01-02", "lt": "2024-02-01T10:00:00Z"}, schema.Options{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), out.(obj)["gte"])

	_, err = parse(t, a, "DateTimeFilter", obj{"gte": "yesterday"}, schema.Options{})
	requireIssue(t, err, schema.ErrInvalidFormat, "gte")
}

func TestAggregateFilters(t *testing.T) {
	a, _ := newGrammar(t)

	_, err := parse(t, a, "IntWithAggregatesFilter", obj{
		"gt":     1,
		"_count": obj{"gt": 0},
		"_avg":   obj{"gte": 1.5},
		"_sum":   obj{"lt": 100},
		"_min":   obj{"equals": 1},
		"not":    obj{"_max": obj{"lte": 3}},
	}, schema.Options{})
	require.NoError(t, err)

	_, err = parse(t, a, "StringWithAggregatesFilter", obj{"_avg": obj{"gt": 1}}, schema.Options{})
	requireIssue(t, err, schema.ErrOperatorTypeMismatch, "_avg")

	_, err = parse(t, a, "IntFilter", obj{"_count": obj{"gt": 1}}, schema.Options{})
	requireIssue(t, err, schema.ErrOperatorTypeMismatch, "_count")

	_, err = parse(t, a, "JsonWithAggregatesFilter", obj{"_min": obj{}}, schema.Options{})
	requireIssue(t, err, schema.ErrOperatorTypeMismatch, "_min")
}

func TestEnumAndListFilters(t *testing.T) {
	a, _ := newGrammar(t)

	_, err := parse(t, a, "EnumRoleFilter", obj{"in": arr{"OWNER"}, "not": obj{"equals": "MEMBER"}}, schema.Options{})
	require.NoError(t, err)

	_, err = parse(t, a, "EnumRoleFilter", obj{"equals": "GUEST"}, schema.Options{})
	requireIssue(t, err, schema.ErrShape, "equals")

	_, err = parse(t, a, "EnumRoleFilter", obj{"lt": "OWNER"}, schema.Options{})
	requireIssue(t, err, schema.ErrOperatorTypeMismatch, "lt")

	_, err = parse(t, a, "StringNullableListFilter", obj{
		"has":      "a",
		"hasEvery": arr{"a", "b"},
		"hasSome":  arr{"c"},
		"isEmpty":  false,
		"equals":   nil,
	}, schema.Options{})
	require.NoError(t, err)

	_, err = parse(t, a, "IntNullableListFilter", obj{"hasSome": arr{1, "two"}}, schema.Options{})
	requireIssue(t, err, schema.ErrShape, "hasSome[1]")
}

func TestJsonFilter(t *testing.T) {
	a, _ := newGrammar(t)

	out, err := parse(t, a, "JsonNullableFilter", obj{
		"equals":          "AnyNull",
		"path":            arr{"settings", "theme"},
		"string_contains": "dark",
		"not":             "JsonNull",
	}, schema.Options{})
	require.NoError(t, err)
	assert.Equal(t, jsonnull.AnyNull, out.(obj)["equals"])
	assert.Equal(t, jsonnull.KindJsonNull, out.(obj)["not"].(jsonnull.Filter).Kind)

	_, err = parse(t, a, "JsonFilter", obj{"path": "$.theme", "array_contains": arr{"x"}}, schema.Options{})
	require.NoError(t, err)

	_, err = parse(t, a, "JsonFilter", obj{"has": "x"}, schema.Options{})
	requireIssue(t, err, schema.ErrOperatorTypeMismatch, "has")
}

func TestNotNestingDepth(t *testing.T) {
	a, _ := newGrammar(t)
	input := obj{"not": obj{"not": obj{"not": obj{"not": "a"}}}}

	_, err := parse(t, a, "StringFilter", input, schema.Options{})
	require.NoError(t, err)

	_, err = parse(t, a, "StringFilter", input, schema.Options{MaxDepth: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrDepthExceeded))
}

func TestWhereFieldShorthand(t *testing.T) {
	_, g := newGrammar(t)

	name := catalog.ScalarField("name", catalog.String)
	out, err := schema.Parse(g.WhereField(name), "Intake", schema.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Intake", out)

	_, err = schema.Parse(g.WhereField(name), nil, schema.Options{})
	require.Error(t, err)

	optional := catalog.ScalarField("score", catalog.Float, catalog.Optional())
	_, err = schema.Parse(g.WhereField(optional), nil, schema.Options{})
	require.NoError(t, err)

	_, err = schema.Parse(g.WhereField(optional), obj{"contains": "x"}, schema.Options{})
	requireIssue(t, err, schema.ErrOperatorTypeMismatch, "contains")

	list := catalog.ScalarField("tags", catalog.String, catalog.List())
	_, err = schema.Parse(g.WhereField(list), "x", schema.Options{})
	require.Error(t, err, "lists have no raw shorthand")

	role := catalog.EnumField("role", "Role")
	out, err = schema.Parse(g.AggregateWhereField(role), obj{"_count": obj{"gt": 1}}, schema.Options{})
	require.NoError(t, err)
	assert.Contains(t, out.(obj), "_count")
}

func TestFiltersBuildOnce(t *testing.T) {
	a, _ := newGrammar(t)
	for i := 0; i < 3; i++ {
		_, err := parse(t, a, "StringFilter", obj{"not": obj{"equals": "x"}}, schema.Options{})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), a.Builds("StringFilter"))
	assert.Equal(t, int64(1), a.Builds("NestedStringFilter"))
	assert.Equal(t, int64(0), a.Builds("FloatFilter"))
	require.NoError(t, a.Warm())
}
