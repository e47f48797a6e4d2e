package inputs

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosnayan/prisma-go-inputs/catalog"
	"github.com/carlosnayan/prisma-go-inputs/internal/logger"
	"github.com/carlosnayan/prisma-go-inputs/jsonnull"
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

type obj = map[string]interface{}
type arr = []interface{}

const (
	workspaceID = "11111111-1111-1111-1111-111111111111"
	formID      = "22222222-2222-2222-2222-222222222222"
)

func newRegistry(t *testing.T, opts Options) *Registry {
	t.Helper()
	cat, err := catalog.LoadFile("../catalog/testdata/forms.prisma")
	require.NoError(t, err)
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	r, err := New(cat, opts)
	require.NoError(t, err)
	return r
}

func requireIssue(t *testing.T, err error, sentinel error, path string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel), "want %v, got %v", sentinel, err)
	var ve *schema.ValidationErrors
	require.True(t, errors.As(err, &ve), "want validation errors, got %T", err)
	assert.NotEmpty(t, ve.At(path), "no issue at %q: %v", path, err)
}

func objectSchema(t *testing.T, r *Registry, model string, kind Kind) *schema.ObjectSchema {
	t.Helper()
	s, err := r.Schema(model, kind)
	require.NoError(t, err)
	o, ok := s.(*schema.ObjectSchema)
	require.True(t, ok, "%s%s is %T", model, kind, s)
	return o
}

func TestWarmBuildsEverySchemaOnce(t *testing.T) {
	r := newRegistry(t, Options{})
	require.NoError(t, r.Warm())

	for _, name := range r.Names() {
		assert.Equal(t, int64(1), r.Builds(name), name)
	}
	for _, name := range []string{
		"FormWhereInput",
		"FormWhereUniqueInput",
		"FormWorkspaceIdSlugCompoundUniqueInput",
		"MembershipUserIdOrganizationIdCompoundUniqueInput",
		"FormCreateWithoutPublishedFormInput",
		"FormUncheckedCreateWithoutDraftFormInput",
		"FormCreateNestedOneWithoutPublishedFormInput",
		"FormUpdateOneWithoutDraftFormNestedInput",
		"WorkspaceUpdateOneRequiredWithoutFormsNestedInput",
		"FormCreateManyWorkspaceInputEnvelope",
		"FormCountOutputTypeSelect",
		"SubmissionAvgAggregateInput",
		"FormGroupByArgs",
		"EnumRoleFilter",
	} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("UserAvgAggregateInput"), "User has no numeric columns")
	assert.False(t, r.Has("FormUpdateOneRequiredWithoutDraftFormNestedInput"))

	// validating after warm-up builds nothing new
	_, err := r.Validate("Form", Where, obj{"steps": obj{"some": obj{"form": obj{"draftForm": obj{"is": nil}}}}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.Builds("FormWhereInput"))
}

func TestConcurrentValidation(t *testing.T) {
	r := newRegistry(t, Options{})
	input := obj{"name": "Intake", "slug": "intake", "workspace": obj{"connect": obj{"id": workspaceID}}}

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.ParseCreate("Form", input)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int64(1), r.Builds("FormCreateInput"))
	assert.Equal(t, int64(1), r.Builds("WorkspaceCreateNestedOneWithoutFormsInput"))
}

func TestWhereUniqueCompoundKey(t *testing.T) {
	r := newRegistry(t, Options{})

	_, err := r.Validate("Form", WhereUnique, obj{"workspaceId_slug": obj{"workspaceId": workspaceID, "slug": "intake"}})
	require.NoError(t, err)

	_, err = r.Validate("Form", WhereUnique, obj{"workspaceId_slug": obj{"slug": "intake"}})
	requireIssue(t, err, schema.ErrIncompleteCompoundKey, "workspaceId_slug.workspaceId")

	_, err = r.Validate("Membership", WhereUnique, obj{"userId_organizationId": obj{"userId": workspaceID}})
	requireIssue(t, err, schema.ErrIncompleteCompoundKey, "userId_organizationId.organizationId")

	_, err = r.Validate("Form", WhereUnique, obj{"workspaceId_slug": obj{"workspaceId": workspaceID, "slug": "x", "name": "y"}})
	requireIssue(t, err, schema.ErrShape, "workspaceId_slug.name")
}

func TestWhereUniqueNeedsAnIdentifier(t *testing.T) {
	r := newRegistry(t, Options{})

	tests := []struct {
		name  string
		input obj
		ok    bool
	}{
		{"id", obj{"id": formID}, true},
		{"unique optional column", obj{"publishedFormId": formID}, true},
		{"compound key", obj{"workspaceId_slug": obj{"workspaceId": workspaceID, "slug": "a"}}, true},
		{"identifier with filters", obj{"id": formID, "name": obj{"startsWith": "In"}, "isPublished": true}, true},
		{"empty", obj{}, false},
		{"filters only", obj{"name": "Intake", "slug": "intake"}, false},
		{"key members without the key", obj{"workspaceId": workspaceID, "slug": "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Validate("Form", WhereUnique, tt.input)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			requireIssue(t, err, schema.ErrShape, "")
			assert.Contains(t, err.Error(), "needs at least one of")
		})
	}
}

func TestUniqueIdentifierFormat(t *testing.T) {
	r := newRegistry(t, Options{})

	_, err := r.Validate("Form", WhereUnique, obj{"id": "bad-uuid", "name": "x"})
	requireIssue(t, err, schema.ErrInvalidFormat, "id")
	var ve *schema.ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Issues, 1)

	_, err = r.Validate("User", WhereUnique, obj{"email": "not-an-email"})
	requireIssue(t, err, schema.ErrInvalidFormat, "email")

	// filters compare, they do not validate formats
	_, err = r.Validate("Form", Where, obj{"id": obj{"startsWith": "2222"}})
	assert.NoError(t, err)
}

func TestLogicalCombinators(t *testing.T) {
	r := newRegistry(t, Options{})

	out, err := r.Validate("Form", Where, obj{
		"AND": arr{obj{"name": obj{"equals": "a"}}},
		"OR":  arr{obj{"name": obj{"equals": "b"}}, obj{"name": obj{"equals": "c"}}},
	})
	require.NoError(t, err)
	assert.Len(t, out.(obj)["OR"], 2)

	a := obj{"name": obj{"equals": "a"}}
	b := obj{"slug": "b"}
	flat, err := r.Validate("Form", Where, obj{"AND": arr{a, b}})
	require.NoError(t, err)
	nested, err := r.Validate("Form", Where, obj{"AND": arr{obj{"AND": arr{a}}, b}})
	require.NoError(t, err)
	assert.Equal(t, flat.(obj)["AND"].(arr)[1], nested.(obj)["AND"].(arr)[1])
	assert.Equal(t, flat.(obj)["AND"].(arr)[0], nested.(obj)["AND"].(arr)[0].(obj)["AND"].(arr)[0])

	// AND and NOT take a single input as a one-element list
	out, err = r.Validate("Form", Where, obj{"NOT": obj{"isPublished": true}})
	require.NoError(t, err)
	assert.Equal(t, arr{obj{"isPublished": true}}, out.(obj)["NOT"])

	_, err = r.Validate("Form", Where, obj{"OR": obj{"slug": "x"}})
	requireIssue(t, err, schema.ErrShape, "OR")
}

func TestRelationFilters(t *testing.T) {
	r := newRegistry(t, Options{})

	_, err := r.Validate("Form", Where, obj{
		"workspace":     obj{"is": obj{"name": "Ops"}},
		"draftForm":     nil,
		"publishedForm": obj{"isNot": nil},
		"steps":         obj{"some": obj{"position": obj{"gt": 2}}, "none": obj{"title": ""}},
		"submissions":   obj{"every": obj{"status": "COMPLETE", "answers": obj{"equals": "AnyNull"}}},
	})
	require.NoError(t, err)

	// a to-one relation also takes the related Where input directly
	_, err = r.Validate("Submission", Where, obj{"form": obj{"slug": "intake"}})
	require.NoError(t, err)

	// a required relation cannot be null
	_, err = r.Validate("Submission", Where, obj{"form": nil})
	require.Error(t, err)

	_, err = r.Validate("Form", Where, obj{"steps": obj{"some": obj{"position": obj{"contains": "2"}}}})
	requireIssue(t, err, schema.ErrOperatorTypeMismatch, "steps.some.position.contains")

	_, err = r.Validate("Form", Where, obj{"steps": obj{"any": obj{}}})
	requireIssue(t, err, schema.ErrShape, "steps.any")
}

func TestCheckedUncheckedExclusivity(t *testing.T) {
	r := newRegistry(t, Options{})

	for _, m := range r.Catalog().Models() {
		checked := objectSchema(t, r, m.Name, CreateInput)
		unchecked := objectSchema(t, r, m.Name, UncheckedCreateInput)
		for _, f := range m.Relations() {
			if f.Owning() {
				assert.False(t, unchecked.Has(f.Name), "%s.%s in unchecked create", m.Name, f.Name)
				for _, fk := range f.Relation.Fields {
					assert.False(t, checked.Has(fk), "%s.%s in checked create", m.Name, fk)
					assert.True(t, unchecked.Has(fk), "%s.%s missing from unchecked create", m.Name, fk)
				}
			}
			assert.True(t, checked.Has(f.Name), "%s.%s missing from checked create", m.Name, f.Name)
		}
	}

	_, err := r.Validate("Form", CreateInput, obj{"name": "a", "slug": "a", "workspaceId": workspaceID})
	requireIssue(t, err, schema.ErrShape, "workspaceId")

	_, err = r.Validate("Form", UncheckedCreateInput, obj{
		"name": "a", "slug": "a", "workspaceId": workspaceID,
		"workspace": obj{"connect": obj{"id": workspaceID}},
	})
	requireIssue(t, err, schema.ErrShape, "workspace")
}

func TestParseCreateTagsTheVariant(t *testing.T) {
	r := newRegistry(t, Options{})

	m, err := r.ParseCreate("Form", obj{"name": "a", "slug": "a", "workspaceId": workspaceID, "publishedFormId": nil})
	require.NoError(t, err)
	assert.Equal(t, Unchecked, m.Variant)
	assert.Equal(t, OpCreate, m.Op)
	assert.Equal(t, "Form", m.Model)
	assert.Equal(t, workspaceID, m.Data["workspaceId"])

	_, err = r.ParseCreate("Form", obj{
		"name": "a", "slug": "a", "workspaceId": workspaceID,
		"workspace": obj{"connect": obj{"id": workspaceID}},
	})
	require.Error(t, err, "a mix of both variants is rejected")

	m, err = r.ParseUpdate("Form", obj{"name": obj{"set": "b"}, "workspace": obj{"connect": obj{"id": workspaceID}}})
	require.NoError(t, err)
	assert.Equal(t, Checked, m.Variant)

	m, err = r.ParseMutation("Form", OpUpdateMany, obj{"workspaceId": workspaceID})
	require.NoError(t, err)
	assert.Equal(t, Unchecked, m.Variant)

	m, err = r.ParseMutation("Step", OpCreateMany, arr{obj{"title": "a", "position": 1}, obj{"title": "b", "position": 2, "formId": nil}})
	require.NoError(t, err)
	assert.Len(t, m.Rows, 2)
	assert.Equal(t, int64(2), m.Rows[1]["position"])

	m, err = r.ParseMutation("Step", OpUpsert, obj{
		"create": obj{"title": "a", "position": 1, "form": obj{"connect": obj{"id": formID}}},
		"update": obj{"position": obj{"increment": 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, Checked, m.Variant)

	_, err = r.ParseMutation("Step", OpUpsert, obj{
		"create": obj{"title": "a", "position": 1, "formId": formID},
		"update": obj{"form": obj{"disconnect": true}},
	})
	require.Error(t, err, "create and update share one variant")

	_, err = r.ParseMutation("Step", Op("delete"), obj{})
	assert.True(t, errors.Is(err, schema.ErrUnknownSchema))
}

func TestFormCreateWithDraft(t *testing.T) {
	r := newRegistry(t, Options{MaxDepth: 16})

	m, err := r.ParseCreate("Form", obj{
		"name":      "Intake",
		"slug":      "intake",
		"workspace": obj{"connect": obj{"id": workspaceID}},
		"draftForm": obj{"create": obj{
			"name":      "Intake (draft)",
			"slug":      "intake-draft",
			"workspace": obj{"connect": obj{"id": workspaceID}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, Checked, m.Variant)

	draft := m.Data["draftForm"].(obj)["create"].(obj)
	assert.Equal(t, "intake-draft", draft["slug"])
	assert.NotContains(t, draft, "publishedForm")

	// the nested form cannot point back at its parent
	_, err = r.ParseCreate("Form", obj{
		"name": "Intake", "slug": "intake",
		"workspace": obj{"connect": obj{"id": workspaceID}},
		"draftForm": obj{"create": obj{
			"name": "d", "slug": "d",
			"workspace":     obj{"connect": obj{"id": workspaceID}},
			"publishedForm": obj{"connect": obj{"id": formID}},
		}},
	})
	require.Error(t, err)

	// but it may carry its own draft, in either variant
	_, err = r.ParseCreate("Form", obj{
		"name": "v1", "slug": "v1",
		"workspace": obj{"connect": obj{"id": workspaceID}},
		"draftForm": obj{"create": obj{
			"name": "v2", "slug": "v2", "workspaceId": workspaceID,
			"draftForm": obj{"connectOrCreate": obj{
				"where":  obj{"id": formID},
				"create": obj{"name": "v3", "slug": "v3", "workspaceId": workspaceID},
			}},
		}},
	})
	require.NoError(t, err)
}

func TestNestedSelfCreateDepthBound(t *testing.T) {
	draft := obj{"name": "last", "slug": "last", "workspaceId": workspaceID}
	for i := 0; i < 6; i++ {
		draft = obj{"name": "n", "slug": "n", "workspaceId": workspaceID, "draftForm": obj{"create": draft}}
	}

	_, err := newRegistry(t, Options{}).ParseCreate("Form", draft)
	require.NoError(t, err)

	_, err = newRegistry(t, Options{MaxDepth: 4}).ParseCreate("Form", draft)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrDepthExceeded))
}

// draftChain nests depth draft creates above leaf, each form written with
// its workspace foreign key.
func draftChain(depth int, leaf obj) obj {
	form := leaf
	for i := 0; i < depth; i++ {
		form = obj{"name": "n", "slug": "n", "workspaceId": workspaceID, "draftForm": obj{"create": form}}
	}
	return form
}

func draftUpdateChain(depth int, leaf obj) obj {
	form := leaf
	for i := 0; i < depth; i++ {
		form = obj{"workspaceId": workspaceID, "draftForm": obj{"update": form}}
	}
	return form
}

func TestDeepUncheckedChainsStayLinear(t *testing.T) {
	good := obj{"name": "last", "slug": "last", "workspaceId": workspaceID}
	bad := obj{"name": "last", "slug": "last", "workspaceId": "bad-uuid"}

	for _, mode := range []schema.Mode{schema.Strict, schema.Strip, schema.Passthrough} {
		t.Run(mode.String(), func(t *testing.T) {
			r := newRegistry(t, Options{Mode: mode})
			start := time.Now()

			m, err := r.ParseCreate("Form", draftChain(20, good))
			require.NoError(t, err)
			assert.Equal(t, Unchecked, m.Variant)

			_, err = r.ParseCreate("Form", draftChain(20, bad))
			require.Error(t, err)
			assert.True(t, errors.Is(err, schema.ErrInvalidFormat), "%v", err)

			m, err = r.ParseUpdate("Form", draftUpdateChain(20, obj{"name": "x"}))
			require.NoError(t, err)
			assert.Equal(t, Unchecked, m.Variant)

			_, err = r.ParseUpdate("Form", draftUpdateChain(20, obj{"workspaceId": "bad-uuid"}))
			require.Error(t, err)

			assert.Less(t, time.Since(start), 2*time.Second)
		})
	}
}

func TestNestedVariantIsChosenByKeys(t *testing.T) {
	r := newRegistry(t, Options{})

	// a foreign key selects the unchecked shape, so the relation is unknown
	_, err := r.ParseCreate("Form", obj{
		"name": "a", "slug": "a", "workspaceId": workspaceID,
		"draftForm": obj{"create": obj{
			"name": "b", "slug": "b", "workspaceId": workspaceID,
			"workspace": obj{"connect": obj{"id": workspaceID}},
		}},
	})
	requireIssue(t, err, schema.ErrShape, "draftForm.create.workspace")

	// without one the checked shape applies and asks for the relation
	_, err = r.ParseCreate("Form", obj{
		"name": "a", "slug": "a", "workspaceId": workspaceID,
		"draftForm": obj{"create": obj{"name": "b", "slug": "b"}},
	})
	requireIssue(t, err, schema.ErrShape, "draftForm.create.workspace")
}

func TestNestedToManyWrites(t *testing.T) {
	r := newRegistry(t, Options{})

	_, err := r.Validate("Form", UpdateInput, obj{
		"steps": obj{
			"create":     arr{obj{"title": "a", "position": 1}},
			"connect":    obj{"id": formID},
			"set":        arr{},
			"disconnect": arr{obj{"id": formID}},
			"update":     obj{"where": obj{"id": formID}, "data": obj{"position": obj{"increment": 1}}},
			"updateMany": arr{obj{"where": obj{"position": obj{"gt": 3}}, "data": obj{"title": "late"}}},
			"deleteMany": obj{"title": obj{"startsWith": "tmp"}},
			"upsert": obj{
				"where":  obj{"id": formID},
				"update": obj{"title": "x"},
				"create": obj{"title": "x", "position": 0},
			},
		},
		"submissions": obj{"createMany": obj{
			"data":           arr{obj{"answers": obj{"q1": "yes"}}},
			"skipDuplicates": true,
		}},
	})
	require.NoError(t, err)

	// rows created through the relation cannot name their parent
	_, err = r.Validate("Form", UpdateInput, obj{"submissions": obj{"createMany": obj{
		"data": arr{obj{"answers": obj{}, "formId": formID}},
	}}})
	requireIssue(t, err, schema.ErrShape, "submissions.createMany.data[0].formId")

	// deleteMany takes scalar predicates only
	_, err = r.Validate("Form", UpdateInput, obj{"steps": obj{"deleteMany": obj{"form": obj{"is": nil}}}})
	requireIssue(t, err, schema.ErrShape, "steps.deleteMany.form")
}

func TestNestedToOneWrites(t *testing.T) {
	r := newRegistry(t, Options{})

	_, err := r.Validate("Step", UpdateInput, obj{"form": obj{"disconnect": true}})
	require.NoError(t, err)
	_, err = r.Validate("Step", UpdateInput, obj{"form": obj{"delete": obj{"isPublished": false}}})
	require.NoError(t, err)
	_, err = r.Validate("Step", UpdateInput, obj{"form": obj{"update": obj{"where": obj{"isPublished": true}, "data": obj{"name": "x"}}}})
	require.NoError(t, err)

	// a submission always belongs to a form
	_, err = r.Validate("Submission", UpdateInput, obj{"form": obj{"disconnect": true}})
	requireIssue(t, err, schema.ErrShape, "form.disconnect")

	_, err = r.Validate("Submission", CreateInput, obj{"answers": obj{}})
	requireIssue(t, err, schema.ErrShape, "form")
}

func TestWriteValues(t *testing.T) {
	r := newRegistry(t, Options{})

	out, err := r.Validate("Submission", UncheckedCreateInput, obj{
		"formId":   formID,
		"answers":  "JsonNull",
		"tags":     obj{"set": arr{"a", "b"}},
		"score":    nil,
		"attempts": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, jsonnull.JsonNull, out.(obj)["answers"])

	_, err = r.Validate("Submission", UncheckedCreateInput, obj{"formId": formID, "answers": "AnyNull"})
	requireIssue(t, err, schema.ErrAmbiguousNullSemantics, "answers")

	_, err = r.Validate("Submission", UncheckedCreateInput, obj{"formId": formID, "answers": "DbNull"})
	requireIssue(t, err, schema.ErrAmbiguousNullSemantics, "answers")

	out, err = r.Validate("Form", UpdateInput, obj{"settings": "DbNull", "stepOrder": obj{"push": "s1"}})
	require.NoError(t, err)
	assert.Equal(t, jsonnull.DbNull, out.(obj)["settings"])
	assert.Equal(t, arr{"s1"}, out.(obj)["stepOrder"].(obj)["push"])

	_, err = r.Validate("Submission", UpdateInput, obj{"score": obj{"multiply": 2}, "attempts": obj{"increment": 1}})
	require.NoError(t, err)

	_, err = r.Validate("Submission", UpdateInput, obj{"status": obj{"increment": 1}})
	requireIssue(t, err, schema.ErrShape, "status.increment")

	_, err = r.Validate("Form", UncheckedCreateInput, obj{"id": "bad-uuid", "name": "x", "slug": "x", "workspaceId": workspaceID})
	requireIssue(t, err, schema.ErrInvalidFormat, "id")
}

func TestProjection(t *testing.T) {
	r := newRegistry(t, Options{})

	_, err := r.Validate("Form", FindManyArgs, obj{
		"select": obj{
			"id":        true,
			"workspace": obj{"select": obj{"name": true}},
			"steps":     obj{"where": obj{"position": obj{"gte": 1}}, "orderBy": obj{"position": "asc"}, "take": 5},
			"_count":    obj{"select": obj{"submissions": obj{"where": obj{"status": "PENDING"}}, "steps": true}},
		},
		"where":    obj{"isPublished": true},
		"orderBy":  arr{obj{"settings": obj{"sort": "desc", "nulls": "last"}}, obj{"steps": obj{"_count": "desc"}}},
		"distinct": "slug",
		"skip":     10,
	})
	require.NoError(t, err)

	_, err = r.Validate("Form", FindUniqueArgs, obj{"where": obj{"id": formID}, "select": obj{"id": true}, "include": obj{"steps": true}})
	requireIssue(t, err, schema.ErrShape, "")

	_, err = r.Validate("Form", FindManyArgs, obj{"skip": -1})
	requireIssue(t, err, schema.ErrShape, "skip")

	_, err = r.Validate("Form", FindManyArgs, obj{"orderBy": obj{"name": obj{"sort": "asc"}}})
	requireIssue(t, err, schema.ErrShape, "orderBy.name")

	_, err = r.Validate("User", FindManyArgs, obj{"include": obj{"memberships": true}, "select": nil})
	require.NoError(t, err)

	_, err = r.Validate("Form", Include, obj{"name": true})
	requireIssue(t, err, schema.ErrShape, "name")
}

func TestAggregationShapes(t *testing.T) {
	r := newRegistry(t, Options{})

	_, err := r.Validate("Submission", AggregateArgs, obj{
		"where":  obj{"status": "COMPLETE"},
		"_count": true,
		"_avg":   obj{"score": true, "attempts": true},
		"_min":   obj{"createdAt": true, "status": true},
	})
	require.NoError(t, err)

	_, err = r.Validate("Submission", AggregateArgs, obj{"_sum": obj{"status": true}})
	requireIssue(t, err, schema.ErrShape, "_sum.status")

	_, err = r.Validate("Submission", AggregateArgs, obj{"_max": obj{"answers": true}})
	requireIssue(t, err, schema.ErrShape, "_max.answers")

	_, err = r.Validate("Submission", GroupByArgs, obj{
		"by":      arr{"status", "formId"},
		"having":  obj{"score": obj{"_avg": obj{"gt": 0.5}}},
		"orderBy": obj{"_count": obj{"id": "desc"}},
		"_count":  obj{"_all": true},
	})
	require.NoError(t, err)

	_, err = r.Validate("Submission", GroupByArgs, obj{"by": "form"})
	requireIssue(t, err, schema.ErrShape, "by")

	_, err = r.Validate("User", AggregateArgs, obj{"_avg": obj{}})
	requireIssue(t, err, schema.ErrShape, "_avg")
}

func TestModes(t *testing.T) {
	input := obj{"name": "Intake", "slug": "intake", "workspaceId": workspaceID, "color": "red"}

	_, err := newRegistry(t, Options{}).ParseCreate("Form", input)
	require.Error(t, err)

	m, err := newRegistry(t, Options{Mode: schema.Strip}).ParseCreate("Form", input)
	require.NoError(t, err)
	assert.Equal(t, Unchecked, m.Variant)
	assert.NotContains(t, m.Data, "color")

	m, err = newRegistry(t, Options{Mode: schema.Passthrough}).ParseCreate("Form", input)
	require.NoError(t, err)
	assert.Equal(t, "red", m.Data["color"])

	// stripping never lets a lossy alternative win
	out, err := newRegistry(t, Options{Mode: schema.Strip}).Validate("Submission", Where, obj{"form": obj{"slug": "a"}})
	require.NoError(t, err)
	assert.Equal(t, obj{"slug": "a"}, out.(obj)["form"])
}

func TestRejectionsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	r := newRegistry(t, Options{Logger: logger.NewLogger([]string{"warn"}, &buf)})

	_, err := r.Validate("Form", WhereUnique, obj{"id": "bad-uuid"})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "FormWhereUniqueInput rejected")
	assert.Contains(t, buf.String(), `at "id"`)
	assert.NotContains(t, buf.String(), "bad-uuid")
}

func TestValidateJSON(t *testing.T) {
	r := newRegistry(t, Options{})

	out, err := r.ValidateJSON("Submission", Where, []byte(`{"attempts": {"gt": 9007199254740993}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), out.(obj)["attempts"].(obj)["gt"])

	_, err = r.ValidateJSON("Submission", Where, []byte(`{} {}`))
	assert.True(t, errors.Is(err, schema.ErrShape))

	_, err = r.Validate("Nope", Where, obj{})
	assert.True(t, errors.Is(err, schema.ErrUnknownSchema))
}

func TestNestedLookup(t *testing.T) {
	r := newRegistry(t, Options{})

	s, err := r.Nested("Form", CreateWithout, "publishedForm")
	require.NoError(t, err)
	o := s.(*schema.ObjectSchema)
	assert.False(t, o.Has("publishedForm"))
	assert.False(t, o.Has("publishedFormId"))
	assert.True(t, o.Has("draftForm"))

	s, err = r.Nested("Form", UncheckedCreateWithout, "workspace")
	require.NoError(t, err)
	o = s.(*schema.ObjectSchema)
	assert.False(t, o.Has("workspaceId"))
	assert.True(t, o.Has("publishedFormId"))
	assert.True(t, o.Has("draftForm"))

	assert.Equal(t, "FormUpdateManyWithoutWorkspaceNestedInput", NestedName("Form", UpdateManyWithoutNested, "workspace"))
	assert.Equal(t, "FormWorkspaceIdSlugCompoundUniqueInput", CompoundKeyName(r.Catalog().Model("Form"), r.Catalog().Model("Form").Keys[0]))
}
