package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
)

func TestLoadFileForms(t *testing.T) {
	c, err := LoadFile("testdata/forms.prisma")
	require.NoError(t, err)
	require.True(t, c.Linked())

	form := c.Model("Form")
	require.NotNil(t, form)

	assert.Equal(t, FormatUUID, form.Field("id").Format)
	assert.True(t, form.Field("id").IsID)
	assert.False(t, form.Field("id").RequiredOnCreate())
	assert.True(t, form.Field("name").RequiredOnCreate())
	assert.False(t, form.Field("stepOrder").RequiredOnCreate())
	assert.False(t, form.Field("updatedAt").RequiredOnCreate())
	assert.Equal(t, Json, form.Field("settings").Scalar())

	published := form.Field("publishedForm")
	require.True(t, published.IsRelation())
	assert.True(t, published.Owning())
	assert.Equal(t, "draftForm", published.Relation.Back)
	draft := form.Field("draftForm")
	assert.False(t, draft.Owning())
	assert.Equal(t, "publishedForm", draft.Relation.Back)

	assert.Equal(t, "form", form.Field("steps").Relation.Back)
	assert.Equal(t, "steps", c.Model("Step").Field("form").Relation.Back)
	assert.True(t, form.HasToMany())

	require.Len(t, form.Keys, 1)
	assert.Equal(t, "workspaceId_slug", form.Keys[0].Property())
	assert.True(t, form.IsKeyPart("slug"))
	assert.False(t, form.IsKeyPart("name"))

	assert.Equal(t, published, form.ForeignKey("publishedFormId"))
	assert.Nil(t, form.ForeignKey("name"))

	membership := c.Model("Membership")
	require.Len(t, membership.Keys, 1)
	assert.True(t, membership.Keys[0].Primary)
	assert.Empty(t, membership.UniqueFields())
	assert.Equal(t, KindEnum, membership.Field("role").Kind)

	assert.Equal(t, FormatEmail, c.Model("User").Field("email").Format)
	assert.Equal(t, FormatNone, c.Model("User").Field("name").Format)

	enums := c.Enums()
	require.Len(t, enums, 2)
	assert.Equal(t, "Role", enums[0].Name)
}

func TestBuilderLinksSelfRelation(t *testing.T) {
	c := New()
	c.AddModel("Node",
		ScalarField("id", Int, ID(), Default()),
		ScalarField("parentId", Int, Optional()),
		RelationField("parent", "Node", Optional(), References([]string{"parentId"}, []string{"id"})),
		RelationField("children", "Node", List()),
	)
	require.NoError(t, c.Link())

	node := c.Model("Node")
	assert.Equal(t, "children", node.Field("parent").Relation.Back)
	assert.Equal(t, "parent", node.Field("children").Relation.Back)
	assert.True(t, node.Field("children").ToMany())
}

func TestLinkRejectsBrokenCatalogs(t *testing.T) {
	tests := []struct {
		name  string
		build func(c *Catalog)
	}{
		{
			name: "missing opposite field",
			build: func(c *Catalog) {
				c.AddModel("A", ScalarField("id", Int, ID()), ScalarField("bId", Int),
					RelationField("b", "B", References([]string{"bId"}, []string{"id"})))
				c.AddModel("B", ScalarField("id", Int, ID()))
			},
		},
		{
			name: "unknown target",
			build: func(c *Catalog) {
				c.AddModel("A", ScalarField("id", Int, ID()), RelationField("b", "Nope"))
			},
		},
		{
			name: "no identifier",
			build: func(c *Catalog) {
				c.AddModel("A", ScalarField("name", String))
			},
		},
		{
			name: "undeclared enum",
			build: func(c *Catalog) {
				c.AddModel("A", ScalarField("id", Int, ID()), EnumField("role", "Role"))
			},
		},
		{
			name: "ambiguous self relation",
			build: func(c *Catalog) {
				c.AddModel("A", ScalarField("id", Int, ID()), ScalarField("xId", Int), ScalarField("yId", Int),
					RelationField("x", "A", References([]string{"xId"}, []string{"id"})),
					RelationField("y", "A", References([]string{"yId"}, []string{"id"})),
					RelationField("xs", "A", List()))
			},
		},
		{
			name: "both sides own",
			build: func(c *Catalog) {
				c.AddModel("A", ScalarField("id", Int, ID()), ScalarField("bId", Int),
					RelationField("b", "B", References([]string{"bId"}, []string{"id"})))
				c.AddModel("B", ScalarField("id", Int, ID()), ScalarField("aId", Int),
					RelationField("a", "A", References([]string{"aId"}, []string{"id"})))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.build(c)
			err := c.Link()
			require.Error(t, err)
			assert.True(t, errors.Is(err, perrors.ErrInvalidCatalog))
			assert.False(t, c.Linked())
		})
	}
}

func TestParseReportsSchemaProblems(t *testing.T) {
	_, err := Parse("model A {\n id Nope @id\n}")
	require.Error(t, err)
	assert.True(t, errors.Is(err, perrors.ErrInvalidCatalog))
	assert.Contains(t, err.Error(), "unknown type 'Nope'")
}

func TestScalarTypeClasses(t *testing.T) {
	assert.True(t, Decimal.Numeric())
	assert.False(t, String.Numeric())
	assert.True(t, DateTime.Orderable())
	assert.False(t, Json.Orderable())
}
