package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formSchema = `
datasource db {
  provider = "postgresql"
  url      = env("DATABASE_URL")
}

/// A form owned by a workspace.
model Form {
  /// @zod.string.uuid()
  id              String   @id @default(uuid()) @db.Uuid
  name            String
  slug            String
  isPublished     Boolean  @default(false)
  stepOrder       String[]
  settings        Json?    /// free-form settings
  workspaceId     String   @db.Uuid
  workspace       Workspace @relation(fields: [workspaceId], references: [id])
  publishedFormId String?  @unique @db.Uuid
  publishedForm   Form?    @relation("FormVersions", fields: [publishedFormId], references: [id])
  draftForm       Form?    @relation("FormVersions")

  @@unique([workspaceId, slug])
  @@index([type], map: "idx_form_type")
  type            String
}

model Workspace {
  id    String @id
  forms Form[]
}

// plain comment
enum Role {
  OWNER
  MEMBER
}
`

func TestParseIndexWithType(t *testing.T) {
	input := `
model book_categories {
  id String @id
  type String
  @@index([type], map: "idx_book_categories_type")
}
`
	p := NewParser(NewLexer(input))
	schema := p.ParseSchema()

	require.Len(t, schema.Models, 1)
	model := schema.Models[0]
	require.Len(t, model.Attributes, 1)

	attr := model.Attributes[0]
	assert.Equal(t, "index", attr.Name)
	assert.Equal(t, []string{"type"}, attr.StringList("fields", 0))
	assert.Equal(t, "idx_book_categories_type", attr.StringArg("map", -1))
}

func TestParseFormSchema(t *testing.T) {
	schema, errs, err := Parse(formSchema)
	require.NoError(t, err, "%v", errs)

	form := schema.Model("Form")
	require.NotNil(t, form)
	assert.Equal(t, []string{"A form owned by a workspace."}, form.Doc)

	id := form.Field("id")
	require.NotNil(t, id)
	assert.Equal(t, []string{"@zod.string.uuid()"}, id.Doc)
	assert.True(t, id.HasAttribute("id"))
	assert.True(t, id.HasAttribute("db.Uuid"))

	settings := form.Field("settings")
	require.NotNil(t, settings)
	assert.True(t, settings.Type.IsOptional)
	assert.Equal(t, []string{"free-form settings"}, settings.Doc)
	assert.Empty(t, form.Field("workspaceId").Doc, "trailing doc must not leak to the next field")

	assert.True(t, form.Field("stepOrder").Type.IsArray)
	assert.Equal(t, false, form.Field("isPublished").Attribute("default").Arguments[0].Value)

	published := form.Field("publishedForm").Attribute("relation")
	require.NotNil(t, published)
	assert.Equal(t, "FormVersions", published.StringArg("name", 0))
	assert.Equal(t, []string{"publishedFormId"}, published.StringList("fields", -1))
	assert.Equal(t, []string{"id"}, published.StringList("references", -1))

	unique := form.Attribute("unique")
	require.NotNil(t, unique)
	assert.Equal(t, []string{"workspaceId", "slug"}, unique.StringList("fields", 0))

	require.NotNil(t, schema.Enum("Role"))
	assert.Len(t, schema.Enum("Role").Values, 2)
	assert.Nil(t, schema.Model("Missing"))
}

func TestValidateRejectsBrokenSchemas(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "unknown type",
			input: "model A {\n id String @id\n b Bogus\n}",
			want:  "unknown type 'Bogus'",
		},
		{
			name:  "relation without references",
			input: "model A {\n id String @id\n bId String\n b B @relation(fields: [bId])\n}\nmodel B {\n id String @id\n}",
			want:  "needs both 'fields' and 'references'",
		},
		{
			name:  "compound key on unknown field",
			input: "model A {\n id String @id\n @@unique([id, nope])\n}",
			want:  "unknown field 'nope'",
		},
		{
			name:  "duplicate enum value",
			input: "enum E {\n A\n A\n}",
			want:  "duplicate value 'A'",
		},
		{
			name:  "bad provider",
			input: "datasource db {\n provider = \"oracle\"\n}",
			want:  "invalid provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs, err := Parse(tt.input)
			require.Error(t, err)
			assert.Contains(t, strings.Join(errs, "\n"), tt.want)
		})
	}
}

func TestLexerDocComments(t *testing.T) {
	l := NewLexer("//// not a doc\n/// a doc\nmodel")
	tok := l.NextToken()
	assert.Equal(t, TokenNewline, tok.Type)
	tok = l.NextToken()
	assert.Equal(t, TokenDocComment, tok.Type)
	assert.Equal(t, "a doc", tok.Literal)
	assert.Equal(t, TokenNewline, l.NextToken().Type)
	assert.Equal(t, TokenModel, l.NextToken().Type)
	assert.Equal(t, TokenEOF, l.NextToken().Type)
}
