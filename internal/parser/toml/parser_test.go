package toml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entmig/internal/entity"
)

const usersSchema = `
[[entities]]
name = "User"
table = "users"
connection = "default"
primary_key = ["id"]
auto_increment = "id"

[[entities.columns]]
name = "id"
kind = "integer"
unsigned = true

[[entities.columns]]
name = "email"
kind = "string"
size = 190

[[entities.columns]]
name = "bio"
kind = "string"
nullable = true

[[entities.columns]]
name = "created_at"
kind = "datetime_immutable"
default = "CURRENT_TIMESTAMP"

[[entities.indexes]]
columns = ["email"]
unique = true
`

func TestParseUsers(t *testing.T) {
	descriptors, err := NewParser().Parse(strings.NewReader(usersSchema))
	require.NoError(t, err)
	require.Len(t, descriptors, 1)

	d := descriptors[0]
	assert.Equal(t, "User", d.Name)
	assert.Equal(t, "users", d.Table)
	assert.Equal(t, "default", d.Connection)
	assert.Equal(t, []string{"id"}, d.PrimaryKey)
	assert.Equal(t, "id", d.AutoIncrement)
	require.Len(t, d.Columns, 4)
	require.Len(t, d.Indexes, 1)
	assert.True(t, d.Indexes[0].Unique)

	id := d.Columns[0]
	assert.Equal(t, entity.KindInteger, id.Kind)
	require.NotNil(t, id.Attr)
	assert.True(t, id.Attr.Unsigned)

	email := d.Columns[1]
	require.NotNil(t, email.Attr)
	require.NotNil(t, email.Attr.Size)
	assert.Equal(t, 190, *email.Attr.Size)

	bio := d.Columns[2]
	assert.True(t, bio.Nullable)
	assert.Nil(t, bio.Attr)

	created := d.Columns[3]
	assert.Equal(t, entity.KindDatetimeImmutable, created.Kind)
	require.NotNil(t, created.Attr)
	assert.True(t, created.Attr.HasDefault)
	assert.Equal(t, "CURRENT_TIMESTAMP", created.Attr.Default)

	require.NoError(t, d.Validate())
}

func TestParseDefaultsConnection(t *testing.T) {
	const schema = `
[[entities]]
table = "plain"

[[entities.columns]]
name = "id"
kind = "integer"
`
	descriptors, err := NewParser().Parse(strings.NewReader(schema))
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.Equal(t, entity.DefaultConnection, descriptors[0].Connection)
}

func TestParseEnumBackings(t *testing.T) {
	const schema = `
[[entities]]
table = "plans"

[[entities.columns]]
name = "tier"
kind = "enum"
values = ["free", "pro"]

[[entities.columns]]
name = "phase"
kind = "enum"
backing = "pure"
values = ["Draft", "Live"]

[[entities.columns]]
name = "state"
kind = "enum"
backing = "int"
`
	descriptors, err := NewParser().Parse(strings.NewReader(schema))
	require.NoError(t, err)
	d := descriptors[0]
	require.Len(t, d.Columns, 3)

	tier := d.Columns[0]
	require.NotNil(t, tier.Enum)
	assert.Equal(t, entity.EnumString, tier.Enum.Backing)
	assert.Equal(t, []string{"free", "pro"}, tier.Enum.StringValues())

	phase := d.Columns[1]
	require.NotNil(t, phase.Enum)
	assert.Equal(t, entity.EnumPure, phase.Enum.Backing)
	assert.Equal(t, []string{"Draft", "Live"}, phase.Enum.Names())

	state := d.Columns[2]
	require.NotNil(t, state.Enum)
	assert.Equal(t, entity.EnumInt, state.Enum.Backing)
	assert.NotEmpty(t, state.Enum.Cases)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		schema  string
		wantErr string
	}{
		{
			"malformed toml",
			`[[entities]`,
			"decode error",
		},
		{
			"missing table",
			"[[entities]]\nname = \"X\"\n",
			"table name is empty",
		},
		{
			"column without kind",
			"[[entities]]\ntable = \"t\"\n[[entities.columns]]\nname = \"a\"\n",
			"kind is empty",
		},
		{
			"unknown kind",
			"[[entities]]\ntable = \"t\"\n[[entities.columns]]\nname = \"a\"\nkind = \"decimalish\"\n",
			"unknown kind",
		},
		{
			"string enum without values",
			"[[entities]]\ntable = \"t\"\n[[entities.columns]]\nname = \"a\"\nkind = \"enum\"\n",
			"enum column has no values",
		},
		{
			"unknown enum backing",
			"[[entities]]\ntable = \"t\"\n[[entities.columns]]\nname = \"a\"\nkind = \"enum\"\nbacking = \"float\"\nvalues = [\"x\"]\n",
			"unknown enum backing",
		},
		{
			"index without columns",
			"[[entities]]\ntable = \"t\"\n[[entities.columns]]\nname = \"a\"\nkind = \"string\"\n[[entities.indexes]]\nname = \"i\"\n",
			"has no columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(strings.NewReader(tt.schema))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseFileAndSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entities.toml")
	require.NoError(t, os.WriteFile(path, []byte(usersSchema), 0644))

	sources, err := NewParser().Sources(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "User", sources[0].EntityName())

	d, err := sources[0].Describe()
	require.NoError(t, err)
	assert.Equal(t, "users", d.Table)
}

func TestParseFileMissing(t *testing.T) {
	_, err := NewParser().ParseFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")
}
