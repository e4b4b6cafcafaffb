package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"entmig/internal/core"
)

func intPtr(n int) *int { return &n }

func TestGenerateCreateTable(t *testing.T) {
	g := NewGenerator()

	table := &core.Table{
		Name: "test_table",
		Columns: []*core.Column{
			{Name: "id", Type: core.TypeInteger, Options: core.Options{NotNull: true}},
			{Name: "name", Type: core.TypeString, Options: core.Options{NotNull: true, Length: intPtr(255)}},
			{Name: "created_at", Type: core.TypeDatetime, Options: core.Options{
				NotNull: true, HasDefault: true, Default: "CURRENT_TIMESTAMP",
			}},
		},
		PrimaryKey: []string{"id"},
	}

	want := "CREATE TABLE \"test_table\" (\n" +
		"  \"id\" INTEGER NOT NULL,\n" +
		"  \"name\" VARCHAR(255) NOT NULL,\n" +
		"  \"created_at\" DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,\n" +
		"  PRIMARY KEY (\"id\")\n" +
		");"
	assert.Equal(t, want, g.GenerateCreateTable(table))
}

func TestColumnTypeMapping(t *testing.T) {
	g := NewGenerator()

	tests := []struct {
		name string
		col  *core.Column
		want string
	}{
		{"string", &core.Column{Type: core.TypeString}, "VARCHAR(255)"},
		{"integer", &core.Column{Type: core.TypeInteger}, "INTEGER"},
		{"boolean maps to integer", &core.Column{Type: core.TypeBoolean}, "INTEGER"},
		{"float", &core.Column{Type: core.TypeFloat}, "REAL"},
		{"datetime", &core.Column{Type: core.TypeDatetime}, "DATETIME"},
		{"immutable datetime collapses", &core.Column{Type: core.TypeDatetimeImmutable}, "DATETIME"},
		{"json falls back to text", &core.Column{Type: core.TypeJSON}, "TEXT"},
		{
			"raw definition wins",
			&core.Column{Type: core.TypeInteger, Options: core.Options{ColumnDefinition: "BIGINT"}},
			"BIGINT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.columnType(tt.col))
		})
	}
}

func TestGenerateCreateIndexes(t *testing.T) {
	g := NewGenerator()

	table := &core.Table{
		Name: "posts",
		Indexes: []*core.Index{
			{Name: "posts_idx_author", Columns: []string{"author_id"}},
			{Name: "posts_unq_slug", Columns: []string{"slug"}, Unique: true},
		},
	}
	assert.Equal(t, []string{
		`CREATE INDEX "posts_idx_author" ON "posts" ("author_id");`,
		`CREATE UNIQUE INDEX "posts_unq_slug" ON "posts" ("slug");`,
	}, g.GenerateCreateIndexes(table))
}

func TestGenerateDropTable(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, `DROP TABLE IF EXISTS "posts";`, g.GenerateDropTable(&core.Table{Name: "posts"}))
}

func TestQuoteIdentifier(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, `"users"`, g.QuoteIdentifier("users"))
	assert.Equal(t, `"we""ird"`, g.QuoteIdentifier(`we"ird`))
}
