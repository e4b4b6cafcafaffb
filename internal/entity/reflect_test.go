package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type planTier string

func (planTier) EnumCases() []EnumCase {
	return []EnumCase{
		{Name: "Free", Value: "free"},
		{Name: "Pro", Value: "pro"},
	}
}

type accountState int

func (accountState) EnumCases() []EnumCase {
	return []EnumCase{
		{Name: "Active", Value: 0},
		{Name: "Suspended", Value: 1},
	}
}

type account struct {
	ID        uint64 `entmig:"id,autoincrement,unsigned"`
	Email     string `entmig:",size=190"`
	Balance   float64
	Active    bool
	Tier      planTier
	State     accountState
	Settings  map[string]any
	Note      *string
	CreatedAt time.Time `entmig:",immutable"`
	UpdatedAt time.Time

	internal string
	Skipped  string `entmig:"-"`
}

func (account) EntityTable() string      { return "accounts" }
func (account) EntityConnection() string { return "billing" }
func (account) EntityIndexes() []Index {
	return []Index{{Columns: []string{"email"}, Unique: true}}
}

func TestDeriveAccount(t *testing.T) {
	d, err := Derive(account{})
	require.NoError(t, err)

	assert.Equal(t, "account", d.Name)
	assert.Equal(t, "accounts", d.Table)
	assert.Equal(t, "billing", d.Connection)
	assert.Equal(t, []string{"id"}, d.PrimaryKey)
	assert.Equal(t, "id", d.AutoIncrement)

	require.Len(t, d.Indexes, 1)
	assert.True(t, d.Indexes[0].Unique)

	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	assert.Equal(t, []string{
		"id", "email", "balance", "active", "tier", "state",
		"settings", "note", "created_at", "updated_at",
	}, names)

	require.NoError(t, d.Validate())
}

func TestDeriveColumnKinds(t *testing.T) {
	d, err := Derive(account{})
	require.NoError(t, err)

	kinds := map[string]Kind{}
	for _, c := range d.Columns {
		kinds[c.Name] = c.Kind
	}

	assert.Equal(t, KindInteger, kinds["id"])
	assert.Equal(t, KindString, kinds["email"])
	assert.Equal(t, KindFloat, kinds["balance"])
	assert.Equal(t, KindBoolean, kinds["active"])
	assert.Equal(t, KindEnum, kinds["tier"])
	assert.Equal(t, KindEnum, kinds["state"])
	assert.Equal(t, KindJSON, kinds["settings"])
	assert.Equal(t, KindString, kinds["note"])
	assert.Equal(t, KindDatetimeImmutable, kinds["created_at"])
	assert.Equal(t, KindDatetime, kinds["updated_at"])
}

func TestDeriveEnumBacking(t *testing.T) {
	d, err := Derive(account{})
	require.NoError(t, err)

	tier := findColumn(t, d, "tier")
	require.NotNil(t, tier.Enum)
	assert.Equal(t, EnumString, tier.Enum.Backing)
	assert.Equal(t, []string{"free", "pro"}, tier.Enum.StringValues())

	state := findColumn(t, d, "state")
	require.NotNil(t, state.Enum)
	assert.Equal(t, EnumInt, state.Enum.Backing)
}

func TestDeriveTagAttributes(t *testing.T) {
	d, err := Derive(account{})
	require.NoError(t, err)

	id := findColumn(t, d, "id")
	require.NotNil(t, id.Attr)
	assert.True(t, id.Attr.Unsigned)

	email := findColumn(t, d, "email")
	require.NotNil(t, email.Attr)
	require.NotNil(t, email.Attr.Size)
	assert.Equal(t, 190, *email.Attr.Size)
}

func TestDerivePointerFieldIsNullable(t *testing.T) {
	d, err := Derive(account{})
	require.NoError(t, err)

	note := findColumn(t, d, "note")
	assert.True(t, note.Nullable)
	assert.False(t, findColumn(t, d, "email").Nullable)
}

func TestDeriveInstanceValueBecomesDefault(t *testing.T) {
	d, err := Derive(account{Email: "nobody@example.com", Active: true})
	require.NoError(t, err)

	email := findColumn(t, d, "email")
	assert.True(t, email.HasDefault)
	assert.Equal(t, "nobody@example.com", email.Default)

	active := findColumn(t, d, "active")
	assert.True(t, active.HasDefault)
	assert.Equal(t, true, active.Default)

	balance := findColumn(t, d, "balance")
	assert.False(t, balance.HasDefault)
}

func TestDeriveTagDefaultAndDefinition(t *testing.T) {
	type widget struct {
		Status string `entmig:",default=draft,definition=VARCHAR(16) NOT NULL"`
	}
	d, err := Derive(widget{})
	require.NoError(t, err)

	status := findColumn(t, d, "status")
	require.NotNil(t, status.Attr)
	assert.True(t, status.Attr.HasDefault)
	assert.Equal(t, "draft", status.Attr.Default)
	assert.Equal(t, "VARCHAR(16) NOT NULL", status.Attr.Definition)
}

func TestDeriveRejectsNonStruct(t *testing.T) {
	_, err := Derive(42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a struct")

	var nilAccount *account
	_, err = Derive(nilAccount)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil pointer")
}

func TestDeriveRejectsBadTags(t *testing.T) {
	type badOption struct {
		A string `entmig:",frobnicate"`
	}
	_, err := Derive(badOption{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tag option")

	type badSize struct {
		A string `entmig:",size=big"`
	}
	_, err = Derive(badSize{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")
}

func TestDeriveDefaultConnection(t *testing.T) {
	type plain struct {
		ID int `entmig:"id,pk"`
	}
	d, err := Derive(plain{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConnection, d.Connection)
	assert.Equal(t, "plain", d.Table)
}

func TestStructSourceName(t *testing.T) {
	src := Struct(&account{})
	assert.Equal(t, "account", src.EntityName())
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"CreatedAt": "created_at",
		"UserID":    "user_id",
		"ID":        "id",
		"HTTPPort":  "http_port",
		"Name":      "name",
		"already":   "already",
	}
	for in, want := range tests {
		assert.Equal(t, want, snakeCase(in), in)
	}
}

func findColumn(t *testing.T, d *Descriptor, name string) *Column {
	t.Helper()
	for _, c := range d.Columns {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %q not found", name)
	return nil
}
