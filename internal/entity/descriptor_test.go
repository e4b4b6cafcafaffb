package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDescriptor() *Descriptor {
	return &Descriptor{
		Name:       "User",
		Table:      "users",
		Connection: "default",
		Columns: []*Column{
			{Name: "id", Kind: KindInteger},
			{Name: "email", Kind: KindString},
		},
		PrimaryKey:    []string{"id"},
		AutoIncrement: "id",
		Indexes: []*Index{
			{Columns: []string{"email"}, Unique: true},
		},
	}
}

func TestDescriptorValidateOK(t *testing.T) {
	require.NoError(t, validDescriptor().Validate())
}

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *Descriptor)
		wantErr string
	}{
		{
			"empty table name",
			func(d *Descriptor) { d.Table = " " },
			"table name is empty",
		},
		{
			"no columns",
			func(d *Descriptor) { d.Columns = nil },
			"no columns",
		},
		{
			"duplicate column names",
			func(d *Descriptor) { d.Columns = append(d.Columns, &Column{Name: "ID", Kind: KindInteger}) },
			"duplicate column name",
		},
		{
			"unknown kind",
			func(d *Descriptor) { d.Columns[0].Kind = "decimalish" },
			"unknown kind",
		},
		{
			"enum without cases",
			func(d *Descriptor) { d.Columns[0].Kind = KindEnum },
			"has no cases",
		},
		{
			"primary key references unknown column",
			func(d *Descriptor) { d.PrimaryKey = []string{"missing"}; d.AutoIncrement = "" },
			"primary key references nonexistent column",
		},
		{
			"index references unknown column",
			func(d *Descriptor) { d.Indexes = []*Index{{Name: "i", Columns: []string{"missing"}}} },
			"references nonexistent column",
		},
		{
			"index without columns",
			func(d *Descriptor) { d.Indexes = []*Index{{Name: "i"}} },
			"has no columns",
		},
		{
			"auto-increment outside primary key",
			func(d *Descriptor) { d.AutoIncrement = "email" },
			"not part of the primary key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDescriptor()
			tt.mutate(d)
			err := d.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnumSetAccessors(t *testing.T) {
	set := &EnumSet{
		Backing: EnumString,
		Cases: []EnumCase{
			{Name: "Free", Value: "free"},
			{Name: "Pro", Value: "pro"},
			{Name: "Unpriced"},
		},
	}

	assert.Equal(t, []string{"Free", "Pro", "Unpriced"}, set.Names())
	assert.Equal(t, []string{"free", "pro", "Unpriced"}, set.StringValues())
}

func TestEntityNameDefaultsToTable(t *testing.T) {
	d := &Descriptor{Table: "users"}
	assert.Equal(t, "users", d.EntityName())

	d.Name = "User"
	assert.Equal(t, "User", d.EntityName())
}

func TestRegistryPreservesOrder(t *testing.T) {
	r := NewRegistry()
	r.RegisterDescriptor(&Descriptor{Name: "A", Table: "a"})
	r.RegisterDescriptor(&Descriptor{Name: "B", Table: "b"})

	sources := r.Sources()
	require.Len(t, sources, 2)
	assert.Equal(t, "A", sources[0].EntityName())
	assert.Equal(t, "B", sources[1].EntityName())
}

func TestStaticSourceDescribe(t *testing.T) {
	d := validDescriptor()
	src := Static(d)
	got, err := src.Describe()
	require.NoError(t, err)
	assert.Same(t, d, got)
}
