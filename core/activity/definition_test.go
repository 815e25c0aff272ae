package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/idara/core/form"
)

func testDefinition(name string) Definition {
	return Definition{
		Name:       name,
		Label:      "Test",
		Collection: name,
		Fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.Text, Required: true},
		},
		SearchFields: []string{"title"},
	}
}

func Test_Definition_Sort(t *testing.T) {
	def := testDefinition("things")
	assert.Equal(t, []SortField{{Field: KeyCreatedAt, Ascending: false}}, def.Sort())

	def.DefaultSort = []SortField{{Field: "title", Ascending: true}}
	assert.Equal(t, def.DefaultSort, def.Sort())
}

func Test_Definition_Check(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Definition)
		wantErr string
	}{
		{name: "valid", mutate: func(*Definition) {}},
		{name: "missing name", mutate: func(d *Definition) { d.Name = "" }, wantErr: "name is required"},
		{name: "missing collection", mutate: func(d *Definition) { d.Collection = "" }, wantErr: "collection is required"},
		{
			name: "bad field",
			mutate: func(d *Definition) {
				d.Fields = append(d.Fields, form.Field{Name: "status", Kind: form.Select})
			},
			wantErr: "select requires options",
		},
		{
			name: "duplicate field",
			mutate: func(d *Definition) {
				d.Fields = append(d.Fields, form.Field{Name: "title", Kind: form.Text})
			},
			wantErr: "duplicate field",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := testDefinition("things")
			tt.mutate(&def)
			err := def.Check()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func Test_Registry(t *testing.T) {
	reg, err := NewRegistry(testDefinition("things"), testDefinition("widgets"))
	require.NoError(t, err)

	t.Run("lookup", func(t *testing.T) {
		def, ok := reg.Get("things")
		assert.True(t, ok)
		assert.Equal(t, "things", def.Name)

		_, ok = reg.Get("nonsense")
		assert.False(t, ok)
	})

	t.Run("duplicate registration is rejected", func(t *testing.T) {
		err := reg.Register(testDefinition("things"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("All is sorted by name", func(t *testing.T) {
		all := reg.All()
		require.Len(t, all, 2)
		assert.Equal(t, "things", all[0].Name)
		assert.Equal(t, "widgets", all[1].Name)
	})
}

func Test_Definition_HasSearchField(t *testing.T) {
	def := testDefinition("things")
	assert.True(t, def.HasSearchField("title"))
	assert.False(t, def.HasSearchField("createdBy"))
}
