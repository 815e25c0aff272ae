package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Get(t *testing.T) {
	doc := map[string]interface{}{
		"name": "GPU server",
		"warrantyPeriod": map[string]interface{}{
			"years": 3,
			"months": map[string]interface{}{
				"remaining": 11,
			},
		},
	}

	tests := []struct {
		name    string
		path    string
		want    interface{}
		wantOK  bool
	}{
		{name: "top level", path: "name", want: "GPU server", wantOK: true},
		{name: "nested", path: "warrantyPeriod.years", want: 3, wantOK: true},
		{name: "deeply nested", path: "warrantyPeriod.months.remaining", want: 11, wantOK: true},
		{name: "missing leaf", path: "warrantyPeriod.days", wantOK: false},
		{name: "missing root", path: "nope", wantOK: false},
		{name: "path through non-object", path: "name.sub", wantOK: false},
		{name: "empty path", path: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Get(doc, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	t.Run("nil doc", func(t *testing.T) {
		_, ok := Get(nil, "name")
		assert.False(t, ok)
	})
}

func Test_Set(t *testing.T) {
	t.Run("creates intermediate objects if absent", func(t *testing.T) {
		doc := map[string]interface{}{}
		Set(doc, "warrantyPeriod.years", 3)

		got, ok := Get(doc, "warrantyPeriod.years")
		assert.True(t, ok)
		assert.Equal(t, 3, got)
	})

	t.Run("overwrites existing leaf", func(t *testing.T) {
		doc := map[string]interface{}{"title": "old"}
		Set(doc, "title", "new")
		assert.Equal(t, "new", doc["title"])
	})

	t.Run("replaces non-object intermediate", func(t *testing.T) {
		doc := map[string]interface{}{"warrantyPeriod": "scalar"}
		Set(doc, "warrantyPeriod.years", 5)

		got, ok := Get(doc, "warrantyPeriod.years")
		assert.True(t, ok)
		assert.Equal(t, 5, got)
	})
}

func Test_Expand(t *testing.T) {
	flat := map[string]interface{}{
		"title":                 "Microscope",
		"warrantyPeriod.years":  2,
		"warrantyPeriod.months": 6,
		"published":             true,
	}

	want := map[string]interface{}{
		"title": "Microscope",
		"warrantyPeriod": map[string]interface{}{
			"years":  2,
			"months": 6,
		},
		"published": true,
	}
	assert.Equal(t, want, Expand(flat))
}
