package forms

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProductSchema(t *testing.T) {
	schema, err := LoadProductSchema()
	require.NoError(t, err)

	var names []string
	for _, f := range schema.Fields {
		names = append(names, f.Name)
		assert.True(t, f.Required, "%s should be required", f.Name)
		assert.True(t, f.ErrorAfterField, "%s should render its error after the input", f.Name)
	}
	want := []string{"name", "cost", "description", "category_id", "tags"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	cost, ok := schema.Field("cost")
	require.True(t, ok)
	assert.Equal(t, TypeNumber, cost.Type)
	assert.Len(t, cost.validators, 2)

	category, ok := schema.Field("category_id")
	require.True(t, ok)
	assert.Equal(t, "Category", category.Label)
	assert.Equal(t, WidgetSelect, category.Widget)

	tags, ok := schema.Field("tags")
	require.True(t, ok)
	assert.Equal(t, "Tags", tags.Label)
	assert.Equal(t, WidgetMultipleSelect, tags.Widget)
}

func TestProductFormWithoutChoices(t *testing.T) {
	schema, err := LoadProductSchema()
	require.NoError(t, err)

	form := schema.ProductForm(nil, nil)

	category, ok := form.Field("category_id")
	require.True(t, ok)
	assert.Empty(t, category.Choices)

	outcome := form.Bind(url.Values{
		"name":        {"Kale"},
		"cost":        {"3"},
		"description": {"Leafy"},
		"category_id": {"42"},
		"tags":        {"7"},
	})
	assert.Equal(t, Valid, outcome, "empty choice sets skip membership checks")
	assert.Nil(t, form.Errors())
}

func TestProductFormChoicesArePerInstance(t *testing.T) {
	schema, err := LoadProductSchema()
	require.NoError(t, err)

	withChoices := schema.ProductForm([]Choice{{Value: "1", Label: "Fruits"}}, nil)
	without := schema.ProductForm(nil, nil)

	c1, _ := withChoices.Field("category_id")
	c2, _ := without.Field("category_id")
	assert.Len(t, c1.Choices, 1)
	assert.Empty(t, c2.Choices)
}

func TestLoadSchemaErrors(t *testing.T) {
	testCases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "No fields",
			yaml:    "fields: []",
			wantErr: "declares no fields",
		},
		{
			name:    "Duplicate field",
			yaml:    "fields:\n  - name: a\n  - name: a\n",
			wantErr: `field "a": declared twice`,
		},
		{
			name:    "Unknown validator",
			yaml:    "fields:\n  - name: a\n    validators:\n      - name: email\n",
			wantErr: `unknown validator "email"`,
		},
		{
			name:    "Min without arg",
			yaml:    "fields:\n  - name: a\n    type: number\n    validators:\n      - name: min\n",
			wantErr: "min needs an arg",
		},
		{
			name:    "Integer on string field",
			yaml:    "fields:\n  - name: a\n    validators:\n      - name: integer\n",
			wantErr: "integer needs a number field",
		},
		{
			name:    "Unknown widget",
			yaml:    "fields:\n  - name: a\n    widget: slider\n",
			wantErr: `unknown widget "slider"`,
		},
		{
			name:    "Malformed yaml",
			yaml:    "fields: [",
			wantErr: "decoding form schema",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadSchema([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadSchemaDefaults(t *testing.T) {
	schema, err := LoadSchema([]byte("fields:\n  - name: unit_price\n"))
	require.NoError(t, err)

	f := schema.Fields[0]
	assert.Equal(t, "Unit price", f.Label)
	assert.Equal(t, TypeString, f.Type)
	assert.Equal(t, WidgetText, f.Widget)
}
