// Package forms declares HTML forms as data, binds submitted values to them
// and renders their fields with Bootstrap classes.
package forms

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
)

type WidgetType string

const (
	WidgetText           WidgetType = "text"
	WidgetNumber         WidgetType = "number"
	WidgetTextarea       WidgetType = "textarea"
	WidgetSelect         WidgetType = "select"
	WidgetMultipleSelect WidgetType = "multipleSelect"
)

// Choice is one option of a select widget.
type Choice struct {
	Value string
	Label string
}

// Choices maps a choice source name (as referenced by FieldSpec.Choices) to its options.
type Choices map[string][]Choice

type ValidatorSpec struct {
	Name string `yaml:"name"`
	Arg  *int64 `yaml:"arg"`
}

// FieldSpec is the static definition of one form field.
type FieldSpec struct {
	Name            string          `yaml:"name"`
	Label           string          `yaml:"label"`
	Type            FieldType       `yaml:"type"`
	Widget          WidgetType      `yaml:"widget"`
	Classes         []string        `yaml:"classes"`
	Required        bool            `yaml:"required"`
	ErrorAfterField bool            `yaml:"error_after_field"`
	Sanitize        bool            `yaml:"sanitize"`
	Choices         string          `yaml:"choices"`
	Validators      []ValidatorSpec `yaml:"validators"`

	validators []validator
}

func (s *FieldSpec) multiple() bool {
	return s.Widget == WidgetMultipleSelect
}

// Schema is an immutable, ordered set of field definitions. It is built once
// and shared by every request.
type Schema struct {
	Fields []FieldSpec `yaml:"fields"`
}

//go:embed product_form.yaml
var productFormYAML []byte

// LoadProductSchema decodes the embedded product form definition.
func LoadProductSchema() (*Schema, error) {
	return LoadSchema(productFormYAML)
}

// LoadSchema decodes and checks a YAML form definition.
func LoadSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding form schema: %w", err)
	}
	if len(s.Fields) == 0 {
		return nil, fmt.Errorf("form schema declares no fields")
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Name == "" {
			return nil, fmt.Errorf("field %d: missing name", i)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("field %q: declared twice", f.Name)
		}
		seen[f.Name] = struct{}{}

		if f.Label == "" {
			f.Label = defaultLabel(f.Name)
		}
		switch f.Type {
		case TypeString, TypeNumber:
		case "":
			f.Type = TypeString
		default:
			return nil, fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
		}
		switch f.Widget {
		case WidgetText, WidgetNumber, WidgetTextarea, WidgetSelect, WidgetMultipleSelect:
		case "":
			f.Widget = WidgetText
		default:
			return nil, fmt.Errorf("field %q: unknown widget %q", f.Name, f.Widget)
		}

		for _, vs := range f.Validators {
			v, err := compileValidator(vs, f)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			f.validators = append(f.validators, v)
		}
	}
	return &s, nil
}

// Field returns the definition named name.
func (s *Schema) Field(name string) (*FieldSpec, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// NewForm creates an unbound form instance. Fields whose choice source is
// missing from choices get an empty choice set.
func (s *Schema) NewForm(choices Choices) *Form {
	form := &Form{
		fields: make([]*Field, len(s.Fields)),
		byName: make(map[string]*Field, len(s.Fields)),
	}
	for i := range s.Fields {
		spec := &s.Fields[i]
		field := &Field{Spec: spec}
		if spec.Choices != "" {
			field.Choices = choices[spec.Choices]
		}
		form.fields[i] = field
		form.byName[spec.Name] = field
	}
	return form
}

// ProductForm builds the product form with the given category and tag options.
// Either list may be nil.
func (s *Schema) ProductForm(categories, tags []Choice) *Form {
	return s.NewForm(Choices{"categories": categories, "tags": tags})
}

// defaultLabel turns "category_id" into "Category id".
func defaultLabel(name string) string {
	label := strings.ReplaceAll(name, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
