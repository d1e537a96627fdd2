package forms

import (
	"html"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

// Outcome is the result of binding submitted data to a form.
type Outcome int

const (
	// Empty means none of the form's fields were submitted.
	Empty Outcome = iota
	// Invalid means at least one field failed validation.
	Invalid
	// Valid means every field passed validation.
	Valid
)

func (o Outcome) String() string {
	switch o {
	case Empty:
		return "empty"
	case Invalid:
		return "error"
	case Valid:
		return "success"
	default:
		return "unknown"
	}
}

// Field is the request-scoped state of one form field.
type Field struct {
	Spec    *FieldSpec
	Choices []Choice

	// Value holds the submitted text of single-valued widgets, Values the
	// selected options of a multiple select.
	Value  string
	Values []string
	// Number is the decoded value of a number field.
	Number decimal.Decimal
	Error  string
}

func (f *Field) Name() string  { return f.Spec.Name }
func (f *Field) Label() string { return f.Spec.Label }

func (f *Field) HasValue() bool {
	if f.Spec.multiple() {
		return len(f.Values) > 0
	}
	return f.Value != ""
}

func (f *Field) values() []string {
	if f.Spec.multiple() {
		return f.Values
	}
	if f.Value == "" {
		return nil
	}
	return []string{f.Value}
}

func (f *Field) set(raw []string) {
	if f.Spec.multiple() {
		f.Values = splitValues(raw)
		return
	}
	f.Value = ""
	if len(raw) > 0 {
		f.Value = strings.TrimSpace(raw[0])
	}
	if f.Spec.Sanitize {
		f.Value = sanitizeText(f.Value)
	}
}

func (f *Field) validate() {
	f.Error = ""
	f.Number = decimal.Decimal{}
	if !f.HasValue() {
		if f.Spec.Required {
			f.Error = requiredMessage(f.Label())
		}
		return
	}
	if f.Spec.Type == TypeNumber {
		n, err := decimal.NewFromString(f.Value)
		if err != nil {
			f.Error = msgNumber
			return
		}
		if msg := numberRangeMessage(n); msg != "" {
			f.Error = msg
			return
		}
		f.Number = n
	}
	for _, v := range f.Spec.validators {
		if msg := v(f); msg != "" {
			f.Error = msg
			return
		}
	}
	f.Error = choiceValidator(f)
}

// splitValues flattens repeated keys and comma separated lists into one id list.
func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeText strips any markup, leaving plain text.
func sanitizeText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(raw)))
}

// Form is a request-scoped form instance created by Schema.NewForm.
type Form struct {
	fields []*Field
	byName map[string]*Field
}

// Fields returns the fields in schema order.
func (f *Form) Fields() []*Field {
	return f.fields
}

func (f *Form) Field(name string) (*Field, bool) {
	field, ok := f.byName[name]
	return field, ok
}

// SetValue pre-populates a field. Unknown names are ignored.
func (f *Form) SetValue(name string, values ...string) {
	if field, ok := f.byName[name]; ok {
		field.set(values)
	}
}

// Handle parses the request body and binds it.
func (f *Form) Handle(r *http.Request) (Outcome, error) {
	if err := r.ParseForm(); err != nil {
		return Invalid, err
	}
	return f.Bind(r.PostForm), nil
}

// Bind decodes and validates values. When none of the form's fields are
// present the form is left untouched and Empty is returned.
func (f *Form) Bind(values url.Values) Outcome {
	submitted := false
	for _, field := range f.fields {
		if _, ok := values[field.Name()]; ok {
			submitted = true
			break
		}
	}
	if !submitted {
		return Empty
	}

	outcome := Valid
	for _, field := range f.fields {
		field.set(values[field.Name()])
		field.validate()
		if field.Error != "" {
			outcome = Invalid
		}
	}
	return outcome
}

// Errors maps field names to their error message. Nil when the form has no errors.
func (f *Form) Errors() map[string]string {
	var errs map[string]string
	for _, field := range f.fields {
		if field.Error == "" {
			continue
		}
		if errs == nil {
			errs = make(map[string]string)
		}
		errs[field.Name()] = field.Error
	}
	return errs
}

func (f *Form) Value(name string) string {
	if field, ok := f.byName[name]; ok {
		return field.Value
	}
	return ""
}

// Int returns the integer part of a bound number field.
func (f *Form) Int(name string) int64 {
	if field, ok := f.byName[name]; ok {
		return field.Number.IntPart()
	}
	return 0
}

// ID parses a single-valued id field; it returns 0 when the value is not an id.
func (f *Form) ID(name string) uint {
	id, _ := strconv.ParseUint(f.Value(name), 10, 64)
	return uint(id)
}

// IDs parses a multiple select of ids, skipping anything that is not an id.
func (f *Form) IDs(name string) []uint {
	field, ok := f.byName[name]
	if !ok {
		return nil
	}
	ids := make([]uint, 0, len(field.values()))
	for _, v := range field.values() {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

// HTML renders every field with RenderField.
func (f *Form) HTML() template.HTML {
	var b strings.Builder
	for _, field := range f.fields {
		b.WriteString(string(RenderField(field)))
	}
	return template.HTML(b.String())
}
